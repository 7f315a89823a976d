// internal/tile/types.go - Tile types and interfaces
package tile

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Key identifies a tile in the slippy-map pyramid
type Key struct {
	Z int `json:"z"`
	X int `json:"x"`
	Y int `json:"y"`
}

// NewKey creates a new tile key
func NewKey(z, x, y int) Key {
	return Key{Z: z, X: x, Y: y}
}

// String returns the canonical "z/x/y" form used as a set member
func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Z, k.X, k.Y)
}

// Request represents a request for a specific tile
type Request struct {
	Key     Key               `json:"key"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Response represents the response from a tile server
type Response struct {
	Request    *Request           `json:"request"`
	Data       []byte             `json:"data"`
	Features   []*geojson.Feature `json:"features"`
	Headers    http.Header        `json:"headers"`
	StatusCode int                `json:"status_code"`
	Size       int                `json:"size"`
	FetchTime  time.Duration      `json:"fetch_time"`
}

// Range represents an inclusive range of tiles at a single zoom level
type Range struct {
	Zoom int `json:"zoom"`
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

// Fetcher defines the interface for fetching a tile's feature data
type Fetcher interface {
	Fetch(ctx context.Context, request *Request) (*Response, error)
}

// NewRequest creates a new tile request with the specified coordinates
func NewRequest(key Key, baseURL string) *Request {
	return &Request{
		Key:     key,
		URL:     buildTileURL(baseURL, key),
		Headers: make(map[string]string),
	}
}

// Keys enumerates every key in the range in x-major order
func (r Range) Keys() []Key {
	keys := make([]Key, 0, r.Count())
	for x := r.MinX; x <= r.MaxX; x++ {
		for y := r.MinY; y <= r.MaxY; y++ {
			keys = append(keys, NewKey(r.Zoom, x, y))
		}
	}
	return keys
}

// Count returns the total number of tiles in the range
func (r Range) Count() int64 {
	return int64(r.MaxX-r.MinX+1) * int64(r.MaxY-r.MinY+1)
}

// ValidateCoordinates ensures tile coordinates are within valid bounds
func ValidateCoordinates(z, x, y int) error {
	if z < 0 || z > 22 {
		return fmt.Errorf("zoom level %d out of range [0, 22]", z)
	}

	maxTile := 1 << uint(z)
	if x < 0 || x >= maxTile {
		return fmt.Errorf("x coordinate %d out of range [0, %d] for zoom %d", x, maxTile-1, z)
	}
	if y < 0 || y >= maxTile {
		return fmt.Errorf("y coordinate %d out of range [0, %d] for zoom %d", y, maxTile-1, z)
	}

	return nil
}

// buildTileURL constructs a tile URL from base URL and coordinates
func buildTileURL(baseURL string, key Key) string {
	return fmt.Sprintf("%s/%d/%d/%d/tile.geojson", baseURL, key.Z, key.X, key.Y)
}
