// internal/selection/overlay.go - Selection overlay objects
package selection

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// EdgeLabel is a length label anchored at an edge midpoint
type EdgeLabel struct {
	Position orb.Point `json:"position"`
	Text     string    `json:"text"`
}

// Overlay groups the transient objects created for one selected feature:
// edge-length labels and vertex markers. The whole overlay is torn down on
// deselect so repeated toggle cycles never leak.
type Overlay struct {
	Labels   []EdgeLabel        `json:"labels"`
	Vertices []*geojson.Feature `json:"vertices"`
}

// Renderer places and removes overlays keyed by feature identifier. The
// concrete application backs this with map SDK popups and a point layer.
type Renderer interface {
	Render(id string, overlay *Overlay)
	Clear(id string)
}

// NoopRenderer discards overlays; used when no map surface exists
type NoopRenderer struct{}

func (NoopRenderer) Render(id string, overlay *Overlay) {}

func (NoopRenderer) Clear(id string) {}

// formatEdgeLabel renders an edge length the way the info panel shows it
func formatEdgeLabel(lengthMeters float64) string {
	return fmt.Sprintf("%.1f m", lengthMeters)
}
