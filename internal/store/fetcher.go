// internal/store/fetcher.go - Store-backed tile fetcher
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielsivyer4567/parcelmeter/internal/tile"
)

// Fetcher serves tiles from a local store instead of the network,
// implementing the same interface as the HTTP fetcher so a viewport
// loader can run offline against prefetched data.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a store-backed fetcher
func NewFetcher(store *Store) *Fetcher {
	return &Fetcher{store: store}
}

// Fetch reads and parses a tile body from the store
func (f *Fetcher) Fetch(ctx context.Context, request *tile.Request) (*tile.Response, error) {
	start := time.Now()

	data, err := f.store.Get(request.Key)
	if err != nil {
		return nil, err
	}

	features, err := tile.ParseFeatures(data)
	if err != nil {
		return nil, fmt.Errorf("stored tile %s body invalid: %w", request.Key, err)
	}

	return &tile.Response{
		Request:   request,
		Data:      data,
		Features:  features,
		Size:      len(data),
		FetchTime: time.Since(start),
	}, nil
}
