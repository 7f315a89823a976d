// internal/tile/loader.go - Viewport tile loading implementation
package tile

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
	"github.com/teris-io/shortid"

	"github.com/danielsivyer4567/parcelmeter/internal/config"
	"github.com/danielsivyer4567/parcelmeter/internal/feature"
)

// RenderFunc receives the full accumulated working set whenever a settled
// tile has contributed features. It stands in for the map data source
// refresh in the surrounding application.
type RenderFunc func(features []*geojson.Feature)

// Loader keeps a working feature set current with the visible map area
// without re-fetching tiles already retrieved. All state is owned by the
// instance; two loaders in one process never share a seen-set.
type Loader struct {
	ID string

	fetcher  Fetcher
	config   *config.Config
	features *feature.Set
	render   RenderFunc

	mu   sync.Mutex
	seen map[string]struct{}
	wg   sync.WaitGroup
}

// NewLoader creates a viewport loader with an empty seen-set. The feature
// set is injected so hit-test indexes and selection trackers can share it.
func NewLoader(cfg *config.Config, fetcher Fetcher, features *feature.Set, render RenderFunc) *Loader {
	id, _ := shortid.Generate()

	return &Loader{
		ID:       id,
		fetcher:  fetcher,
		config:   cfg,
		features: features,
		render:   render,
		seen:     make(map[string]struct{}),
	}
}

// LoadViewport requests every tile covering the bound at the floored zoom
// that has not been requested before. Fetches are issued concurrently and
// are not awaited: each one merges its features and triggers a render when
// it settles, whether or not the viewport has moved on by then. The return
// value is the number of fetches issued.
func (l *Loader) LoadViewport(ctx context.Context, bound orb.Bound, zoom float64) int {
	rng := RangeFromBound(bound, zoom)

	issued := 0
	for _, key := range rng.Keys() {
		if !l.markSeen(key) {
			continue
		}

		issued++
		l.wg.Add(1)
		go l.fetchTile(ctx, key)
	}

	if issued > 0 {
		log.Debugf("loader %s: viewport z%d issued %d tile fetches", l.ID, rng.Zoom, issued)
	}

	return issued
}

// Wait blocks until every in-flight tile fetch has settled. Intended for
// teardown and tests; the interactive path never waits.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// SeenCount returns the number of tile keys marked seen so far
func (l *Loader) SeenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

// Features returns the accumulated working set
func (l *Loader) Features() []*geojson.Feature {
	return l.features.Snapshot()
}

// markSeen records the key in the seen-set, reporting whether it was new
func (l *Loader) markSeen(key Key) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key.String()
	if _, ok := l.seen[k]; ok {
		return false
	}
	l.seen[k] = struct{}{}
	return true
}

// forget removes a key from the seen-set so a later viewport pass can
// request it again
func (l *Loader) forget(key Key) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.seen, key.String())
}

// shouldForgetFailed is the single policy point for failed-tile handling.
// The default keeps a failed tile marked seen, trading a permanent hole in
// coverage at that zoom for never hammering a known-bad endpoint.
func (l *Loader) shouldForgetFailed() bool {
	return l.config.Loader.RetryFailedTiles
}

// fetchTile fetches one tile and merges its features into the working set
func (l *Loader) fetchTile(ctx context.Context, key Key) {
	defer l.wg.Done()

	request := NewRequest(key, l.config.Server.BaseURL)

	response, err := l.fetcher.Fetch(ctx, request)
	if err != nil {
		log.Warnf("loader %s: tile %s failed: %v", l.ID, key, err)
		if l.shouldForgetFailed() {
			l.forget(key)
		}
		return
	}

	if len(response.Features) == 0 {
		return
	}

	// Additive merge only. Features spanning a tile boundary may appear
	// once per tile in the source data; that is how the upstream service
	// shards them and it is not corrected here.
	l.features.Append(response.Features...)

	if l.render != nil {
		l.render(l.features.Snapshot())
	}
}
