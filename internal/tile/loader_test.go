// internal/tile/loader_test.go - Unit tests for the viewport loader
package tile

import (
	"context"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielsivyer4567/parcelmeter/internal"
	"github.com/danielsivyer4567/parcelmeter/internal/config"
	"github.com/danielsivyer4567/parcelmeter/internal/feature"
)

// fakeFetcher counts fetch calls per tile key and can be told to fail
// particular tiles.
type fakeFetcher struct {
	mu       sync.Mutex
	calls    map[string]int
	fail     map[string]bool
	features func(key Key) []*geojson.Feature
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls: make(map[string]int),
		fail:  make(map[string]bool),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, request *Request) (*Response, error) {
	f.mu.Lock()
	f.calls[request.Key.String()]++
	failed := f.fail[request.Key.String()]
	f.mu.Unlock()

	if failed {
		return nil, internal.NewError(internal.ErrorCodeNetwork, "tile unavailable", nil)
	}

	var features []*geojson.Feature
	if f.features != nil {
		features = f.features(request.Key)
	}

	return &Response{Request: request, Features: features}, nil
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func loaderConfig(retryFailed bool) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BaseURL: "http://tiles.example"},
		Loader: config.LoaderConfig{RetryFailedTiles: retryFailed},
	}
}

// boundAround builds a small bound centered on a point, wide enough to
// cover a handful of tiles at the test zoom.
func boundAround(lon, lat, span float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{lon - span, lat - span},
		Max: orb.Point{lon + span, lat + span},
	}
}

func TestLoadViewportFetchesEachTileOnce(t *testing.T) {
	fetcher := newFakeFetcher()
	loader := NewLoader(loaderConfig(false), fetcher, feature.NewSet(), nil)

	bound := boundAround(153.4, -28.0, 0.02)

	first := loader.LoadViewport(context.Background(), bound, 14)
	loader.Wait()
	require.Greater(t, first, 0)
	assert.Equal(t, first, fetcher.totalCalls())

	// Same viewport again: nothing new to fetch.
	again := loader.LoadViewport(context.Background(), bound, 14)
	loader.Wait()
	assert.Equal(t, 0, again)
	assert.Equal(t, first, fetcher.totalCalls())
}

func TestLoadViewportOverlappingPansFetchOnlyNewTiles(t *testing.T) {
	fetcher := newFakeFetcher()
	loader := NewLoader(loaderConfig(false), fetcher, feature.NewSet(), nil)

	first := loader.LoadViewport(context.Background(), boundAround(153.40, -28.00, 0.02), 14)
	// Pan slightly east; the two viewports share most of their tiles.
	second := loader.LoadViewport(context.Background(), boundAround(153.41, -28.00, 0.02), 14)
	loader.Wait()

	assert.Equal(t, first+second, fetcher.totalCalls())
	assert.Equal(t, first+second, loader.SeenCount())

	// Every key was fetched exactly once regardless of overlap.
	for key, n := range fetcher.calls {
		assert.Equalf(t, 1, n, "tile %s fetched more than once", key)
	}
}

func TestLoadViewportDifferentZoomsAreDistinctTiles(t *testing.T) {
	fetcher := newFakeFetcher()
	loader := NewLoader(loaderConfig(false), fetcher, feature.NewSet(), nil)

	bound := boundAround(153.4, -28.0, 0.01)

	first := loader.LoadViewport(context.Background(), bound, 14)
	second := loader.LoadViewport(context.Background(), bound, 15)
	loader.Wait()

	assert.Greater(t, second, 0)
	assert.Equal(t, first+second, fetcher.totalCalls())
}

func TestFailedTileStaysSeenByDefault(t *testing.T) {
	fetcher := newFakeFetcher()
	loader := NewLoader(loaderConfig(false), fetcher, feature.NewSet(), nil)

	bound := boundAround(153.4, -28.0, 0.001)
	issued := loader.LoadViewport(context.Background(), bound, 14)
	loader.Wait()
	require.Greater(t, issued, 0)

	// Make every tile fail and revisit: nothing is refetched.
	for key := range fetcher.calls {
		fetcher.fail[key] = true
	}
	again := loader.LoadViewport(context.Background(), bound, 14)
	loader.Wait()
	assert.Equal(t, 0, again)
}

func TestFailedTileRetriedWhenPolicyEnabled(t *testing.T) {
	fetcher := newFakeFetcher()
	loader := NewLoader(loaderConfig(true), fetcher, feature.NewSet(), nil)

	bound := boundAround(153.4, -28.0, 0.001)

	// First pass fails every tile; the keys are forgotten.
	rng := RangeFromBound(bound, 14)
	for _, key := range rng.Keys() {
		fetcher.fail[key.String()] = true
	}
	issued := loader.LoadViewport(context.Background(), bound, 14)
	loader.Wait()
	require.Greater(t, issued, 0)
	assert.Equal(t, 0, loader.SeenCount())

	// Second pass succeeds and fetches the same tiles again.
	for key := range fetcher.fail {
		fetcher.fail[key] = false
	}
	again := loader.LoadViewport(context.Background(), bound, 14)
	loader.Wait()
	assert.Equal(t, issued, again)
	assert.Equal(t, issued, loader.SeenCount())
}

func TestLoaderMergesFeaturesAdditively(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.features = func(key Key) []*geojson.Feature {
		f := geojson.NewFeature(orb.Polygon{
			{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0}},
		})
		f.ID = key.String()
		return []*geojson.Feature{f}
	}

	set := feature.NewSet()
	loader := NewLoader(loaderConfig(false), fetcher, set, nil)

	first := loader.LoadViewport(context.Background(), boundAround(153.40, -28.00, 0.02), 14)
	loader.Wait()
	assert.Len(t, loader.Features(), first)

	second := loader.LoadViewport(context.Background(), boundAround(153.42, -28.00, 0.02), 14)
	loader.Wait()
	assert.Len(t, loader.Features(), first+second)
}

func TestLoaderRenderCallback(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.features = func(key Key) []*geojson.Feature {
		return []*geojson.Feature{geojson.NewFeature(orb.Point{0, 0})}
	}

	var mu sync.Mutex
	renders := 0
	render := func(features []*geojson.Feature) {
		mu.Lock()
		renders++
		mu.Unlock()
	}

	loader := NewLoader(loaderConfig(false), fetcher, feature.NewSet(), render)

	issued := loader.LoadViewport(context.Background(), boundAround(153.4, -28.0, 0.01), 14)
	loader.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, issued, renders)
}

func TestLoadersDoNotShareSeenState(t *testing.T) {
	fetcher := newFakeFetcher()
	a := NewLoader(loaderConfig(false), fetcher, feature.NewSet(), nil)
	b := NewLoader(loaderConfig(false), fetcher, feature.NewSet(), nil)

	bound := boundAround(153.4, -28.0, 0.005)

	issuedA := a.LoadViewport(context.Background(), bound, 14)
	issuedB := b.LoadViewport(context.Background(), bound, 14)
	a.Wait()
	b.Wait()

	assert.Equal(t, issuedA, issuedB)
	assert.Equal(t, issuedA+issuedB, fetcher.totalCalls())
}
