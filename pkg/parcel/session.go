// pkg/parcel/session.go - Interactive parcel map session
package parcel

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/danielsivyer4567/parcelmeter/internal/config"
	"github.com/danielsivyer4567/parcelmeter/internal/feature"
	"github.com/danielsivyer4567/parcelmeter/internal/selection"
	"github.com/danielsivyer4567/parcelmeter/internal/tile"
)

// Session wires the viewport loader, hit-test index, and selection
// tracker into the control flow of the parcel map: viewport change loads
// missing tiles, a click resolves a feature and toggles its measurements.
// Each session owns its state; two sessions in one process never share a
// seen-set or selection.
type Session struct {
	loader  *tile.Loader
	set     *feature.Set
	index   *feature.Index
	tracker *selection.Tracker

	mu      sync.Mutex
	render  tile.RenderFunc
	indexed int
}

// NewSession creates a session around a fetcher and presentation
// collaborators. The renderer may be nil for headless use; the sink
// receives every measurement update.
func NewSession(cfg *config.Config, fetcher tile.Fetcher, renderer selection.Renderer, sink selection.Sink) *Session {
	s := &Session{
		set:     feature.NewSet(),
		index:   feature.NewIndex(),
		tracker: selection.NewTracker(feature.DefaultChain(), renderer, sink),
	}

	s.loader = tile.NewLoader(cfg, fetcher, s.set, s.onRender)
	return s
}

// HandleViewport is called on every viewport-settled event (and once at
// mount) with the visible bounds and continuous zoom
func (s *Session) HandleViewport(ctx context.Context, bound orb.Bound, zoom float64) int {
	return s.loader.LoadViewport(ctx, bound, zoom)
}

// HandleClick hit-tests a tap against the loaded features and toggles the
// topmost hit. It reports the feature toggled, or nil when the tap missed.
func (s *Session) HandleClick(lon, lat float64) (*geojson.Feature, error) {
	hit := s.index.First(lon, lat)
	if hit == nil {
		return nil, nil
	}

	if _, err := s.tracker.Toggle(hit); err != nil {
		return nil, err
	}

	return hit, nil
}

// Features returns the accumulated working set
func (s *Session) Features() []*geojson.Feature {
	return s.set.Snapshot()
}

// Tracker exposes the selection tracker for state queries
func (s *Session) Tracker() *selection.Tracker {
	return s.tracker
}

// Wait blocks until in-flight tile fetches settle; teardown and tests
func (s *Session) Wait() {
	s.loader.Wait()
}

// SetRender installs a callback receiving the full working set whenever a
// settled tile contributed features
func (s *Session) SetRender(render tile.RenderFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.render = render
}

// onRender indexes newly merged features and forwards the refresh. The
// working set is append-only, so everything past the high-water mark is
// new.
func (s *Session) onRender(features []*geojson.Feature) {
	s.mu.Lock()
	if len(features) > s.indexed {
		s.index.Add(features[s.indexed:]...)
		s.indexed = len(features)
	}
	render := s.render
	s.mu.Unlock()

	if render != nil {
		render(features)
	}
}
