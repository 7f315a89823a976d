// internal/selection/tracker.go - Feature selection tracking
package selection

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"

	"github.com/danielsivyer4567/parcelmeter/internal/feature"
	"github.com/danielsivyer4567/parcelmeter/internal/geom"
)

// Tracker maintains the set of currently selected feature identifiers and
// mediates the visual and measurement side effects of toggling. Selection
// state is session-local; it starts empty and is discarded with the
// tracker.
type Tracker struct {
	resolver   feature.Chain
	highlights *feature.Highlights
	renderer   Renderer
	sink       Sink

	mu       sync.Mutex
	selected map[string]struct{}
	overlays map[string]*Overlay
}

// NewTracker creates a tracker with empty selection state
func NewTracker(resolver feature.Chain, renderer Renderer, sink Sink) *Tracker {
	if renderer == nil {
		renderer = NoopRenderer{}
	}

	return &Tracker{
		resolver:   resolver,
		highlights: feature.NewHighlights(),
		renderer:   renderer,
		sink:       sink,
		selected:   make(map[string]struct{}),
		overlays:   make(map[string]*Overlay),
	}
}

// Toggle flips the selection state of a feature. Selecting computes and
// displays its boundary measurements and renders overlays; deselecting
// tears the overlays down and resets the sink to idle. The return value
// reports whether the feature is selected after the call.
func (t *Tracker) Toggle(f *geojson.Feature) (bool, error) {
	res, err := t.resolver.Resolve(f)
	if err != nil {
		return false, err
	}
	id := res.ID

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		delete(t.overlays, id)
		t.renderer.Clear(id)
		t.sink.Display(nil)
		t.highlights.Set(id, false)
		return false, nil
	}

	summary, vertices, err := geom.Summarize(f.Geometry)
	if err != nil {
		// Unsupported geometry still selects, with zero measurements,
		// rather than producing nonsensical numbers.
		log.Warnf("selection %s: %v", id, err)
		summary = &geom.BoundarySummary{}
		vertices = nil
	}

	overlay := buildOverlay(summary, vertices)

	t.selected[id] = struct{}{}
	t.overlays[id] = overlay
	t.renderer.Render(id, overlay)
	t.sink.Display(summary)
	t.highlights.Set(id, true)

	return true, nil
}

// Selected reports whether the identifier is currently selected
func (t *Tracker) Selected(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.selected[id]
	return ok
}

// Count returns the number of selected features
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.selected)
}

// Highlighted reports the fill-highlight flag for the identifier
func (t *Tracker) Highlighted(id string) bool {
	return t.highlights.Highlighted(id)
}

// Overlay returns the live overlay for a selected identifier, or nil
func (t *Tracker) Overlay(id string) *Overlay {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overlays[id]
}

// buildOverlay creates edge labels and vertex marker features for a
// computed summary
func buildOverlay(summary *geom.BoundarySummary, vertices []orb.Point) *Overlay {
	overlay := &Overlay{}

	for _, edge := range summary.Edges {
		overlay.Labels = append(overlay.Labels, EdgeLabel{
			Position: edge.Midpoint,
			Text:     formatEdgeLabel(edge.LengthMeters),
		})
	}

	for _, v := range vertices {
		overlay.Vertices = append(overlay.Vertices, geojson.NewFeature(v))
	}

	return overlay
}
