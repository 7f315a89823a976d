// internal/feature/state.go - Selection-dependent visual state
package feature

import "sync"

// Highlights tracks fill-highlight state keyed by feature identifier,
// separate from the features themselves so merged features stay immutable.
type Highlights struct {
	mu sync.RWMutex
	m  map[string]bool
}

// NewHighlights creates an empty highlight state map
func NewHighlights() *Highlights {
	return &Highlights{m: make(map[string]bool)}
}

// Set records the highlight flag for a feature identifier
func (h *Highlights) Set(id string, on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if on {
		h.m[id] = true
	} else {
		delete(h.m, id)
	}
}

// Highlighted reports whether the identifier is currently highlighted
func (h *Highlights) Highlighted(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.m[id]
}
