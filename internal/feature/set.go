// internal/feature/set.go - Append-only working feature set
package feature

import (
	"sync"

	"github.com/paulmach/orb/geojson"
)

// Set is the append-only working set of features accumulated from loaded
// tiles. Features are never mutated or removed once merged; renders read a
// snapshot. No de-duplication is performed across tiles.
type Set struct {
	mu       sync.RWMutex
	features []*geojson.Feature
}

// NewSet creates an empty feature set
func NewSet() *Set {
	return &Set{}
}

// Append merges features into the set
func (s *Set) Append(features ...*geojson.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = append(s.features, features...)
}

// Snapshot returns a copy of the current feature sequence
func (s *Set) Snapshot() []*geojson.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*geojson.Feature, len(s.features))
	copy(out, s.features)
	return out
}

// Len returns the number of features in the set
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.features)
}
