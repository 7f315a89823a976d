// internal/feature/identity.go - Feature identity resolution
package feature

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/paulmach/orb/geojson"

	"github.com/danielsivyer4567/parcelmeter/internal"
)

// ResolverKind tags which strategy produced a feature identifier
type ResolverKind string

const (
	KindExplicitID    ResolverKind = "explicit_id"
	KindPropertyField ResolverKind = "property_field"
	KindGeometryHash  ResolverKind = "geometry_hash"
)

// Resolution is a resolved feature identifier and the strategy that
// produced it
type Resolution struct {
	ID   string
	Kind ResolverKind
}

// Resolver attempts to derive a stable identifier for a feature
type Resolver interface {
	Kind() ResolverKind
	Resolve(f *geojson.Feature) (string, bool)
}

// ExplicitID resolves the feature's own id member
type ExplicitID struct{}

func (ExplicitID) Kind() ResolverKind { return KindExplicitID }

func (ExplicitID) Resolve(f *geojson.Feature) (string, bool) {
	if f.ID == nil {
		return "", false
	}
	return fmt.Sprint(f.ID), true
}

// PropertyField resolves a named member of the feature's property bag
type PropertyField struct {
	Field string
}

func (PropertyField) Kind() ResolverKind { return KindPropertyField }

func (r PropertyField) Resolve(f *geojson.Feature) (string, bool) {
	if f.Properties == nil {
		return "", false
	}
	v, ok := f.Properties[r.Field]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// GeometryHash resolves a structural hash of the geometry. Two distinct
// features with identical geometry collide under this strategy; the chain
// only reaches it when nothing better is available.
type GeometryHash struct{}

func (GeometryHash) Kind() ResolverKind { return KindGeometryHash }

func (GeometryHash) Resolve(f *geojson.Feature) (string, bool) {
	if f.Geometry == nil {
		return "", false
	}

	data, err := json.Marshal(geojson.NewGeometry(f.Geometry))
	if err != nil {
		return "", false
	}

	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("g%016x", h.Sum64()), true
}

// Chain is an ordered list of resolver strategies evaluated front to back
type Chain []Resolver

// DefaultChain mirrors the upstream parcel layer: explicit id, then the
// objectid property, then the geometry hash as a last resort.
func DefaultChain() Chain {
	return Chain{
		ExplicitID{},
		PropertyField{Field: "objectid"},
		GeometryHash{},
	}
}

// Resolve evaluates the chain in order and returns the first identifier
func (c Chain) Resolve(f *geojson.Feature) (Resolution, error) {
	for _, r := range c {
		if id, ok := r.Resolve(f); ok {
			return Resolution{ID: id, Kind: r.Kind()}, nil
		}
	}
	return Resolution{}, internal.NewError(internal.ErrorCodeNotFound, "no resolver produced a feature identifier", nil)
}
