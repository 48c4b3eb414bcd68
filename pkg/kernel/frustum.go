package kernel

import (
	"fmt"

	"github.com/chazu/clipstage/pkg/geom"
)

// Frustum is the pyramid bounded by an apex and a base quad, described
// by its four side facets and their planes.
type Frustum struct {
	Quad   geom.Quad     `json:"quad"`
	Apex   geom.Vec3     `json:"apex"`
	Facets [4]Facet      `json:"facets"`
	Planes [4]geom.Plane `json:"planes"`
}

// NewFrustum builds the facets and computes every facet plane.
func NewFrustum(quad geom.Quad, apex geom.Vec3) (*Frustum, error) {
	facets, err := BuildFrustumPlanes(quad, apex)
	if err != nil {
		return nil, err
	}
	f := &Frustum{Quad: quad, Apex: apex, Facets: facets}
	for i, fc := range facets {
		p, err := ComputeNormal(fc)
		if err != nil {
			return nil, fmt.Errorf("kernel: facet %d: %w", i, err)
		}
		f.Planes[i] = p
	}
	return f, nil
}

// Interior returns a point strictly inside the frustum: the midpoint
// between the apex and the base centroid.
func (f *Frustum) Interior() geom.Vec3 {
	return geom.Centroid(f.Apex, f.Quad.Centroid())
}

// Outward reports whether facet i's normal points away from the
// interior. For a consistently wound quad it is the same for all four
// facets; it flips when the quad winding is reversed.
func (f *Frustum) Outward(i int) bool {
	return f.Planes[i].Eval(f.Interior()) < 0
}

// Contains reports whether p lies inside or on the side facets. The
// pyramid is open on the far side of the base; only the four side
// planes are tested.
func (f *Frustum) Contains(p geom.Vec3) bool {
	sign := 1.0
	if !f.Outward(0) {
		sign = -1
	}
	for _, pl := range f.Planes {
		if sign*pl.Eval(p) > 0 && !pl.Contains(p) {
			return false
		}
	}
	return true
}
