// Package kernel is the frustum geometry kernel. It derives the four
// side facets of a frustum from a base quad and an apex, and computes
// each facet's outward plane. Every function is pure.
package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/clipstage/pkg/geom"
)

// NormalArrowScale is the divisor the lesson applies to a facet normal
// before drawing it as an arrow. It is cosmetic.
const NormalArrowScale = 12

// Facet is one triangular side of the frustum, spanned by the apex and
// the quad edge (A, B).
type Facet struct {
	Edge int       `json:"edge"`
	Apex geom.Vec3 `json:"apex"`
	A    geom.Vec3 `json:"a"`
	B    geom.Vec3 `json:"b"`
}

// Vertices returns (apex, A, B) in that order.
func (f Facet) Vertices() [3]geom.Vec3 {
	return [3]geom.Vec3{f.Apex, f.A, f.B}
}

// Centroid returns the mean of the three vertices.
func (f Facet) Centroid() geom.Vec3 {
	return geom.Centroid(f.Apex, f.A, f.B)
}

// BuildFrustumPlanes returns the four facets (apex, quad[i], quad[i+1 mod 4])
// in quad edge order. Callers pair facet i with edge vectors i and i+1,
// so the order must not change.
func BuildFrustumPlanes(quad geom.Quad, apex geom.Vec3) ([4]Facet, error) {
	var facets [4]Facet
	if err := checkQuad(quad, apex); err != nil {
		return facets, err
	}
	for i := range facets {
		a, b := quad.Edge(i)
		facets[i] = Facet{Edge: i, Apex: apex, A: a, B: b}
	}
	return facets, nil
}

func checkQuad(quad geom.Quad, apex geom.Vec3) error {
	scale := quad.Extent()
	tol := geom.Epsilon * math.Max(scale, 1)
	for i := range quad {
		a, b := quad.Edge(i)
		if a.Equal(b, tol) {
			return &DegenerateQuadError{
				Edge:   i,
				Reason: fmt.Sprintf("vertices %d and %d coincide at %v", i, (i+1)%4, a),
			}
		}
	}

	n := quad.Normal()
	if n.Length() <= geom.Epsilon*math.Max(scale*scale, 1) {
		return &DegenerateQuadError{Edge: -1, Reason: "quad spans no area"}
	}
	base, err := geom.NewPlane(n, quad.Centroid())
	if err != nil {
		return &DegenerateQuadError{Edge: -1, Reason: err.Error()}
	}
	if base.Contains(apex) {
		return &DegenerateQuadError{
			Edge:   -1,
			Reason: fmt.Sprintf("apex %v lies in the quad's plane", apex),
		}
	}
	return nil
}

// ComputeNormal returns the facet's plane anchored at its centroid.
// With v0 = apex, u = v0 - v1 and w = v0 - v2, the normal is -(u × w),
// which points out of the frustum for a quad wound like the lesson's
// base. The magnitude of the normal is not normalized.
func ComputeNormal(f Facet) (geom.Plane, error) {
	v := f.Vertices()
	u := v[0].Sub(v[1])
	w := v[0].Sub(v[2])
	n := u.Cross(w)
	if n.IsZero() {
		return geom.Plane{}, &DegenerateFacetError{Edge: f.Edge}
	}
	return geom.NewPlane(n.Neg(), f.Centroid())
}

// NormalArrow returns the start and end points of the arrow the lesson
// draws for a facet normal: it starts at the centroid and is the
// normal divided by scale.
func NormalArrow(p geom.Plane, scale float64) (start, end geom.Vec3) {
	if scale == 0 {
		scale = NormalArrowScale
	}
	return p.Point, p.Point.Add(p.Normal.Scale(1 / scale))
}
