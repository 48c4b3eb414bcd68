package geom

import (
	"fmt"
	"math"
)

// Quad is an ordered planar quadrilateral. The vertex order is the
// winding and is never rearranged.
type Quad [4]Vec3

// Edge returns the i-th edge (quad[i], quad[(i+1) mod 4]).
func (q Quad) Edge(i int) (Vec3, Vec3) {
	return q[i%4], q[(i+1)%4]
}

// Centroid returns the mean of the four vertices.
func (q Quad) Centroid() Vec3 {
	return Centroid(q[:]...)
}

// Normal returns the Newell normal of the quad. It is zero when the
// vertices span no area.
func (q Quad) Normal() Vec3 {
	var n Vec3
	for i := range q {
		a, b := q.Edge(i)
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// Extent returns the largest distance between any vertex and the
// centroid. It is the length scale used for tolerances.
func (q Quad) Extent() float64 {
	c := q.Centroid()
	var m float64
	for _, p := range q {
		m = math.Max(m, p.Sub(c).Length())
	}
	return m
}

// Domain is the closed parameter interval [Min, Max].
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether t lies in the domain.
func (d Domain) Contains(t float64) bool {
	return t >= d.Min && t <= d.Max
}

// Empty reports whether the interval contains no value.
func (d Domain) Empty() bool {
	return d.Min > d.Max
}

// Intersect returns the overlap of d and e, which may be empty.
func (d Domain) Intersect(e Domain) Domain {
	return Domain{Min: math.Max(d.Min, e.Min), Max: math.Min(d.Max, e.Max)}
}

func (d Domain) String() string {
	return fmt.Sprintf("[%g, %g]", d.Min, d.Max)
}

// ParametricLine is P(t) = Origin + t·Direction restricted to Domain.
type ParametricLine struct {
	Origin    Vec3   `json:"origin"`
	Direction Vec3   `json:"direction"`
	Domain    Domain `json:"domain"`
}

// LineThrough returns the line with P(0) = a and P(1) = b.
func LineThrough(a, b Vec3, d Domain) ParametricLine {
	return ParametricLine{Origin: a, Direction: b.Sub(a), Domain: d}
}

// At evaluates the line at t. It does not check the domain.
func (l ParametricLine) At(t float64) Vec3 {
	return l.Origin.Add(l.Direction.Scale(t))
}

// Restrict returns the same line over a different domain.
func (l ParametricLine) Restrict(d Domain) ParametricLine {
	l.Domain = d
	return l
}

// Endpoints returns P(Min) and P(Max).
func (l ParametricLine) Endpoints() (Vec3, Vec3) {
	return l.At(l.Domain.Min), l.At(l.Domain.Max)
}

// String renders the line as the lesson labels it:
// "<630t + 230, 390t - 285, 162t + 102>".
func (l ParametricLine) String() string {
	comp := func(k, c float64) string {
		switch {
		case c < 0:
			return fmt.Sprintf("%st - %s", fmtCoord(k), fmtCoord(-c))
		case c > 0:
			return fmt.Sprintf("%st + %s", fmtCoord(k), fmtCoord(c))
		}
		return fmtCoord(k) + "t"
	}
	return fmt.Sprintf("<%s, %s, %s>",
		comp(l.Direction.X, l.Origin.X),
		comp(l.Direction.Y, l.Origin.Y),
		comp(l.Direction.Z, l.Origin.Z))
}
