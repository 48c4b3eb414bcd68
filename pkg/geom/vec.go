// Package geom provides the 3D value types shared by the kernel and the
// clip solver: points/vectors, implicit planes and parametric lines.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the absolute tolerance used for zero tests on
// normalized quantities.
const Epsilon = 1e-9

// Vec3 is a 3D point or vector. It is an immutable value type; every
// operation returns a new value.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// FromSdfx converts an sdfx vector.
func FromSdfx(v v3.Vec) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Sdfx converts v to the sdfx vector type.
func (v Vec3) Sdfx() v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return FromSdfx(v.Sdfx().Add(w.Sdfx()))
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return FromSdfx(v.Sdfx().Sub(w.Sdfx()))
}

// Scale returns k·v.
func (v Vec3) Scale(k float64) Vec3 {
	return FromSdfx(v.Sdfx().MulScalar(k))
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return v.Scale(-1)
}

// Dot returns v · w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.Sdfx().Dot(w.Sdfx())
}

// Cross returns v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return FromSdfx(v.Sdfx().Cross(w.Sdfx()))
}

// Length returns |v|.
func (v Vec3) Length() float64 {
	return v.Sdfx().Length()
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// IsZero reports whether every component is exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Equal reports whether v and w differ by at most tol in every component.
func (v Vec3) Equal(w Vec3, tol float64) bool {
	return math.Abs(v.X-w.X) <= tol &&
		math.Abs(v.Y-w.Y) <= tol &&
		math.Abs(v.Z-w.Z) <= tol
}

// Centroid returns the arithmetic mean of pts. It returns the zero
// vector for an empty slice.
func Centroid(pts ...Vec3) Vec3 {
	var sum Vec3
	if len(pts) == 0 {
		return sum
	}
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts)))
}

// Round rounds each component to places decimal places. Negative zero
// becomes zero so labels never read "-0".
func (v Vec3) Round(places int) Vec3 {
	k := math.Pow(10, float64(places))
	r := func(f float64) float64 {
		x := math.Round(f*k) / k
		if x == 0 {
			return 0
		}
		return x
	}
	return Vec3{X: r(v.X), Y: r(v.Y), Z: r(v.Z)}
}

// String formats v the way the scene labels points: "(x,y,z)".
func (v Vec3) String() string {
	return fmt.Sprintf("(%s,%s,%s)", fmtCoord(v.X), fmtCoord(v.Y), fmtCoord(v.Z))
}

func fmtCoord(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
