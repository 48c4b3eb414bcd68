package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroNormal is returned by NewPlane for a zero normal vector.
var ErrZeroNormal = errors.New("geom: plane normal is zero")

// Plane is an implicit plane: every X with Normal·X = Normal·Point.
// The length of Normal carries no meaning beyond its direction.
type Plane struct {
	Normal Vec3 `json:"normal"`
	Point  Vec3 `json:"point"`
}

// NewPlane returns the plane through p with normal n.
func NewPlane(n, p Vec3) (Plane, error) {
	if n.IsZero() {
		return Plane{}, ErrZeroNormal
	}
	return Plane{Normal: n, Point: p}, nil
}

// Coefficients returns (a, b, c, d) such that a·x + b·y + c·z = d.
func (p Plane) Coefficients() (a, b, c, d float64) {
	return p.Normal.X, p.Normal.Y, p.Normal.Z, p.Normal.Dot(p.Point)
}

// Eval returns Normal·(q - Point). Its sign tells which side of the
// plane q is on; it is zero on the plane.
func (p Plane) Eval(q Vec3) float64 {
	return p.Normal.Dot(q.Sub(p.Point))
}

// Contains reports whether q lies on the plane within a tolerance
// relative to the normal's length and q's magnitude.
func (p Plane) Contains(q Vec3) bool {
	scale := p.Normal.Length() * (1 + q.Sub(p.Point).Length())
	return math.Abs(p.Eval(q)) <= Epsilon*scale
}

// Proportional reports whether p is the plane a·x + b·y + c·z = d, up to a
// non-zero scale factor (of either sign), within tol after normalization.
func (p Plane) Proportional(a, b, c, d, tol float64) bool {
	pa, pb, pc, pd := p.Coefficients()
	lp := math.Sqrt(pa*pa + pb*pb + pc*pc)
	lq := math.Sqrt(a*a + b*b + c*c)
	if lp == 0 || lq == 0 {
		return false
	}
	same := func(s float64) bool {
		return math.Abs(pa/lp-s*a/lq) <= tol &&
			math.Abs(pb/lp-s*b/lq) <= tol &&
			math.Abs(pc/lp-s*c/lq) <= tol &&
			math.Abs(pd/lp-s*d/lq) <= tol*(1+math.Abs(d/lq))
	}
	return same(1) || same(-1)
}

// Equation formats the plane as "a·x + b·y + c·z = d" with coefficients
// reduced by their greatest common divisor when they are integral.
func (p Plane) Equation() string {
	a, b, c, d := reduce(p.Coefficients())
	var s string
	for _, term := range []struct {
		k   float64
		sym string
	}{{a, "x"}, {b, "y"}, {c, "z"}} {
		if term.k == 0 {
			continue
		}
		k := term.k
		switch {
		case s == "" && k < 0:
			s = "-"
			k = -k
		case s != "" && k < 0:
			s += " - "
			k = -k
		case s != "":
			s += " + "
		}
		if k != 1 {
			s += fmtCoord(k)
		}
		s += term.sym
	}
	return fmt.Sprintf("%s = %s", s, fmtCoord(d))
}

// reduce divides integral coefficients by their gcd so the label reads
// 2x - 5y = 2000 instead of 240000x - 600000y = 240000000.
func reduce(a, b, c, d float64) (float64, float64, float64, float64) {
	vals := []float64{a, b, c, d}
	var g int64
	for _, v := range vals {
		r := math.Round(v)
		if math.Abs(v-r) > 1e-6*(1+math.Abs(v)) || math.Abs(r) > 1<<52 {
			return a, b, c, d
		}
		g = gcd(g, int64(math.Abs(r)))
	}
	if g <= 1 {
		return a, b, c, d
	}
	f := float64(g)
	return math.Round(a) / f, math.Round(b) / f, math.Round(c) / f, math.Round(d) / f
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
