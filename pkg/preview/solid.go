package preview

import (
	"fmt"
	"math"

	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// cube returns an axis-aligned cube of the given edge centered at c.
func cube(c geom.Vec3, edge float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(v3.Vec{X: edge, Y: edge, Z: edge}, 0)
	if err != nil {
		return nil, fmt.Errorf("preview: box: %w", err)
	}
	return sdf.Transform3D(s, sdf.Translate3d(c.Sdfx())), nil
}

// rod returns a cylinder of radius r running from a to b.
//
// sdf.Cylinder3D is centered at the origin along Z. It is tilted about Y
// by the polar angle of b-a, turned about Z by its azimuth, then moved
// to the segment midpoint.
func rod(a, b geom.Vec3, r float64) (sdf.SDF3, error) {
	d := b.Sub(a)
	h := d.Length()
	if h == 0 {
		return nil, fmt.Errorf("preview: zero-length segment at %s", a)
	}
	s, err := sdf.Cylinder3D(h, r, 0)
	if err != nil {
		return nil, fmt.Errorf("preview: cylinder: %w", err)
	}
	u := d.Scale(1 / h)
	theta := math.Acos(math.Max(-1, math.Min(1, u.Z)))
	phi := math.Atan2(u.Y, u.X)

	m := sdf.Translate3d(geom.Centroid(a, b).Sdfx()).
		Mul(sdf.RotateZ(phi)).
		Mul(sdf.RotateY(theta))
	return sdf.Transform3D(s, m), nil
}

// toMesh tessellates s with marching cubes. cells is the resolution
// along the longest bounding-box side.
func toMesh(s sdf.SDF3, cells int, name string) *kernel.Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	numVerts := len(triangles) * 3
	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
		PartName: name,
	}
	for _, tri := range triangles {
		vs := [3]geom.Vec3{geom.FromSdfx(tri[0]), geom.FromSdfx(tri[1]), geom.FromSdfx(tri[2])}
		// Slivers from marching cubes have no normal.
		n := vs[1].Sub(vs[0]).Cross(vs[2].Sub(vs[0]))
		if n.IsZero() {
			continue
		}
		mesh.AddTriangle(vs, n.Normalize())
	}
	return mesh
}

// extent is the longest side of the axis-aligned box around pts.
func extent(pts []geom.Vec3) float64 {
	if len(pts) == 0 {
		return 0
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = geom.V3(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = geom.V3(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}
	d := hi.Sub(lo)
	return math.Max(d.X, math.Max(d.Y, d.Z))
}
