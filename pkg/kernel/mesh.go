package kernel

import "github.com/chazu/clipstage/pkg/geom"

// Mesh is a triangle mesh handed to renderers.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene primitive this came from
}

// AddTriangle appends one triangle with a flat normal.
func (m *Mesh) AddTriangle(tri [3]geom.Vec3, n geom.Vec3) {
	base := uint32(m.VertexCount())
	for j, v := range tri {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		m.Indices = append(m.Indices, base+uint32(j))
	}
}

// PolygonMesh triangulates a planar polygon as a fan around its first
// vertex. The flat normal follows the winding of pts. Fewer than three
// points give an empty mesh.
func PolygonMesh(pts []geom.Vec3, name string) *Mesh {
	m := &Mesh{PartName: name}
	if len(pts) < 3 {
		return m
	}
	var n geom.Vec3
	for i := 1; i+1 < len(pts); i++ {
		n = n.Add(pts[i].Sub(pts[0]).Cross(pts[i+1].Sub(pts[0])))
	}
	n = n.Normalize()
	for i := 1; i+1 < len(pts); i++ {
		m.AddTriangle([3]geom.Vec3{pts[0], pts[i], pts[i+1]}, n)
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
