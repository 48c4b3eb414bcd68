package kernel

import (
	"testing"

	"github.com/chazu/clipstage/pkg/geom"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

// --- Facet meshes ---

func TestMeshAddTriangle(t *testing.T) {
	m := &Mesh{}
	tri := [3]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}
	m.AddTriangle(tri, geom.V3(0, 0, 1))
	m.AddTriangle(tri, geom.V3(0, 0, 1))

	if got := m.TriangleCount(); got != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", got)
	}
	if got := m.VertexCount(); got != 6 {
		t.Fatalf("VertexCount() = %d, want 6", got)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	want := []uint32{0, 1, 2, 3, 4, 5}
	for i, idx := range m.Indices {
		if idx != want[i] {
			t.Errorf("Indices[%d] = %d, want %d", i, idx, want[i])
		}
	}
}

func TestPolygonMesh(t *testing.T) {
	m := PolygonMesh(lessonQuad[:], "quad")
	if m.TriangleCount() != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	if m.PartName != "quad" {
		t.Errorf("PartName = %q, want %q", m.PartName, "quad")
	}
	// The lesson quad winds clockwise seen from +x.
	if m.Normals[0] != -1 || m.Normals[1] != 0 || m.Normals[2] != 0 {
		t.Errorf("normal = %v, want (-1, 0, 0)", m.Normals[:3])
	}

	if got := PolygonMesh(lessonQuad[:2], "edge"); !got.IsEmpty() {
		t.Errorf("two points should give an empty mesh, got %d vertices", got.VertexCount())
	}
}

func TestPolygonMeshFacetsMatchPlanes(t *testing.T) {
	f, err := NewFrustum(lessonQuad, lessonApex)
	if err != nil {
		t.Fatalf("NewFrustum() error = %v", err)
	}
	for i, fc := range f.Facets {
		v := fc.Vertices()
		m := PolygonMesh(v[:], "facet")
		if m.TriangleCount() != 1 {
			t.Fatalf("facet %d: TriangleCount() = %d, want 1", i, m.TriangleCount())
		}
		// (apex, A, B) winds against the outward normal -(u x w).
		n := geom.V3(float64(m.Normals[0]), float64(m.Normals[1]), float64(m.Normals[2]))
		if d := n.Dot(f.Planes[i].Normal.Normalize()); d > -1+1e-6 {
			t.Errorf("facet %d: mesh normal . plane normal = %v, want -1", i, d)
		}
	}
}
