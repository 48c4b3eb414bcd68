package kernel

import (
	"errors"
	"testing"

	"github.com/chazu/clipstage/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lessonQuad = geom.Quad{
		geom.V3(0, 400, 600),
		geom.V3(0, 400, 0),
		geom.V3(0, -400, 0),
		geom.V3(0, -400, 600),
	}
	lessonApex = geom.V3(1000, 0, 0)
)

func TestBuildFrustumPlanesOrder(t *testing.T) {
	facets, err := BuildFrustumPlanes(lessonQuad, lessonApex)
	require.NoError(t, err)

	for i, f := range facets {
		assert.Equal(t, i, f.Edge)
		assert.Equal(t, lessonApex, f.Apex)
		assert.Equal(t, lessonQuad[i], f.A, "facet %d A", i)
		assert.Equal(t, lessonQuad[(i+1)%4], f.B, "facet %d B", i)
	}
}

func TestComputeNormalFixtures(t *testing.T) {
	facets, err := BuildFrustumPlanes(lessonQuad, lessonApex)
	require.NoError(t, err)

	tests := []struct {
		facet      int
		a, b, c, d float64
		equation   string
	}{
		{0, 2, 5, 0, 2000, "2x + 5y = 2000"},
		{1, 0, 0, -1, 0, "-z = 0"},
		{2, 2, -5, 0, 2000, "2x - 5y = 2000"},
		{3, 3, 0, 5, 3000, "3x + 5z = 3000"},
	}
	for _, tt := range tests {
		p, err := ComputeNormal(facets[tt.facet])
		require.NoError(t, err)
		assert.True(t, p.Proportional(tt.a, tt.b, tt.c, tt.d, 1e-9),
			"facet %d: got %s", tt.facet, p.Equation())
		assert.Equal(t, tt.equation, p.Equation())
		assert.True(t, p.Point.Equal(facets[tt.facet].Centroid(), 1e-9))
	}
}

func TestComputeNormalSignConvention(t *testing.T) {
	// -(u × w) with u = v0-v1, w = v0-v2; for facet 2 the raw cross
	// product is (-240000, 600000, 0).
	facets, err := BuildFrustumPlanes(lessonQuad, lessonApex)
	require.NoError(t, err)
	p, err := ComputeNormal(facets[2])
	require.NoError(t, err)
	assert.Equal(t, geom.V3(240000, -600000, 0), p.Normal)
}

func TestNormalOrientationOutward(t *testing.T) {
	f, err := NewFrustum(lessonQuad, lessonApex)
	require.NoError(t, err)

	inside := f.Interior()
	for i, p := range f.Planes {
		assert.False(t, p.Normal.IsZero(), "facet %d normal is zero", i)
		assert.Less(t, p.Eval(inside), 0.0, "facet %d normal points inward", i)
		assert.True(t, f.Outward(i))
		// The apex lies on every facet plane.
		assert.True(t, p.Contains(f.Apex), "facet %d does not contain apex", i)
	}
}

func TestNormalOrientationReversedWinding(t *testing.T) {
	reversed := geom.Quad{lessonQuad[3], lessonQuad[2], lessonQuad[1], lessonQuad[0]}
	f, err := NewFrustum(reversed, lessonApex)
	require.NoError(t, err)
	for i := range f.Planes {
		assert.False(t, f.Outward(i), "facet %d should flip with the winding", i)
	}
	assert.True(t, f.Contains(f.Interior()))
}

func TestFrustumContains(t *testing.T) {
	f, err := NewFrustum(lessonQuad, lessonApex)
	require.NoError(t, err)

	assert.True(t, f.Contains(geom.V3(500, 0, 150)))
	assert.True(t, f.Contains(geom.V3(125, -350, 75)), "clip point lies on a facet")
	assert.False(t, f.Contains(geom.V3(230, -285, 102).Add(geom.V3(630, 390, 162).Scale(-1))))
	assert.False(t, f.Contains(geom.V3(500, 900, 150)))
}

func TestNormalArrow(t *testing.T) {
	p := geom.Plane{Normal: geom.V3(120, 0, 0), Point: geom.V3(1, 2, 3)}
	start, end := NormalArrow(p, 0)
	assert.Equal(t, geom.V3(1, 2, 3), start)
	assert.True(t, end.Equal(geom.V3(11, 2, 3), 1e-12))

	_, end = NormalArrow(p, 60)
	assert.True(t, end.Equal(geom.V3(3, 2, 3), 1e-12))
}

func TestBuildFrustumPlanesDegenerate(t *testing.T) {
	tests := []struct {
		name string
		quad geom.Quad
		apex geom.Vec3
		edge int
	}{
		{
			name: "coincident consecutive vertices",
			quad: geom.Quad{geom.V3(0, 400, 600), geom.V3(0, 400, 600), geom.V3(0, -400, 0), geom.V3(0, -400, 600)},
			apex: lessonApex,
			edge: 0,
		},
		{
			name: "wrap-around edge coincides",
			quad: geom.Quad{geom.V3(0, 400, 600), geom.V3(0, 400, 0), geom.V3(0, -400, 0), geom.V3(0, 400, 600)},
			apex: lessonApex,
			edge: 3,
		},
		{
			name: "apex in quad plane",
			quad: lessonQuad,
			apex: geom.V3(0, 0, 1000),
			edge: -1,
		},
		{
			name: "collinear quad",
			quad: geom.Quad{geom.V3(0, 0, 0), geom.V3(0, 1, 0), geom.V3(0, 2, 0), geom.V3(0, 3, 0)},
			apex: lessonApex,
			edge: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFrustumPlanes(tt.quad, tt.apex)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDegenerateQuad)

			var dq *DegenerateQuadError
			require.True(t, errors.As(err, &dq))
			assert.Equal(t, tt.edge, dq.Edge)

			_, err = NewFrustum(tt.quad, tt.apex)
			assert.ErrorIs(t, err, ErrDegenerateQuad)
		})
	}
}

func TestComputeNormalDegenerateFacet(t *testing.T) {
	f := Facet{Edge: 2, Apex: geom.V3(0, 0, 0), A: geom.V3(1, 1, 1), B: geom.V3(2, 2, 2)}
	_, err := ComputeNormal(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateFacet)
	assert.NotErrorIs(t, err, ErrDegenerateQuad)
	assert.Contains(t, err.Error(), "facet 2")
}
