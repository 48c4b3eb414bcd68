package clip

import (
	"math/rand"
	"testing"

	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lessonLine = geom.ParametricLine{
	Origin:    geom.V3(230, -285, 102),
	Direction: geom.V3(630, 390, 162),
	Domain:    geom.Domain{Min: -1, Max: 1.5},
}

// lessonPlanes returns the planes 2x - 5y = 2000 and 3x + 5z = 3000 as
// computed by the kernel.
func lessonPlanes(t *testing.T) (geom.Plane, geom.Plane) {
	t.Helper()
	quad := geom.Quad{
		geom.V3(0, 400, 600),
		geom.V3(0, 400, 0),
		geom.V3(0, -400, 0),
		geom.V3(0, -400, 600),
	}
	f, err := kernel.NewFrustum(quad, geom.V3(1000, 0, 0))
	require.NoError(t, err)
	return f.Planes[2], f.Planes[3]
}

func TestIntersectLessonPlanes(t *testing.T) {
	left, up := lessonPlanes(t)

	r := Intersect(lessonLine, left)
	require.Equal(t, Hit, r.Outcome)
	assert.InDelta(t, -1.0/6, r.Event.T, 1e-9)
	assert.True(t, r.Event.Point.Equal(geom.V3(125, -350, 75), 1e-6), "point = %v", r.Event.Point)
	assert.True(t, r.Event.InDomain(lessonLine))
	assert.Equal(t, left, r.Event.Plane)

	r = Intersect(lessonLine, up)
	require.Equal(t, Hit, r.Outcome)
	assert.InDelta(t, 2.0/3, r.Event.T, 1e-9)
	assert.True(t, r.Event.Point.Equal(geom.V3(650, -25, 210), 1e-6), "point = %v", r.Event.Point)
}

func TestIntersectOutOfDomain(t *testing.T) {
	left, _ := lessonPlanes(t)
	short := lessonLine.Restrict(geom.Domain{Min: 0, Max: 1})

	r := Intersect(short, left)
	require.Equal(t, Hit, r.Outcome)
	assert.InDelta(t, -1.0/6, r.Event.T, 1e-9)
	assert.False(t, r.Event.InDomain(short))
}

func TestClipSegmentLesson(t *testing.T) {
	left, up := lessonPlanes(t)

	for _, order := range [][2]geom.Plane{{left, up}, {up, left}} {
		seg, out := ClipSegment(lessonLine, order[0], order[1])
		require.Equal(t, Clipped, out)
		assert.InDelta(t, -1.0/6, seg.TLow(), 1e-9)
		assert.InDelta(t, 2.0/3, seg.THigh(), 1e-9)
		assert.LessOrEqual(t, seg.TLow(), seg.THigh())
		assert.True(t, lessonLine.At(seg.TLow()).Equal(geom.V3(125, -350, 75), 1e-6))
		assert.True(t, lessonLine.At(seg.THigh()).Equal(geom.V3(650, -25, 210), 1e-6))
		assert.InDelta(t, -1.0/6, seg.Visible.Min, 1e-9)
		assert.InDelta(t, 2.0/3, seg.Visible.Max, 1e-9)
	}
}

func TestSegmentEventByPlane(t *testing.T) {
	left, up := lessonPlanes(t)

	seg, out := ClipSegment(lessonLine, left, up)
	require.Equal(t, Clipped, out)
	assert.Equal(t, 0, seg.Low.Index)
	assert.Equal(t, 1, seg.High.Index)
	assert.InDelta(t, -1.0/6, seg.Event(0).T, 1e-9)
	assert.InDelta(t, 2.0/3, seg.Event(1).T, 1e-9)

	// Swapping the planes swaps the indexes, not the sort order.
	seg, out = ClipSegment(lessonLine, up, left)
	require.Equal(t, Clipped, out)
	assert.Equal(t, 1, seg.Low.Index)
	assert.InDelta(t, 2.0/3, seg.Event(0).T, 1e-9)
	assert.InDelta(t, -1.0/6, seg.Event(1).T, 1e-9)

	// Identical planes still map to distinct events.
	seg, _ = ClipSegment(lessonLine, left, left)
	assert.Equal(t, 0, seg.Event(0).Index)
	assert.Equal(t, 1, seg.Event(1).Index)
}

func TestClipSegmentClampsToDomain(t *testing.T) {
	left, up := lessonPlanes(t)
	l := lessonLine.Restrict(geom.Domain{Min: 0, Max: 0.5})

	seg, out := ClipSegment(l, left, up)
	require.Equal(t, Clipped, out)
	assert.Equal(t, geom.Domain{Min: 0, Max: 0.5}, seg.Visible)
	assert.InDelta(t, -1.0/6, seg.TLow(), 1e-9)
}

func TestClipSegmentEmpty(t *testing.T) {
	left, up := lessonPlanes(t)
	l := lessonLine.Restrict(geom.Domain{Min: 1, Max: 1.5})

	seg, out := ClipSegment(l, left, up)
	assert.Equal(t, EmptyClip, out)
	assert.True(t, seg.Visible.Empty())
}

func TestClipSegmentParallelPlane(t *testing.T) {
	_, up := lessonPlanes(t)
	floor := geom.Plane{Normal: geom.V3(0, 0, 1), Point: geom.V3(0, 0, -50)}
	flat := geom.ParametricLine{
		Origin:    geom.V3(0, 0, 10),
		Direction: geom.V3(1, 2, 0),
		Domain:    geom.Domain{Min: -1, Max: 1},
	}

	_, out := ClipSegment(flat, up, floor)
	assert.Equal(t, NoIntersection, out)
}

func TestIntersectCoincident(t *testing.T) {
	p := geom.Plane{Normal: geom.V3(0, 0, 2), Point: geom.V3(5, 5, 3)}
	l := geom.ParametricLine{
		Origin:    geom.V3(1, 1, 3),
		Direction: geom.V3(4, -7, 0),
		Domain:    geom.Domain{Min: 0, Max: 1},
	}
	r := Intersect(l, p)
	assert.Equal(t, Coincident, r.Outcome)
	assert.NotEqual(t, NoIntersection, r.Outcome)

	_, out := ClipSegment(l, p, p)
	assert.Equal(t, Coincident, out)
}

// Any line whose direction is orthogonal to the plane normal and whose
// origin is off the plane never yields a parameter.
func TestIntersectParallelProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randVec := func() geom.Vec3 {
		return geom.V3(rng.Float64()*2000-1000, rng.Float64()*2000-1000, rng.Float64()*2000-1000)
	}
	for i := 0; i < 500; i++ {
		n := randVec()
		if n.Length() < 1 {
			continue
		}
		p := geom.Plane{Normal: n, Point: randVec()}
		dir := n.Cross(randVec())
		if dir.Length() < 1 {
			continue
		}
		origin := p.Point.Add(n.Normalize().Scale(1 + rng.Float64()*500)).Add(dir.Scale(rng.Float64()))

		r := Intersect(geom.ParametricLine{Origin: origin, Direction: dir, Domain: geom.Domain{Min: -1, Max: 1}}, p)
		require.Equal(t, NoIntersection, r.Outcome, "iteration %d", i)
	}
}

func TestSegmentSplit(t *testing.T) {
	left, up := lessonPlanes(t)
	seg, out := ClipSegment(lessonLine, left, up)
	require.Equal(t, Clipped, out)

	before, visible, after := seg.Split(lessonLine)
	assert.Equal(t, -1.0, before.Min)
	assert.InDelta(t, -1.0/6, before.Max, 1e-9)
	assert.Equal(t, seg.Visible, visible)
	assert.InDelta(t, 2.0/3, after.Min, 1e-9)
	assert.Equal(t, 1.5, after.Max)

	inner := lessonLine.Restrict(geom.Domain{Min: 0, Max: 0.5})
	seg, _ = ClipSegment(inner, left, up)
	before, _, after = seg.Split(inner)
	assert.True(t, before.Empty())
	assert.True(t, after.Empty())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "no-intersection", NoIntersection.String())
	assert.Equal(t, "empty-clip", EmptyClip.String())
	assert.Equal(t, "Outcome(42)", Outcome(42).String())
}
