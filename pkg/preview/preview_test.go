package preview

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/scene"
	"github.com/chazu/clipstage/pkg/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scene.Renderer = (*Renderer)(nil)

func show(t *testing.T, r *Renderer, ps ...scene.Primitive) {
	t.Helper()
	var ids []string
	for _, p := range ps {
		require.NoError(t, r.Create(p))
		ids = append(ids, p.ID)
	}
	require.NoError(t, r.Play(scene.Animation{Name: scene.AnimCreate, Targets: ids}))
}

// bounds returns the min and max vertex coordinates of the mesh.
func bounds(vs []float32) (lo, hi [3]float32) {
	lo = [3]float32{vs[0], vs[1], vs[2]}
	hi = lo
	for i := 0; i < len(vs); i += 3 {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], vs[i+k])
			hi[k] = max(hi[k], vs[i+k])
		}
	}
	return lo, hi
}

func TestDotIsCube(t *testing.T) {
	r := New(Options{Cells: 16, Dot: 10})
	show(t, r, scene.Primitive{ID: "p", Kind: scene.KindDot, Points: []geom.Vec3{geom.V3(100, 0, 50)}})

	meshes, err := r.Meshes()
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	m := meshes[0]
	assert.Equal(t, "p", m.PartName)
	require.False(t, m.IsEmpty())
	assert.Equal(t, len(m.Vertices), len(m.Normals))
	assert.Equal(t, m.VertexCount(), 3*m.TriangleCount())

	lo, hi := bounds(m.Vertices)
	assert.InDelta(t, 95, lo[0], 1)
	assert.InDelta(t, 105, hi[0], 1)
	assert.InDelta(t, 45, lo[2], 1)
	assert.InDelta(t, 55, hi[2], 1)
}

func TestRodFollowsSegment(t *testing.T) {
	r := New(Options{Cells: 24, Radius: 2})
	a, b := geom.V3(0, 0, 0), geom.V3(0, 120, 0)
	show(t, r, scene.Primitive{ID: "l", Kind: scene.KindLine, Points: []geom.Vec3{a, b}})

	meshes, err := r.Meshes()
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	lo, hi := bounds(meshes[0].Vertices)
	assert.InDelta(t, 0, lo[1], 2)
	assert.InDelta(t, 120, hi[1], 2)
	rad := float32(r.radius([]geom.Vec3{a, b}))
	assert.InDelta(t, 0, lo[0]+rad, 2)
	assert.InDelta(t, 0, hi[0]-rad, 2)
}

func TestPolygonIsFanned(t *testing.T) {
	r := New(Options{})
	q := []geom.Vec3{geom.V3(0, 400, 600), geom.V3(0, 400, 0), geom.V3(0, -400, 0), geom.V3(0, -400, 600)}
	show(t, r, scene.Primitive{ID: "quad", Kind: scene.KindPolygon, Points: q})

	meshes, err := r.Meshes()
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, 2, meshes[0].TriangleCount())
	// Winding (0,400,600) -> (0,400,0) -> (0,-400,0) faces -x.
	assert.InDelta(t, -1, meshes[0].Normals[0], 1e-6)
}

func TestVisibility(t *testing.T) {
	r := New(Options{Cells: 12})
	dot := func(id string) scene.Primitive {
		return scene.Primitive{ID: id, Kind: scene.KindDot, Points: []geom.Vec3{geom.V3(0, 0, 0)}}
	}
	show(t, r, dot("a"), scene.Primitive{ID: "a-label", Kind: scene.KindLabel, Text: "A"})
	require.NoError(t, r.Create(dot("b")))
	assert.Equal(t, []string{"a", "a-label"}, r.Visible())

	require.NoError(t, r.Play(scene.Animation{Name: scene.AnimTransform, Targets: []string{"a"}, Into: "b"}))
	assert.Equal(t, []string{"a-label", "b"}, r.Visible())

	require.NoError(t, r.Play(scene.Animation{Name: scene.AnimSetOpacity, Targets: []string{"b"}, Opacity: 0}))
	assert.Equal(t, []string{"a-label"}, r.Visible())

	meshes, err := r.Meshes()
	require.NoError(t, err)
	assert.Empty(t, meshes, "labels have no geometry")

	err = r.Play(scene.Animation{Name: scene.AnimFadeOut, Targets: []string{"missing"}})
	assert.ErrorContains(t, err, `unknown primitive "missing"`)
	assert.ErrorContains(t, r.Create(dot("a")), "already exists")
}

func TestScaleAboutCentroid(t *testing.T) {
	pts := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(2, 0, 0)}
	got := scaled(pts, 3)
	assert.True(t, got[0].Equal(geom.V3(-2, 0, 0), 1e-12))
	assert.True(t, got[1].Equal(geom.V3(4, 0, 0), 1e-12))
}

func TestPreviewLesson(t *testing.T) {
	r := New(Options{Cells: 16})
	seq := sequencer.New(sequencer.Config{Sectioning: sequencer.SectioningDisabled, Pause: time.Second},
		sequencer.WithPauser(sequencer.PauserFunc(r.Wait)))
	st, err := scene.NewStage(scene.FrustumClipLesson(), r, seq, nil)
	require.NoError(t, err)
	_, err = scene.Run(st)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(len(scene.FrustumClipLesson().Steps))*time.Second, r.Paused())
	require.NotNil(t, r.Camera())
	assert.Equal(t, scene.FrustumClipLesson().Overview, *r.Camera())

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	var out []struct {
		PartName string    `json:"partName"`
		Vertices []float32 `json:"vertices"`
		Color    string    `json:"color"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.NotEmpty(t, out)

	names := map[string]bool{}
	for _, m := range out {
		names[m.PartName] = true
		assert.NotEmpty(t, m.Vertices, m.PartName)
	}
	for _, id := range []string{"axes", "quad", "clip-point-0", "clip-point-1"} {
		assert.True(t, names[id], "missing mesh %s", id)
	}
}
