// Package preview implements a scene.Renderer that turns primitives
// into triangle meshes with the sdfx kernel, so a scene can be
// inspected without an animation engine.
//
// Dots become cubes; lines, arrows, curves and axes become rods;
// polygons are triangulated directly. Labels carry no geometry.
package preview

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/kernel"
	"github.com/chazu/clipstage/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
)

// Defaults for Options fields left at zero.
const (
	DefaultCells  = 48
	DefaultRadius = 3.0
	DefaultDot    = 16.0
)

// Options control tessellation.
type Options struct {
	// Cells is the marching cubes resolution along a primitive's
	// longest side.
	Cells int
	// Radius of rods drawn for lines, arrows and curves. It is raised
	// to at least 1.5 cells so thin rods survive sampling.
	Radius float64
	// Dot is the cube edge used for dots.
	Dot float64
}

func (o Options) withDefaults() Options {
	if o.Cells <= 0 {
		o.Cells = DefaultCells
	}
	if o.Radius <= 0 {
		o.Radius = DefaultRadius
	}
	if o.Dot <= 0 {
		o.Dot = DefaultDot
	}
	return o
}

type item struct {
	prim    scene.Primitive
	visible bool
	opacity float64
	scale   float64
}

// Renderer tracks which primitives are on screen and meshes them on
// demand. It is safe for concurrent use.
type Renderer struct {
	opts Options

	mu     sync.Mutex
	items  map[string]*item
	order  []string
	camera *scene.Camera
	paused time.Duration
}

// New returns an empty preview renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts.withDefaults(), items: make(map[string]*item)}
}

func (r *Renderer) Create(p scene.Primitive) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; ok {
		return fmt.Errorf("preview: primitive %q already exists", p.ID)
	}
	op := p.Opacity
	if op == 0 {
		op = 1
	}
	r.items[p.ID] = &item{prim: p, opacity: op, scale: 1}
	r.order = append(r.order, p.ID)
	return nil
}

// Play applies the end state of every animation. Fades, uncreates and
// transform sources leave the screen; every other target joins it.
func (r *Renderer) Play(anims ...scene.Animation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range anims {
		if a.Camera != nil {
			c := *a.Camera
			r.camera = &c
		}
		for _, id := range a.Targets {
			it, ok := r.items[id]
			if !ok {
				return fmt.Errorf("preview: %s: unknown primitive %q", a.Name, id)
			}
			switch a.Name {
			case scene.AnimUncreate, scene.AnimFadeOut, scene.AnimTransform:
				it.visible = false
			case scene.AnimSetOpacity:
				it.opacity = a.Opacity
				it.visible = true
			case scene.AnimScale:
				it.scale *= a.Factor
				it.visible = true
			default:
				// Playing any other animation puts its target on screen.
				it.visible = true
			}
		}
		if a.Name == scene.AnimTransform && a.Into != "" {
			into, ok := r.items[a.Into]
			if !ok {
				return fmt.Errorf("preview: %s: unknown primitive %q", a.Name, a.Into)
			}
			into.visible = true
		}
	}
	return nil
}

// Wait accumulates the pause; nothing is animated.
func (r *Renderer) Wait(d time.Duration) error {
	r.mu.Lock()
	r.paused += d
	r.mu.Unlock()
	return nil
}

// Visible returns the IDs on screen, in creation order.
func (r *Renderer) Visible() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, id := range r.order {
		if it := r.items[id]; it.visible && it.opacity > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Camera returns the last camera pose played, or nil.
func (r *Renderer) Camera() *scene.Camera {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.camera
}

// Paused returns the total time passed to Wait.
func (r *Renderer) Paused() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Meshes tessellates every visible primitive that has geometry. Mesh
// PartName is the primitive ID.
func (r *Renderer) Meshes() ([]*kernel.Mesh, error) {
	r.mu.Lock()
	var items []item
	for _, id := range r.order {
		if it := r.items[id]; it.visible && it.opacity > 0 {
			items = append(items, *it)
		}
	}
	r.mu.Unlock()

	var meshes []*kernel.Mesh
	for _, it := range items {
		m, err := r.mesh(it)
		if err != nil {
			return nil, fmt.Errorf("preview: %s %q: %w", it.prim.Kind, it.prim.ID, err)
		}
		if m == nil || m.IsEmpty() {
			continue
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func (r *Renderer) mesh(it item) (*kernel.Mesh, error) {
	p := it.prim
	pts := p.Points
	switch p.Kind {
	case scene.KindLabel:
		return nil, nil
	case scene.KindPolygon:
		return kernel.PolygonMesh(scaled(pts, it.scale), p.ID), nil
	case scene.KindCurve:
		if p.Curve == nil {
			return nil, fmt.Errorf("curve has no line")
		}
		a, b := p.Curve.Endpoints()
		pts = []geom.Vec3{a, b}
	case scene.KindAxes:
		return r.axes(pts, p.ID)
	}
	pts = scaled(pts, it.scale)

	var s sdf.SDF3
	var err error
	switch p.Kind {
	case scene.KindDot:
		if len(pts) != 1 {
			return nil, fmt.Errorf("dot needs 1 point, got %d", len(pts))
		}
		edge := r.opts.Dot
		if p.Radius > 0 {
			edge = 2 * p.Radius
		}
		s, err = cube(pts[0], edge*it.scale)
	case scene.KindLine, scene.KindArrow, scene.KindCurve:
		if len(pts) != 2 {
			return nil, fmt.Errorf("%s needs 2 points, got %d", p.Kind, len(pts))
		}
		s, err = rod(pts[0], pts[1], r.radius(pts))
		if err == nil && p.Kind == scene.KindArrow {
			var head sdf.SDF3
			head, err = cube(pts[1], 3*r.radius(pts))
			s = sdf.Union3D(s, head)
		}
	default:
		return nil, fmt.Errorf("unsupported kind")
	}
	if err != nil {
		return nil, err
	}
	return toMesh(s, r.opts.Cells, p.ID), nil
}

// axes draws one rod per axis through the origin. pts holds the
// (min,max) corners of the axes box.
func (r *Renderer) axes(pts []geom.Vec3, name string) (*kernel.Mesh, error) {
	if len(pts) != 2 {
		return nil, fmt.Errorf("axes need 2 corner points, got %d", len(pts))
	}
	lo, hi := pts[0], pts[1]
	var parts []sdf.SDF3
	for _, seg := range [][2]geom.Vec3{
		{geom.V3(lo.X, 0, 0), geom.V3(hi.X, 0, 0)},
		{geom.V3(0, lo.Y, 0), geom.V3(0, hi.Y, 0)},
		{geom.V3(0, 0, lo.Z), geom.V3(0, 0, hi.Z)},
	} {
		if seg[0].Equal(seg[1], 0) {
			continue
		}
		s, err := rod(seg[0], seg[1], r.radius(pts))
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return toMesh(sdf.Union3D(parts...), r.opts.Cells, name), nil
}

func (r *Renderer) radius(pts []geom.Vec3) float64 {
	return math.Max(r.opts.Radius, 1.5*extent(pts)/float64(r.opts.Cells))
}

// scaled scales pts about their centroid.
func scaled(pts []geom.Vec3, k float64) []geom.Vec3 {
	if k == 1 || len(pts) == 0 {
		return pts
	}
	c := geom.Centroid(pts...)
	out := make([]geom.Vec3, len(pts))
	for i, p := range pts {
		out[i] = c.Add(p.Sub(c).Scale(k))
	}
	return out
}

// MeshData is a mesh with its display color.
type MeshData struct {
	*kernel.Mesh
	Color string `json:"color"`
}

// WriteJSON tessellates the visible primitives and writes them, sorted
// by part name, as a JSON array.
func (r *Renderer) WriteJSON(w io.Writer) error {
	meshes, err := r.Meshes()
	if err != nil {
		return err
	}
	r.mu.Lock()
	out := make([]MeshData, 0, len(meshes))
	for _, m := range meshes {
		out = append(out, MeshData{Mesh: m, Color: r.items[m.PartName].prim.Color})
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].PartName < out[j].PartName })

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("preview: encode meshes: %w", err)
	}
	return nil
}
