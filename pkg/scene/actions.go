package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/clipstage/pkg/clip"
	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/kernel"
)

// action is one step implementation. needs lists the actions that must
// run earlier in the same scene. An action that creates primitives runs
// at most once per scene (once per facet for facet-normal); clip marks
// actions that show the clip result.
type action struct {
	run     func(st *Stage, step Step) error
	needs   []string
	creates bool
	clip    bool
}

var actions = map[string]action{
	"axes":            {run: axes, creates: true},
	"plane":           {run: plane, creates: true},
	"endpoint-a":      {run: endpointA, creates: true},
	"endpoint-b":      {run: endpointB, creates: true},
	"line":            {run: line, needs: []string{"endpoint-a", "endpoint-b"}, creates: true},
	"apex":            {run: apex, creates: true},
	"focus":           {run: focus, needs: []string{"plane", "line"}},
	"hide-line":       {run: hideLine, needs: []string{"line"}},
	"corner-labels":   {run: cornerLabels, needs: []string{"plane"}, creates: true},
	"frustum-edges":   {run: frustumEdges, needs: []string{"apex", "corner-labels"}, creates: true},
	"facet-normal":    {run: facetNormal, needs: []string{"frustum-edges"}, creates: true},
	"clear-frustum":   {run: clearFrustum, needs: []string{"frustum-edges"}},
	"split-line":      {run: splitLine, needs: []string{"line"}, creates: true, clip: true},
	"plane-equations": {run: planeEquations, needs: []string{"frustum-edges"}, creates: true},
	"clip-parameters": {run: clipParameters, needs: []string{"split-line", "plane-equations"}, creates: true, clip: true},
	"clip-points":     {run: clipPoints, needs: []string{"clip-parameters"}, creates: true, clip: true},
	"cleanup":         {run: cleanup, needs: []string{"frustum-edges"}},
	"clip-labels":     {run: clipLabels, needs: []string{"clip-points"}, creates: true, clip: true},
	"restore-camera":  {run: restoreCamera},
}

// instance names what a creating step produces: the action, plus the
// facet for facet-normal.
func (s Step) instance() string {
	if s.Action == "facet-normal" {
		return fmt.Sprintf("%s %d", s.Action, s.Facet)
	}
	return s.Action
}

// Actions returns the known action names, sorted.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for n := range actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// labelPlaces is the rounding applied to coordinates shown in labels.
const labelPlaces = 6

// existing filters ids down to the primitives created so far.
func (st *Stage) existing(ids ...string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := st.prims[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// eventFor returns the clip event produced by the i-th clip plane.
func (st *Stage) eventFor(i int) clip.Event {
	return st.Segment.Event(i)
}

// ---------------------------------------------------------------------------
// Opening: axes, base plane, line and apex
// ---------------------------------------------------------------------------

func axes(st *Stage, _ Step) error {
	ax := st.Spec.Axes
	lo := geom.V3(ax[0].Min, ax[1].Min, ax[2].Min)
	hi := geom.V3(ax[0].Max, ax[1].Max, ax[2].Max)
	err := st.create(
		Primitive{ID: "axes", Kind: KindAxes, Points: []geom.Vec3{lo, hi}, Color: ColorWhite},
		Primitive{ID: "axes-labels", Kind: KindLabel, Text: "x y z", Anchor: "axes", Fixed: true},
	)
	if err != nil {
		return err
	}
	cam := st.Spec.Overview
	return st.play(
		Animation{Name: AnimCamera, Camera: &cam},
		anim(AnimCreate, "axes"),
		anim(AnimWrite, "axes-labels"),
	)
}

func plane(st *Stage, _ Step) error {
	q := st.Spec.Quad
	err := st.create(Primitive{
		ID:      "quad",
		Kind:    KindPolygon,
		Points:  q[:],
		Color:   ColorBlue,
		Opacity: 1,
	})
	if err != nil {
		return err
	}
	return st.play(anim(AnimDrawFill, "quad"))
}

func endpointA(st *Stage, _ Step) error { return endpoint(st, "endpoint-a", "L_1", 0) }
func endpointB(st *Stage, _ Step) error { return endpoint(st, "endpoint-b", "L_2", 1) }

func endpoint(st *Stage, id, name string, t float64) error {
	p := st.Spec.Line.At(t)
	err := st.create(
		Primitive{ID: id, Kind: KindDot, Points: []geom.Vec3{p}, Color: ColorRed},
		Primitive{ID: id + "-label", Kind: KindLabel, Text: name + " = " + p.Round(labelPlaces).String(), Anchor: id, Fixed: true},
	)
	if err != nil {
		return err
	}
	return st.play(anim(AnimGrow, id), anim(AnimWrite, id+"-label"))
}

func line(st *Stage, _ Step) error {
	l := st.Spec.Line
	err := st.create(
		Primitive{ID: "line", Kind: KindCurve, Curve: &l, Color: ColorRed},
		Primitive{ID: "line-label", Kind: KindLabel, Text: "L(t) = " + l.String(), Anchor: "line", Fixed: true},
	)
	if err != nil {
		return err
	}
	return st.play(
		anim(AnimCreate, "line"),
		Animation{Name: AnimTransform, Targets: []string{"endpoint-a-label", "endpoint-b-label"}, Into: "line-label"},
	)
}

func apex(st *Stage, _ Step) error {
	a := st.Spec.Apex
	err := st.create(
		Primitive{ID: "apex", Kind: KindDot, Points: []geom.Vec3{a}, Color: ColorYellow},
		Primitive{ID: "apex-label", Kind: KindLabel, Text: "A = " + a.Round(labelPlaces).String(), Anchor: "apex", Fixed: true},
	)
	if err != nil {
		return err
	}
	return st.play(anim(AnimGrow, "apex"), anim(AnimWrite, "apex-label"))
}

// ---------------------------------------------------------------------------
// Frustum construction
// ---------------------------------------------------------------------------

func focus(st *Stage, _ Step) error {
	cam := st.Spec.Focus
	if cam.Center.IsZero() {
		cam.Center = st.Spec.Quad.Centroid()
	}
	return st.play(
		Animation{Name: AnimCamera, Camera: &cam},
		Animation{Name: AnimSetOpacity, Targets: []string{"quad"}, Opacity: 0.3},
		anim(AnimFadeOut, "line-label", "endpoint-a", "endpoint-b"),
	)
}

func hideLine(st *Stage, _ Step) error {
	return st.play(anim(AnimFadeOut, "line"))
}

func cornerLabels(st *Stage, _ Step) error {
	ids := make([]string, 4)
	for i, v := range st.Spec.Quad {
		ids[i] = fmt.Sprintf("corner-%d", i)
		err := st.create(Primitive{
			ID:     ids[i],
			Kind:   KindLabel,
			Text:   fmt.Sprintf("Q_%d = %s", i+1, v.Round(labelPlaces)),
			Points: []geom.Vec3{v},
			Fixed:  true,
		})
		if err != nil {
			return err
		}
	}
	return st.play(anim(AnimWrite, ids...))
}

func frustumEdges(st *Stage, _ Step) error {
	var edges, labels, corners []string
	for i, v := range st.Spec.Quad {
		edge := fmt.Sprintf("edge-%d", i)
		label := fmt.Sprintf("edge-label-%d", i)
		facet := fmt.Sprintf("facet-%d", i)
		fc := st.Frustum.Facets[i].Vertices()
		err := st.create(
			Primitive{ID: edge, Kind: KindArrow, Points: []geom.Vec3{st.Spec.Apex, v}, Color: ColorWhite},
			Primitive{ID: label, Kind: KindLabel, Text: fmt.Sprintf(`\vec{v_%d}`, i+1), Anchor: edge, Fixed: true},
			Primitive{ID: facet, Kind: KindPolygon, Points: fc[:], Color: ColorBlue},
		)
		if err != nil {
			return err
		}
		edges = append(edges, edge)
		labels = append(labels, label)
		corners = append(corners, fmt.Sprintf("corner-%d", i))
	}
	return st.play(
		anim(AnimGrow, edges...),
		anim(AnimFadeOut, append(corners, "apex-label")...),
		anim(AnimWrite, labels...),
	)
}

// facetNormal shows the cross product of the two edges bounding a facet
// and the resulting normal arrow.
func facetNormal(st *Stage, step Step) error {
	k := step.Facet
	next := (k + 1) % 4
	facet := fmt.Sprintf("facet-%d", k)
	cross := fmt.Sprintf("cross-%d", k)
	normal := fmt.Sprintf("normal-%d", k)

	start, end := kernel.NormalArrow(st.Frustum.Planes[k], 0)
	err := st.create(
		Primitive{ID: cross, Kind: KindLabel, Text: fmt.Sprintf(`\vec{v_%d} \times \vec{v_%d}`, k+1, next+1), Anchor: facet, Fixed: true},
		Primitive{ID: normal, Kind: KindArrow, Points: []geom.Vec3{start, end}, Color: ColorGreen},
	)
	if err != nil {
		return err
	}
	if err := st.play(
		anim(AnimWrite, cross),
		anim(AnimFlash, fmt.Sprintf("edge-label-%d", k), fmt.Sprintf("edge-label-%d", next)),
	); err != nil {
		return err
	}
	if err := st.play(anim(AnimGrow, normal), anim(AnimFadeOut, cross)); err != nil {
		return err
	}
	return st.play(
		Animation{Name: AnimSetOpacity, Targets: []string{facet}, Opacity: 0.5, RunTime: 0.3},
	)
}

func clearFrustum(st *Stage, _ Step) error {
	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, st.existing(
			fmt.Sprintf("normal-%d", i),
			fmt.Sprintf("facet-%d", i),
			fmt.Sprintf("edge-label-%d", i),
		)...)
	}
	return st.play(anim(AnimFadeOut, ids...))
}

// ---------------------------------------------------------------------------
// Clipping
// ---------------------------------------------------------------------------

func splitLine(st *Stage, _ Step) error {
	if err := st.requireClip(); err != nil {
		return err
	}
	l := st.Spec.Line
	before, visible, after := st.Segment.Split(l)
	var ids []string
	for _, part := range []struct {
		id    string
		d     geom.Domain
		color string
		alpha float64
	}{
		{"line-before", before, ColorWhite, 0.3},
		{"line-visible", visible, ColorRed, 1},
		{"line-after", after, ColorWhite, 0.3},
	} {
		if part.d.Empty() {
			continue
		}
		piece := l.Restrict(part.d)
		err := st.create(Primitive{ID: part.id, Kind: KindCurve, Curve: &piece, Color: part.color, Opacity: part.alpha})
		if err != nil {
			return err
		}
		ids = append(ids, part.id)
	}
	return st.play(anim(AnimFadeIn, ids...))
}

func planeEquations(st *Stage, _ Step) error {
	var facets, labels []string
	for i, f := range st.Spec.ClipPlanes {
		facet := fmt.Sprintf("facet-%d", f)
		label := fmt.Sprintf("equation-%d", i)
		err := st.create(Primitive{ID: label, Kind: KindLabel, Text: st.ClipPlane(i).Equation(), Anchor: facet, Fixed: true})
		if err != nil {
			return err
		}
		facets = append(facets, facet)
		labels = append(labels, label)
	}
	return st.play(
		Animation{Name: AnimSetOpacity, Targets: facets, Opacity: 0.5},
		anim(AnimWrite, labels...),
	)
}

func clipParameters(st *Stage, _ Step) error {
	if err := st.requireClip(); err != nil {
		return err
	}
	var anims []Animation
	for i := range st.Spec.ClipPlanes {
		id := fmt.Sprintf("param-%d", i)
		err := st.create(Primitive{ID: id, Kind: KindLabel, Text: "t = " + formatParam(st.eventFor(i).T), Fixed: true})
		if err != nil {
			return err
		}
		anims = append(anims, Animation{Name: AnimTransform, Targets: []string{fmt.Sprintf("equation-%d", i)}, Into: id})
	}
	return st.play(anims...)
}

func clipPoints(st *Stage, _ Step) error {
	if err := st.requireClip(); err != nil {
		return err
	}
	var anims []Animation
	var dots []string
	for i := range st.Spec.ClipPlanes {
		id := fmt.Sprintf("clip-point-%d", i)
		err := st.create(Primitive{ID: id, Kind: KindDot, Points: []geom.Vec3{st.eventFor(i).Point}, Color: ColorGreen})
		if err != nil {
			return err
		}
		anims = append(anims, Animation{Name: AnimTransform, Targets: []string{fmt.Sprintf("param-%d", i)}, Into: id})
		dots = append(dots, id)
	}
	return st.play(append(anims, anim(AnimFlash, dots...))...)
}

func cleanup(st *Stage, _ Step) error {
	var edges []string
	for i := 0; i < 4; i++ {
		edges = append(edges, fmt.Sprintf("edge-%d", i))
	}
	fade := st.existing("line-before", "line-after", "apex")
	for _, f := range st.Spec.ClipPlanes {
		fade = append(fade, st.existing(fmt.Sprintf("facet-%d", f))...)
	}
	return st.play(anim(AnimUncreate, edges...), anim(AnimFadeOut, fade...))
}

func clipLabels(st *Stage, _ Step) error {
	var ids []string
	for i := range st.Spec.ClipPlanes {
		id := fmt.Sprintf("clip-label-%d", i)
		p := st.eventFor(i).Point.Round(labelPlaces)
		err := st.create(Primitive{ID: id, Kind: KindLabel, Text: p.String(), Anchor: fmt.Sprintf("clip-point-%d", i), Fixed: true})
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return st.play(anim(AnimWrite, ids...))
}

func restoreCamera(st *Stage, _ Step) error {
	cam := st.Spec.Overview
	anims := []Animation{{Name: AnimCamera, Camera: &cam}}
	if dots := st.existing("clip-point-0", "clip-point-1"); len(dots) > 0 {
		anims = append(anims, Animation{Name: AnimScale, Targets: dots, Factor: 3})
	}
	return st.play(anims...)
}

// formatParam renders t as a reduced fraction when it is one with a
// small denominator: -1/6 reads `-\frac{1}{6}`.
func formatParam(t float64) string {
	for q := 1; q <= 1000; q++ {
		p := math.Round(t * float64(q))
		if math.Abs(t-p/float64(q)) > 1e-9 {
			continue
		}
		if q == 1 {
			return fmt.Sprintf("%d", int64(p))
		}
		sign := ""
		if p < 0 {
			sign = "-"
			p = -p
		}
		return fmt.Sprintf(`%s\frac{%d}{%d}`, sign, int64(p), q)
	}
	return fmt.Sprintf("%.6g", t)
}
