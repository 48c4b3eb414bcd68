package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chazu/clipstage/pkg/clip"
	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/kernel"
	"github.com/chazu/clipstage/pkg/sequencer"
)

// ErrNotClipped is returned by steps that show the clip result when the
// line does not cross both clip planes inside its domain.
var ErrNotClipped = errors.New("scene: line is not clipped")

// Stage is the explicit context a scene runs in: the spec, the
// collaborators, the geometry derived from the spec and the primitives
// created so far.
type Stage struct {
	Spec     *Spec
	Renderer Renderer
	Seq      *sequencer.Sequencer
	Log      *slog.Logger

	Frustum *kernel.Frustum
	Segment clip.Segment
	Outcome clip.Outcome

	prims map[string]Primitive
	order []string
}

// NewStage validates spec and derives the frustum and clip segment, so
// degenerate geometry is reported before anything is rendered. A nil
// logger discards output.
func NewStage(spec *Spec, r Renderer, seq *sequencer.Sequencer, log *slog.Logger) (*Stage, error) {
	f, err := kernel.NewFrustum(spec.Quad, spec.Apex)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", spec.Name, err)
	}
	if err := spec.Err(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	st := &Stage{
		Spec:     spec,
		Renderer: r,
		Seq:      seq,
		Log:      log,
		Frustum:  f,
		prims:    make(map[string]Primitive),
	}
	st.Segment, st.Outcome = clip.ClipSegment(spec.Line, st.ClipPlane(0), st.ClipPlane(1))
	return st, nil
}

// ClipPlane returns the i-th (0 or 1) clip plane.
func (st *Stage) ClipPlane(i int) geom.Plane {
	return st.Frustum.Planes[st.Spec.ClipPlanes[i]]
}

// Primitive returns a created primitive by ID.
func (st *Stage) Primitive(id string) (Primitive, bool) {
	p, ok := st.prims[id]
	return p, ok
}

// Primitives returns the IDs of all created primitives in creation order.
func (st *Stage) Primitives() []string {
	return append([]string(nil), st.order...)
}

func (st *Stage) create(ps ...Primitive) error {
	for _, p := range ps {
		if _, dup := st.prims[p.ID]; dup {
			return fmt.Errorf("primitive %q already exists", p.ID)
		}
		if err := st.Renderer.Create(p); err != nil {
			return fmt.Errorf("create %s %q: %w", p.Kind, p.ID, err)
		}
		st.prims[p.ID] = p
		st.order = append(st.order, p.ID)
	}
	return nil
}

func (st *Stage) play(anims ...Animation) error {
	for _, a := range anims {
		for _, id := range a.Targets {
			if _, ok := st.prims[id]; !ok {
				return fmt.Errorf("%s: unknown primitive %q", a.Name, id)
			}
		}
		if a.Into != "" {
			if _, ok := st.prims[a.Into]; !ok {
				return fmt.Errorf("%s: unknown primitive %q", a.Name, a.Into)
			}
		}
	}
	if err := st.Renderer.Play(anims...); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

func (st *Stage) requireClip() error {
	if st.Outcome != clip.Clipped {
		return fmt.Errorf("%w: %s", ErrNotClipped, st.Outcome)
	}
	return nil
}

// Run plays every step of the stage's spec in order. Each step opens a
// section, runs its action and closes it at a checkpoint. The finalized
// Timeline is returned; on error the sequencer is left open.
func Run(st *Stage) (sequencer.Timeline, error) {
	sectioned, _ := st.Renderer.(Sectioned)
	for i, step := range st.Spec.Steps {
		var opts []sequencer.SectionOption
		if step.Force {
			opts = append(opts, sequencer.Force())
		}
		if err := st.Seq.BeginSection(step.Name, opts...); err != nil {
			return nil, fmt.Errorf("scene: step %d (%s): %w", i, step.Name, err)
		}
		if idx := st.Seq.Current(); idx >= 0 && sectioned != nil {
			if err := st.Seq.Annotate(sectioned.BeginSection(idx, step.Name)); err != nil {
				return nil, fmt.Errorf("scene: step %d (%s): %w", i, step.Name, err)
			}
		}

		st.Log.Debug("step", "index", i, "name", step.Name, "action", step.Action, "section", st.Seq.Current())
		start := time.Now()
		if err := actions[step.Action].run(st, step); err != nil {
			return nil, fmt.Errorf("scene: step %d (%s): %s: %w", i, step.Name, step.Action, err)
		}
		st.Log.Debug("step done", "name", step.Name, "elapsed", time.Since(start))

		if err := st.Seq.Checkpoint(); err != nil {
			return nil, fmt.Errorf("scene: step %d (%s): %w", i, step.Name, err)
		}
	}
	tl, err := st.Seq.Finalize()
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	st.Log.Info("scene finished", "scene", st.Spec.Name, "steps", len(st.Spec.Steps), "sections", len(tl))
	return tl, nil
}
