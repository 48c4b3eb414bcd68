// Package scene describes the frustum clipping lesson as data and plays
// it against a Renderer, one sequencer section per step.
package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/clipstage/pkg/clip"
	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/kernel"
)

// Spec is a complete, renderer-independent scene description.
type Spec struct {
	Name string              `json:"name"`
	Quad geom.Quad           `json:"quad"`
	Apex geom.Vec3           `json:"apex"`
	Line geom.ParametricLine `json:"line"`
	// ClipPlanes are the two facets the line is clipped against.
	ClipPlanes [2]int `json:"clip_planes"`
	// Axes is the visible range of each coordinate axis.
	Axes     [3]geom.Domain `json:"axes"`
	Overview Camera         `json:"overview"`
	Focus    Camera         `json:"focus"`
	Steps    []Step         `json:"steps"`
}

// Step is one named, sectioned unit of the scene.
type Step struct {
	Name   string `json:"name"`
	Action string `json:"action"`
	// Facet selects the facet for facet-normal steps.
	Facet int `json:"facet,omitempty"`
	// Force records the section as not skipped regardless of policy.
	Force bool `json:"force,omitempty"`
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Severity indicates whether a finding blocks the run.
type Severity int

const (
	SeverityError   Severity = iota // blocks the run
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError is a single validation finding. Step is -1 for
// scene-level findings. Err, when set, is the sentinel the finding
// stands for.
type ValidationError struct {
	Step     int
	Message  string
	Severity Severity
	Err      error
}

func (e ValidationError) Unwrap() error { return e.Err }

func (e ValidationError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] step %d: %s", e.Severity, e.Step, e.Message)
}

// Validate runs the structural and geometric checks and returns every
// finding. The spec is never modified.
func (s *Spec) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, s.validateSteps()...)
	errs = append(errs, s.validateGeometry()...)
	return errs
}

// Err joins the blocking findings into one error, or returns nil.
func (s *Spec) Err() error {
	var errs []error
	for _, v := range s.Validate() {
		if v.Severity == SeverityError {
			errs = append(errs, v)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("scene %q: %w", s.Name, errors.Join(errs...))
}

// validateSteps checks action names, facet indexes and step ordering.
func (s *Spec) validateSteps() []ValidationError {
	var errs []ValidationError
	if len(s.Steps) == 0 {
		errs = append(errs, ValidationError{Step: -1, Message: "scene has no steps", Severity: SeverityWarning})
	}

	seen := make(map[string]bool)
	created := make(map[string]int)
	names := make(map[string]int)
	for i, st := range s.Steps {
		if st.Name == "" {
			errs = append(errs, ValidationError{Step: i, Message: "step has no name", Severity: SeverityError})
		} else if prev, dup := names[st.Name]; dup {
			errs = append(errs, ValidationError{
				Step:     i,
				Message:  fmt.Sprintf("name %q already used by step %d", st.Name, prev),
				Severity: SeverityWarning,
			})
		} else {
			names[st.Name] = i
		}

		a, ok := actions[st.Action]
		if !ok {
			errs = append(errs, ValidationError{
				Step:     i,
				Message:  fmt.Sprintf("unknown action %q", st.Action),
				Severity: SeverityError,
			})
			continue
		}
		if st.Action == "facet-normal" && (st.Facet < 0 || st.Facet > 3) {
			errs = append(errs, ValidationError{
				Step:     i,
				Message:  fmt.Sprintf("facet %d out of range [0,3]", st.Facet),
				Severity: SeverityError,
			})
		}
		if a.creates {
			if prev, dup := created[st.instance()]; dup {
				errs = append(errs, ValidationError{
					Step:     i,
					Message:  fmt.Sprintf("%s already ran at step %d; its primitives exist", st.instance(), prev),
					Severity: SeverityError,
				})
			} else {
				created[st.instance()] = i
			}
		}
		for _, need := range a.needs {
			if !seen[need] {
				errs = append(errs, ValidationError{
					Step:     i,
					Message:  fmt.Sprintf("action %q needs an earlier %q step", st.Action, need),
					Severity: SeverityError,
				})
			}
		}
		seen[st.Action] = true
	}
	return errs
}

// validateGeometry checks the frustum, the line and the clip planes.
func (s *Spec) validateGeometry() []ValidationError {
	var errs []ValidationError
	bad := func(format string, args ...any) {
		errs = append(errs, ValidationError{Step: -1, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
	}

	if s.Line.Direction.IsZero() {
		bad("line direction is zero")
	}
	if s.Line.Domain.Empty() {
		bad("line domain %s is empty", s.Line.Domain)
	}
	for i, p := range s.ClipPlanes {
		if p < 0 || p > 3 {
			bad("clip plane %d is facet %d, out of range [0,3]", i, p)
		}
	}
	if s.ClipPlanes[0] == s.ClipPlanes[1] {
		bad("clip planes must be two different facets, got %d twice", s.ClipPlanes[0])
	}

	f, err := kernel.NewFrustum(s.Quad, s.Apex)
	if err != nil {
		bad("%v", err)
		return errs
	}
	if len(errs) > 0 {
		return errs
	}
	if _, out := clip.ClipSegment(s.Line, f.Planes[s.ClipPlanes[0]], f.Planes[s.ClipPlanes[1]]); out != clip.Clipped {
		v := ValidationError{
			Step:     -1,
			Message:  fmt.Sprintf("line is %s against facets %d and %d", out, s.ClipPlanes[0], s.ClipPlanes[1]),
			Severity: SeverityWarning,
		}
		if i := s.clipStep(); i >= 0 {
			v.Step = i
			v.Message = fmt.Sprintf("%s needs the clip, but the %s", s.Steps[i].Action, v.Message)
			v.Severity = SeverityError
			v.Err = ErrNotClipped
		}
		errs = append(errs, v)
	}
	return errs
}

// clipStep returns the index of the first step that shows the clip
// result, or -1.
func (s *Spec) clipStep() int {
	for i, st := range s.Steps {
		if actions[st.Action].clip {
			return i
		}
	}
	return -1
}
