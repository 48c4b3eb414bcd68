package scene

import (
	"time"

	"github.com/chazu/clipstage/pkg/geom"
)

// Renderer is the external animation engine as seen by the scene.
// Create defines a primitive; nothing is shown until an animation
// targets it. Play runs its animations simultaneously.
type Renderer interface {
	Create(p Primitive) error
	Play(anims ...Animation) error
	Wait(d time.Duration) error
}

// Sectioned is implemented by renderers that split their output per
// section. The returned payload is attached to the recorded section.
type Sectioned interface {
	BeginSection(index int, name string) any
}

// Kind is the primitive type.
type Kind string

const (
	KindAxes    Kind = "axes"
	KindDot     Kind = "dot"
	KindPolygon Kind = "polygon"
	KindArrow   Kind = "arrow"
	KindLine    Kind = "line"
	KindCurve   Kind = "curve"
	KindLabel   Kind = "label"
)

// Colors used by the lesson.
const (
	ColorBlue   = "blue"
	ColorRed    = "red"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorWhite  = "white"
)

// Primitive is a visual element built from computed geometry.
type Primitive struct {
	ID     string               `json:"id"`
	Kind   Kind                 `json:"kind"`
	Points []geom.Vec3          `json:"points,omitempty"`
	Curve  *geom.ParametricLine `json:"curve,omitempty"`
	Text   string               `json:"text,omitempty"`
	// Anchor is the primitive a label sits next to.
	Anchor  string  `json:"anchor,omitempty"`
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	// Fixed keeps labels facing the camera.
	Fixed bool `json:"fixed,omitempty"`
}

// Animation names.
const (
	AnimCreate     = "create"
	AnimUncreate   = "uncreate"
	AnimDrawFill   = "draw-border-then-fill"
	AnimFadeIn     = "fade-in"
	AnimFadeOut    = "fade-out"
	AnimWrite      = "write"
	AnimGrow       = "grow"
	AnimTransform  = "transform"
	AnimFlash      = "flash"
	AnimSetOpacity = "set-opacity"
	AnimScale      = "scale"
	AnimCamera     = "move-camera"
)

// Camera is a camera pose in degrees.
type Camera struct {
	Phi    float64   `json:"phi"`
	Theta  float64   `json:"theta"`
	Zoom   float64   `json:"zoom"`
	Center geom.Vec3 `json:"center"`
}

// Animation is a transition between visual states.
type Animation struct {
	Name    string   `json:"name"`
	Targets []string `json:"targets,omitempty"`
	// Into is the destination primitive of a transform.
	Into    string  `json:"into,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Factor  float64 `json:"factor,omitempty"`
	Camera  *Camera `json:"camera,omitempty"`
	// RunTime in seconds; zero leaves the renderer default.
	RunTime float64 `json:"run_time,omitempty"`
}

func anim(name string, targets ...string) Animation {
	return Animation{Name: name, Targets: targets}
}
