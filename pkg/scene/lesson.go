package scene

import (
	"fmt"

	"github.com/chazu/clipstage/pkg/geom"
)

// LessonName is the scene name of the built-in lesson. Renderers name
// section files after it.
const LessonName = "Q1"

// FrustumClipLesson returns the built-in lesson: a square base at x=0,
// the apex at (1000,0,0), and a line clipped against the right and
// bottom facets of the frustum.
func FrustumClipLesson() *Spec {
	steps := []Step{
		{Name: "axes", Action: "axes"},
		{Name: "plane", Action: "plane"},
		{Name: "endpoint-a", Action: "endpoint-a"},
		{Name: "endpoint-b", Action: "endpoint-b"},
		{Name: "line", Action: "line"},
		{Name: "apex", Action: "apex"},
		{Name: "focus", Action: "focus"},
		{Name: "hide-line", Action: "hide-line"},
		{Name: "corner-labels", Action: "corner-labels"},
		{Name: "frustum-edges", Action: "frustum-edges"},
	}
	for i := 0; i < 4; i++ {
		steps = append(steps, Step{Name: fmt.Sprintf("facet-normal-%d", i), Action: "facet-normal", Facet: i})
	}
	steps = append(steps,
		Step{Name: "clear-frustum", Action: "clear-frustum"},
		Step{Name: "split-line", Action: "split-line"},
		Step{Name: "plane-equations", Action: "plane-equations"},
		Step{Name: "clip-parameters", Action: "clip-parameters"},
		Step{Name: "clip-points", Action: "clip-points"},
		Step{Name: "cleanup", Action: "cleanup"},
		Step{Name: "clip-labels", Action: "clip-labels"},
		Step{Name: "restore-camera", Action: "restore-camera"},
	)

	return &Spec{
		Name: LessonName,
		Quad: geom.Quad{
			geom.V3(0, 400, 600),
			geom.V3(0, 400, 0),
			geom.V3(0, -400, 0),
			geom.V3(0, -400, 600),
		},
		Apex: geom.V3(1000, 0, 0),
		Line: geom.ParametricLine{
			Origin:    geom.V3(230, -285, 102),
			Direction: geom.V3(630, 390, 162),
			Domain:    geom.Domain{Min: -1, Max: 1.5},
		},
		ClipPlanes: [2]int{2, 3},
		Axes: [3]geom.Domain{
			{Min: -200, Max: 1000},
			{Min: -1000, Max: 1000},
			{Min: -1000, Max: 1000},
		},
		Overview: Camera{Phi: 80, Theta: 45, Zoom: 1},
		Focus:    Camera{Phi: 90, Theta: 0, Zoom: 2.5, Center: geom.V3(0, 0, 300)},
		Steps:    steps,
	}
}
