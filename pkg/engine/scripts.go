package engine

import _ "embed"

// LessonScript is the frustum clipping lesson written as a scene script.
// It evaluates to the same spec as scene.FrustumClipLesson.
//
//go:embed scripts/frustum_clip.lisp
var LessonScript string
