// Package render holds Renderer implementations that do not need an
// animation engine.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/clipstage/pkg/manifest"
	"github.com/chazu/clipstage/pkg/scene"
)

// Op is the kind of a recorded renderer call.
type Op string

const (
	OpCreate Op = "create"
	OpPlay   Op = "play"
	OpWait   Op = "wait"
)

// Call is one recorded renderer call. Section is the section open when
// the call was made, or -1.
type Call struct {
	Seq        int               `json:"seq"`
	Section    int               `json:"section"`
	Op         Op                `json:"op"`
	Primitive  *scene.Primitive  `json:"primitive,omitempty"`
	Animations []scene.Animation `json:"animations,omitempty"`
	Wait       time.Duration     `json:"wait,omitempty"`
}

// Section is a section announced to the recorder.
type Section struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	File  string `json:"file"`
}

// Recorder is a scene.Renderer that records every call instead of
// drawing. Its per-section output stands in for rendered video
// segments. It is safe for concurrent use.
type Recorder struct {
	Scene string

	mu       sync.Mutex
	calls    []Call
	sections []Section
	current  int
}

// NewRecorder returns an empty recorder for the named scene.
func NewRecorder(sceneName string) *Recorder {
	return &Recorder{Scene: sceneName, current: -1}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Seq = len(r.calls)
	c.Section = r.current
	r.calls = append(r.calls, c)
}

func (r *Recorder) Create(p scene.Primitive) error {
	r.record(Call{Op: OpCreate, Primitive: &p})
	return nil
}

func (r *Recorder) Play(anims ...scene.Animation) error {
	r.record(Call{Op: OpPlay, Animations: append([]scene.Animation(nil), anims...)})
	return nil
}

// Wait records the pause without sleeping.
func (r *Recorder) Wait(d time.Duration) error {
	r.record(Call{Op: OpWait, Wait: d})
	return nil
}

// BeginSection tags subsequent calls with index and returns the file
// name the section is written to by WriteSections.
func (r *Recorder) BeginSection(index int, name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	file := SectionFile(r.Scene, index)
	r.sections = append(r.sections, Section{Index: index, Name: name, File: file})
	r.current = index
	return file
}

// SectionFile is the per-section output name: scene and zero-padded
// index, as the video renderer names its segments.
func SectionFile(sceneName string, index int) string {
	return fmt.Sprintf("%s_%04d.json", sceneName, index)
}

// Script returns a copy of every call in order.
func (r *Recorder) Script() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Sections returns the announced sections in order.
func (r *Recorder) Sections() []Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Section(nil), r.sections...)
}

// SectionCalls returns the calls made while section i was open.
func (r *Recorder) SectionCalls(i int) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Section == i {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.sections = nil
	r.current = -1
}

type script struct {
	Scene    string    `json:"scene"`
	Sections []Section `json:"sections"`
	Calls    []Call    `json:"calls"`
}

// WriteJSON writes the whole recording as indented JSON.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(script{Scene: r.Scene, Sections: r.Sections(), Calls: r.Script()}); err != nil {
		return fmt.Errorf("render: encode script: %w", err)
	}
	return nil
}

// WriteSections writes one JSON file per section into dir, plus the
// section index <scene>.json that manifest.IndexLocator reads.
func (r *Recorder) WriteSections(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	sections := r.Sections()
	index := make(manifest.Index, 0, len(sections))
	for _, sec := range sections {
		data, err := json.MarshalIndent(r.SectionCalls(sec.Index), "", "  ")
		if err != nil {
			return fmt.Errorf("render: section %d: %w", sec.Index, err)
		}
		if err := os.WriteFile(filepath.Join(dir, sec.File), data, 0o644); err != nil {
			return fmt.Errorf("render: section %d: %w", sec.Index, err)
		}
		index = append(index, manifest.IndexEntry{Name: sec.Name, Type: "default.normal", Video: sec.File})
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("render: index: %w", err)
	}
	if err := os.WriteFile(manifest.IndexPath(dir, r.Scene), data, 0o644); err != nil {
		return fmt.Errorf("render: index: %w", err)
	}
	return nil
}
