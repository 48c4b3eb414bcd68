package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/clipstage/pkg/sequencer"
)

// Locator resolves a section to the URI of its rendered segment.
type Locator interface {
	Locate(sec sequencer.Section) (string, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(sec sequencer.Section) (string, error)

func (f LocatorFunc) Locate(sec sequencer.Section) (string, error) { return f(sec) }

// DefaultPattern is the renderer's per-section file naming:
// scene name and zero-padded section index.
const DefaultPattern = "%s_%04d.mp4"

// PatternLocator derives segment file names from the scene name and the
// section index.
type PatternLocator struct {
	Dir     string
	Scene   string
	Pattern string // fmt pattern taking (scene, index); DefaultPattern if empty
	// CheckExists makes Locate fail when the file is not on disk.
	CheckExists bool
}

func (p PatternLocator) Locate(sec sequencer.Section) (string, error) {
	pattern := p.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	return resolve(p.Dir, fmt.Sprintf(pattern, p.Scene, sec.Index), p.CheckExists)
}

// IndexEntry is one record of the section index the renderer writes
// next to the section videos.
type IndexEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Video string `json:"video"`
}

// Index is the renderer's section index, in section order.
type Index []IndexEntry

// LoadIndex reads a section index JSON file.
func LoadIndex(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read index %s: %w", path, err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("manifest: parse index %s: %w", path, err)
	}
	return idx, nil
}

// IndexPath returns the conventional index location for a scene:
// <dir>/<scene>.json.
func IndexPath(dir, scene string) string {
	return filepath.Join(dir, scene+".json")
}

// IndexLocator resolves sections through a loaded Index. Sections match
// index entries by position; a name mismatch means the index belongs to
// a different render and is reported as unresolved.
type IndexLocator struct {
	Dir         string
	Index       Index
	CheckExists bool
}

func (l IndexLocator) Locate(sec sequencer.Section) (string, error) {
	if sec.Index < 0 || sec.Index >= len(l.Index) {
		return "", fmt.Errorf("index has %d entries, no entry %d", len(l.Index), sec.Index)
	}
	e := l.Index[sec.Index]
	if e.Name != "" && sec.Name != "" && e.Name != sec.Name {
		return "", fmt.Errorf("index entry %d is %q", sec.Index, e.Name)
	}
	if e.Video == "" {
		return "", fmt.Errorf("index entry %d has no video", sec.Index)
	}
	return resolve(l.Dir, e.Video, l.CheckExists)
}

// PayloadLocator resolves sections whose payload is a file name, as
// attached by the recording renderer.
type PayloadLocator struct {
	Dir         string
	CheckExists bool
}

func (l PayloadLocator) Locate(sec sequencer.Section) (string, error) {
	name, ok := sec.Payload.(string)
	if !ok || name == "" {
		return "", fmt.Errorf("section payload %T is not a file name", sec.Payload)
	}
	return resolve(l.Dir, name, l.CheckExists)
}

func resolve(dir, name string, check bool) (string, error) {
	p := name
	if dir != "" && !filepath.IsAbs(name) {
		p = filepath.Join(dir, name)
	}
	if check {
		if _, err := os.Stat(p); err != nil {
			return "", err
		}
	}
	return filepath.ToSlash(p), nil
}
