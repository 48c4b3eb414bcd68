// Package manifest turns a finalized Timeline into the ordered
// section-to-video list consumed by the slide builder.
package manifest

import (
	"errors"
	"fmt"

	"github.com/chazu/clipstage/pkg/sequencer"
)

// ErrUnresolvedSegment matches every *UnresolvedSegmentError.
var ErrUnresolvedSegment = errors.New("manifest: unresolved segment")

// UnresolvedSegmentError reports a section whose rendered artifact could
// not be located. The Timeline itself stays valid.
type UnresolvedSegmentError struct {
	Section sequencer.Section
	Err     error
}

func (e *UnresolvedSegmentError) Error() string {
	return fmt.Sprintf("manifest: section %d (%q) unresolved: %v", e.Section.Index, e.Section.Name, e.Err)
}

func (e *UnresolvedSegmentError) Unwrap() error { return e.Err }

func (e *UnresolvedSegmentError) Is(target error) bool {
	return target == ErrUnresolvedSegment
}

// Entry is one manifest line. Skipped is a playback hint carried over
// from the section; skipped sections are still listed.
type Entry struct {
	URI     string `json:"uri" yaml:"uri"`
	Name    string `json:"name" yaml:"name"`
	Index   int    `json:"index" yaml:"index"`
	Skipped bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Manifest is the exported, ordered list of entries.
type Manifest struct {
	Scene   string  `json:"scene,omitempty" yaml:"scene,omitempty"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// URIs returns the entry URIs in order.
func (m *Manifest) URIs() []string {
	uris := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		uris[i] = e.URI
	}
	return uris
}

// Export resolves every section in timeline order. It stops at the
// first section the locator cannot resolve.
func Export(tl sequencer.Timeline, loc Locator) (*Manifest, error) {
	m := &Manifest{Entries: make([]Entry, 0, len(tl))}
	for _, sec := range tl {
		uri, err := loc.Locate(sec)
		if err == nil && uri == "" {
			err = errors.New("empty uri")
		}
		if err != nil {
			var ue *UnresolvedSegmentError
			if errors.As(err, &ue) {
				return nil, err
			}
			return nil, &UnresolvedSegmentError{Section: sec, Err: err}
		}
		m.Entries = append(m.Entries, Entry{
			URI:     uri,
			Name:    sec.Name,
			Index:   sec.Index,
			Skipped: sec.Skipped,
		})
	}
	return m, nil
}
