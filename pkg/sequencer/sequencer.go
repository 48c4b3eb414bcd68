// Package sequencer partitions a long scene procedure into named,
// ordered sections. A Sequencer is a single-writer state machine: it
// records sections in call order until Finalize returns the Timeline.
package sequencer

import (
	"errors"
	"fmt"
	"time"
)

// ErrSequencerClosed is returned by every method called after Finalize.
var ErrSequencerClosed = errors.New("sequencer: closed")

// DefaultPause is the real-time pause a checkpoint inserts when
// sectioning is disabled.
const DefaultPause = time.Second

// Sectioning selects whether section boundaries are recorded at all.
type Sectioning int

const (
	SectioningEnabled Sectioning = iota
	SectioningDisabled
)

func (s Sectioning) String() string {
	switch s {
	case SectioningEnabled:
		return "enabled"
	case SectioningDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("Sectioning(%d)", int(s))
	}
}

// SkipPolicy selects how recorded sections are marked for the player.
type SkipPolicy int

const (
	SkipPolicySkip   SkipPolicy = iota // sections are skippable on replay
	SkipPolicyRecord                   // sections play in full
)

func (p SkipPolicy) String() string {
	switch p {
	case SkipPolicySkip:
		return "skip"
	case SkipPolicyRecord:
		return "record"
	default:
		return fmt.Sprintf("SkipPolicy(%d)", int(p))
	}
}

// Config is fixed at construction.
type Config struct {
	Sectioning Sectioning
	SkipPolicy SkipPolicy
	// Pause is the checkpoint pause used when sectioning is disabled.
	// Zero means DefaultPause.
	Pause time.Duration
}

// Pauser performs the fixed pause of a non-sectioned checkpoint. The
// renderer usually provides it; the sequencer never sleeps itself.
type Pauser interface {
	Wait(d time.Duration) error
}

// PauserFunc adapts a function to Pauser.
type PauserFunc func(d time.Duration) error

func (f PauserFunc) Wait(d time.Duration) error { return f(d) }

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithPauser sets the Pauser used by non-sectioned checkpoints.
func WithPauser(p Pauser) Option {
	return func(s *Sequencer) { s.pauser = p }
}

// SectionOption configures a single BeginSection call.
type SectionOption func(*sectionOpts)

type sectionOpts struct {
	force bool
}

// Force records the section as never skipped, regardless of the skip
// policy.
func Force() SectionOption {
	return func(o *sectionOpts) { o.force = true }
}

// Sequencer records sections. It is not safe for concurrent use.
type Sequencer struct {
	cfg    Config
	pauser Pauser

	sections []Section
	open     bool
	closed   bool
}

// New returns a recording Sequencer.
func New(cfg Config, opts ...Option) *Sequencer {
	if cfg.Pause == 0 {
		cfg.Pause = DefaultPause
	}
	s := &Sequencer{cfg: cfg}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Config returns the construction-time configuration.
func (s *Sequencer) Config() Config {
	return s.cfg
}

// BeginSection closes the open section, if any, and appends a new one
// with the next index. With sectioning disabled nothing is recorded.
func (s *Sequencer) BeginSection(name string, opts ...SectionOption) error {
	if s.closed {
		return fmt.Errorf("begin section %q: %w", name, ErrSequencerClosed)
	}
	if s.cfg.Sectioning == SectioningDisabled {
		return nil
	}
	var o sectionOpts
	for _, opt := range opts {
		opt(&o)
	}
	s.sections = append(s.sections, Section{
		Name:    name,
		Index:   len(s.sections),
		Skipped: !o.force && s.cfg.SkipPolicy == SkipPolicySkip,
	})
	s.open = true
	return nil
}

// Checkpoint ends the open section. With sectioning disabled it instead
// asks the Pauser for the configured pause.
func (s *Sequencer) Checkpoint() error {
	if s.closed {
		return fmt.Errorf("checkpoint: %w", ErrSequencerClosed)
	}
	if s.cfg.Sectioning == SectioningDisabled {
		if s.pauser == nil {
			return nil
		}
		if err := s.pauser.Wait(s.cfg.Pause); err != nil {
			return fmt.Errorf("sequencer: pause: %w", err)
		}
		return nil
	}
	s.open = false
	return nil
}

// Annotate attaches an opaque payload to the open section. It is a
// no-op when no section is open.
func (s *Sequencer) Annotate(payload any) error {
	if s.closed {
		return fmt.Errorf("annotate: %w", ErrSequencerClosed)
	}
	if !s.open || len(s.sections) == 0 {
		return nil
	}
	s.sections[len(s.sections)-1].Payload = payload
	return nil
}

// Current returns the index of the open section, or -1.
func (s *Sequencer) Current() int {
	if !s.open {
		return -1
	}
	return len(s.sections) - 1
}

// Len returns the number of sections recorded so far.
func (s *Sequencer) Len() int {
	return len(s.sections)
}

// Finalize closes the last section and returns the Timeline. The
// sequencer rejects every call afterwards, including a second Finalize.
func (s *Sequencer) Finalize() (Timeline, error) {
	if s.closed {
		return nil, fmt.Errorf("finalize: %w", ErrSequencerClosed)
	}
	s.open = false
	s.closed = true
	tl := make(Timeline, len(s.sections))
	copy(tl, s.sections)
	return tl, nil
}
