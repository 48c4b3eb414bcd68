package sequencer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendOrder(t *testing.T) {
	for _, n := range []int{0, 1, 5, 23} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := New(Config{})
			for i := 0; i < n; i++ {
				require.NoError(t, s.BeginSection(fmt.Sprintf("step-%d", i)))
				require.NoError(t, s.Checkpoint())
			}
			tl, err := s.Finalize()
			require.NoError(t, err)
			require.Len(t, tl, n)
			for i, sec := range tl {
				assert.Equal(t, i, sec.Index)
				assert.Equal(t, fmt.Sprintf("step-%d", i), sec.Name)
			}
		})
	}
}

func TestNoDeduplication(t *testing.T) {
	s := New(Config{SkipPolicy: SkipPolicyRecord})
	for i := 0; i < 3; i++ {
		require.NoError(t, s.BeginSection("facet-normal"))
	}
	tl, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"facet-normal", "facet-normal", "facet-normal"}, tl.Names())
}

func TestSkipPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy SkipPolicy
		force  bool
		want   bool
	}{
		{"skip", SkipPolicySkip, false, true},
		{"skip forced", SkipPolicySkip, true, false},
		{"record", SkipPolicyRecord, false, false},
		{"record forced", SkipPolicyRecord, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{SkipPolicy: tt.policy})
			var opts []SectionOption
			if tt.force {
				opts = append(opts, Force())
			}
			require.NoError(t, s.BeginSection("a", opts...))
			tl, err := s.Finalize()
			require.NoError(t, err)
			require.Len(t, tl, 1)
			assert.Equal(t, tt.want, tl[0].Skipped)
		})
	}
}

func TestDisabledSectioningPauses(t *testing.T) {
	var waits []time.Duration
	p := PauserFunc(func(d time.Duration) error {
		waits = append(waits, d)
		return nil
	})
	s := New(Config{Sectioning: SectioningDisabled}, WithPauser(p))

	require.NoError(t, s.BeginSection("a"))
	require.NoError(t, s.Checkpoint())
	require.NoError(t, s.BeginSection("b"))
	require.NoError(t, s.Checkpoint())
	assert.Equal(t, -1, s.Current())

	tl, err := s.Finalize()
	require.NoError(t, err)
	assert.Empty(t, tl)
	assert.Equal(t, []time.Duration{DefaultPause, DefaultPause}, waits)
}

func TestDisabledSectioningCustomPause(t *testing.T) {
	var got time.Duration
	s := New(Config{Sectioning: SectioningDisabled, Pause: 100 * time.Millisecond},
		WithPauser(PauserFunc(func(d time.Duration) error { got = d; return nil })))
	require.NoError(t, s.Checkpoint())
	assert.Equal(t, 100*time.Millisecond, got)
}

func TestPauseErrorSurfaces(t *testing.T) {
	boom := errors.New("renderer gone")
	s := New(Config{Sectioning: SectioningDisabled},
		WithPauser(PauserFunc(func(time.Duration) error { return boom })))
	err := s.Checkpoint()
	assert.ErrorIs(t, err, boom)
}

func TestEnabledCheckpointDoesNotPause(t *testing.T) {
	called := false
	s := New(Config{}, WithPauser(PauserFunc(func(time.Duration) error { called = true; return nil })))
	require.NoError(t, s.BeginSection("a"))
	require.NoError(t, s.Checkpoint())
	assert.False(t, called)
}

func TestAnnotate(t *testing.T) {
	s := New(Config{})
	require.NoError(t, s.Annotate("ignored"))

	require.NoError(t, s.BeginSection("a"))
	assert.Equal(t, 0, s.Current())
	require.NoError(t, s.Annotate("Q1_0000.mp4"))
	require.NoError(t, s.Checkpoint())
	assert.Equal(t, -1, s.Current())
	require.NoError(t, s.Annotate("too late"))

	tl, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "Q1_0000.mp4", tl[0].Payload)
}

func TestClosedSequencer(t *testing.T) {
	s := New(Config{})
	require.NoError(t, s.BeginSection("a"))
	tl, err := s.Finalize()
	require.NoError(t, err)
	require.Len(t, tl, 1)

	assert.ErrorIs(t, s.BeginSection("b"), ErrSequencerClosed)
	assert.ErrorIs(t, s.Checkpoint(), ErrSequencerClosed)
	assert.ErrorIs(t, s.Annotate(1), ErrSequencerClosed)
	_, err = s.Finalize()
	assert.ErrorIs(t, err, ErrSequencerClosed)

	// The returned timeline is a copy.
	tl[0].Name = "mutated"
	assert.Equal(t, 1, s.Len())
}

func TestDeterministic(t *testing.T) {
	run := func() Timeline {
		s := New(Config{SkipPolicy: SkipPolicySkip})
		for _, name := range []string{"axes", "plane", "line"} {
			_ = s.BeginSection(name, Force())
			_ = s.Checkpoint()
			_ = s.BeginSection(name + "-detail")
		}
		tl, _ := s.Finalize()
		return tl
	}
	assert.Equal(t, run(), run())
}

func TestTimelineHelpers(t *testing.T) {
	tl := Timeline{
		{Name: "a", Index: 0, Skipped: true},
		{Name: "b", Index: 1},
		{Name: "c", Index: 2, Skipped: true},
	}
	assert.Equal(t, 2, tl.Skipped())
	sec, ok := tl.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, 1, sec.Index)
	_, ok = tl.Lookup("z")
	assert.False(t, ok)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "enabled", SectioningEnabled.String())
	assert.Equal(t, "disabled", SectioningDisabled.String())
	assert.Equal(t, "skip", SkipPolicySkip.String())
	assert.Equal(t, "record", SkipPolicyRecord.String())
}
