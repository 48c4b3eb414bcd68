// Package config loads clipstage settings from TOML and merges command
// line overrides.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/clipstage/pkg/engine"
	"github.com/chazu/clipstage/pkg/manifest"
	"github.com/chazu/clipstage/pkg/preview"
	"github.com/chazu/clipstage/pkg/sequencer"
	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as a string ("1s", "250ms").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Locator kinds for [Export].
const (
	LocatorPayload = "payload"
	LocatorIndex   = "index"
	LocatorPattern = "pattern"
)

// Config holds all settings. The zero value is not useful; start from
// Default.
type Config struct {
	// Script is the scene script; empty runs the built-in lesson.
	Script string `toml:"script"`

	Sequencer Sequencer `toml:"sequencer"`
	Export    Export    `toml:"export"`
	Preview   Preview   `toml:"preview"`
	Engine    Engine    `toml:"engine"`
	Log       Log       `toml:"log"`
}

type Sequencer struct {
	Sectioning bool `toml:"sectioning"`
	// Skip marks recorded sections skippable for the player.
	Skip  bool     `toml:"skip"`
	Pause Duration `toml:"pause"`
}

type Export struct {
	// Dir holds the rendered section files.
	Dir string `toml:"dir"`
	// Locator is payload, index or pattern.
	Locator string `toml:"locator"`
	// Pattern is a fmt pattern taking the scene name and section index.
	Pattern     string `toml:"pattern"`
	CheckExists bool   `toml:"check_exists"`

	Manifest   string `toml:"manifest"`
	Format     string `toml:"format"`
	Slides     string `toml:"slides"`
	Background string `toml:"background"`
}

type Preview struct {
	Cells  int     `toml:"cells"`
	Radius float64 `toml:"radius"`
	Dot    float64 `toml:"dot"`
}

type Engine struct {
	Timeout Duration `toml:"timeout"`
}

type Log struct {
	Level slog.Level `toml:"level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Sequencer: Sequencer{
			Sectioning: true,
			Skip:       true,
			Pause:      Duration(sequencer.DefaultPause),
		},
		Export: Export{
			Dir:         "media",
			Locator:     LocatorPayload,
			Pattern:     "%s_%04d.json",
			CheckExists: true,
			Format:      string(manifest.FormatJSON),
			Background:  manifest.DefaultBackground,
		},
		Preview: Preview{
			Cells:  preview.DefaultCells,
			Radius: preview.DefaultRadius,
			Dot:    preview.DefaultDot,
		},
		Engine: Engine{Timeout: Duration(engine.EvalTimeout)},
		Log:    Log{Level: slog.LevelWarn},
	}
}

// Load reads a TOML file over Default. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Flags holds command line values that override file settings.
type Flags struct {
	Script     string
	Dir        string
	Manifest   string
	Slides     string
	Format     string
	NoSections bool
	// Level is applied when LevelSet is true.
	Level    slog.Level
	LevelSet bool
}

// Resolve applies flags over the file settings, then fills any empty
// field with its default. Relative export paths are resolved against
// the export directory.
func (c *Config) Resolve(flags Flags) {
	if flags.Script != "" {
		c.Script = flags.Script
	}
	if flags.Dir != "" {
		c.Export.Dir = flags.Dir
	}
	if flags.Manifest != "" {
		c.Export.Manifest = flags.Manifest
	}
	if flags.Slides != "" {
		c.Export.Slides = flags.Slides
	}
	if flags.Format != "" {
		c.Export.Format = flags.Format
	}
	if flags.NoSections {
		c.Sequencer.Sectioning = false
	}
	if flags.LevelSet {
		c.Log.Level = flags.Level
	}

	def := Default()
	if c.Export.Dir == "" {
		c.Export.Dir = def.Export.Dir
	}
	if c.Export.Locator == "" {
		c.Export.Locator = def.Export.Locator
	}
	if c.Export.Pattern == "" {
		c.Export.Pattern = def.Export.Pattern
	}
	if c.Export.Format == "" {
		c.Export.Format = def.Export.Format
	}
	if c.Export.Background == "" {
		c.Export.Background = def.Export.Background
	}
	if c.Sequencer.Pause <= 0 {
		c.Sequencer.Pause = def.Sequencer.Pause
	}
	if c.Engine.Timeout <= 0 {
		c.Engine.Timeout = def.Engine.Timeout
	}
	if c.Preview.Cells <= 0 {
		c.Preview.Cells = def.Preview.Cells
	}

	for _, p := range []*string{&c.Export.Manifest, &c.Export.Slides} {
		if *p != "" && !filepath.IsAbs(*p) && filepath.Dir(*p) == "." {
			*p = filepath.Join(c.Export.Dir, *p)
		}
	}
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if _, err := manifest.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("config: export.format: %w", err)
	}
	switch c.Export.Locator {
	case LocatorPayload, LocatorIndex, LocatorPattern:
	default:
		return fmt.Errorf("config: export.locator: unknown locator %q", c.Export.Locator)
	}
	if c.Preview.Cells < 0 {
		return fmt.Errorf("config: preview.cells: must not be negative, got %d", c.Preview.Cells)
	}
	return nil
}

// SequencerConfig converts the sequencer section.
func (c Config) SequencerConfig() sequencer.Config {
	cfg := sequencer.Config{Pause: time.Duration(c.Sequencer.Pause)}
	if !c.Sequencer.Sectioning {
		cfg.Sectioning = sequencer.SectioningDisabled
	}
	if !c.Sequencer.Skip {
		cfg.SkipPolicy = sequencer.SkipPolicyRecord
	}
	return cfg
}

// PreviewOptions converts the preview section.
func (c Config) PreviewOptions() preview.Options {
	return preview.Options{Cells: c.Preview.Cells, Radius: c.Preview.Radius, Dot: c.Preview.Dot}
}

// Locator builds the segment locator for the named scene. The index
// locator reads the renderer's section index from the export directory.
func (c Config) Locator(sceneName string) (manifest.Locator, error) {
	switch c.Export.Locator {
	case LocatorPayload:
		return manifest.PayloadLocator{Dir: c.Export.Dir, CheckExists: c.Export.CheckExists}, nil
	case LocatorIndex:
		idx, err := manifest.LoadIndex(manifest.IndexPath(c.Export.Dir, sceneName))
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return manifest.IndexLocator{Dir: c.Export.Dir, Index: idx, CheckExists: c.Export.CheckExists}, nil
	case LocatorPattern:
		return manifest.PatternLocator{Dir: c.Export.Dir, Scene: sceneName, Pattern: c.Export.Pattern, CheckExists: c.Export.CheckExists}, nil
	}
	return nil, fmt.Errorf("config: unknown locator %q", c.Export.Locator)
}
