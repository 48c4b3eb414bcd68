package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chazu/clipstage/pkg/config"
	"github.com/chazu/clipstage/pkg/engine"
	"github.com/chazu/clipstage/pkg/manifest"
	"github.com/chazu/clipstage/pkg/preview"
	"github.com/chazu/clipstage/pkg/render"
	"github.com/chazu/clipstage/pkg/scene"
	"github.com/chazu/clipstage/pkg/sequencer"
)

// ScriptError carries the eval errors of a script that did not produce
// a scene.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(msgs, "; "))
}

// App ties the engine, the scene runner and the exporters together.
type App struct {
	cfg    config.Config
	engine *engine.Engine
	log    *slog.Logger
}

// Result is the output of one run.
type Result struct {
	Spec     *scene.Spec
	Timeline sequencer.Timeline
	// Manifest is nil when sectioning is disabled.
	Manifest *manifest.Manifest
	Recorder *render.Recorder
	Preview  *preview.Renderer
}

// NewApp returns an App for cfg. A nil log discards output.
func NewApp(cfg config.Config, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	eng := engine.NewEngine()
	eng.Timeout = time.Duration(cfg.Engine.Timeout)
	return &App{cfg: cfg, engine: eng, log: log}
}

// Evaluate turns source into a scene, logging advisory findings.
// Script errors are returned as *ScriptError.
func (a *App) Evaluate(path, source string) (*scene.Spec, error) {
	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(res.Errors) > 0 {
		return nil, &ScriptError{Path: path, Errors: res.Errors}
	}
	for _, w := range res.Warnings {
		a.log.Warn("scene check", "script", path, "step", w.Step, "msg", w.Message)
	}
	return res.Spec, nil
}

// LoadSpec evaluates the configured script, or returns the built-in
// lesson when none is set.
func (a *App) LoadSpec() (*scene.Spec, error) {
	if a.cfg.Script == "" {
		a.log.Info("no script given, using built-in lesson", "scene", scene.LessonName)
		return scene.FrustumClipLesson(), nil
	}
	src, err := os.ReadFile(a.cfg.Script)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return a.Evaluate(a.cfg.Script, string(src))
}

// Run plays spec into a recorder and a preview renderer, writes the
// per-section output and exports the manifest.
func (a *App) Run(spec *scene.Spec) (*Result, error) {
	res := &Result{
		Spec:     spec,
		Recorder: render.NewRecorder(spec.Name),
		Preview:  preview.New(a.cfg.PreviewOptions()),
	}
	tee := render.Tee{res.Recorder, res.Preview}

	seq := sequencer.New(a.cfg.SequencerConfig(), sequencer.WithPauser(sequencer.PauserFunc(tee.Wait)))
	st, err := scene.NewStage(spec, tee, seq, a.log)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res.Timeline, err = scene.Run(st)
	if err != nil {
		return nil, err
	}
	a.log.Info("scene played", "scene", spec.Name, "sections", len(res.Timeline), "calls", len(res.Recorder.Script()), "elapsed", time.Since(start))

	if !a.cfg.Sequencer.Sectioning {
		return res, nil
	}
	if err := res.Recorder.WriteSections(a.cfg.Export.Dir); err != nil {
		return nil, err
	}
	loc, err := a.cfg.Locator(spec.Name)
	if err != nil {
		return nil, err
	}
	res.Manifest, err = manifest.Export(res.Timeline, loc)
	if err != nil {
		return nil, err
	}
	res.Manifest.Scene = spec.Name
	if err := a.save(res.Manifest); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *App) save(m *manifest.Manifest) error {
	opts := manifest.SlideOptions{Background: a.cfg.Export.Background}
	if path := a.cfg.Export.Manifest; path != "" {
		f, err := manifest.ParseFormat(a.cfg.Export.Format)
		if err != nil {
			return err
		}
		if err := manifest.Save(path, m, f, opts); err != nil {
			return err
		}
		a.log.Info("manifest written", "path", path, "format", f, "entries", len(m.Entries))
	}
	if path := a.cfg.Export.Slides; path != "" {
		if err := manifest.Save(path, m, manifest.FormatSlides, opts); err != nil {
			return err
		}
		a.log.Info("slides written", "path", path)
	}
	return nil
}

// RunOnce loads the configured scene and runs it.
func (a *App) RunOnce() (*Result, error) {
	spec, err := a.LoadSpec()
	if err != nil {
		return nil, err
	}
	return a.Run(spec)
}

// WriteRecord writes the full render script to path.
func (r *Result) WriteRecord(path string) error {
	return writeFile(path, r.Recorder.WriteJSON)
}

// WritePreview writes the meshes left on screen at the end to path.
func (r *Result) WritePreview(path string) error {
	return writeFile(path, r.Preview.WriteJSON)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		return errors.Join(err, f.Close())
	}
	return f.Close()
}
