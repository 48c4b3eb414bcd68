// Command clipstage plays a frustum clipping lesson into a recorded
// render script, writes one file per section and exports the section
// manifest for the slide builder.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/chazu/clipstage/pkg/config"
	"github.com/fsnotify/fsnotify"
)

// LevelFromFlags maps the verbosity flags to a log level. vv wins over
// v, which wins over q. The default is Warn.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

type options struct {
	configPath string
	record     string
	preview    string
	watch      bool
	flags      config.Flags
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("clipstage", flag.ContinueOnError)
	fs.StringVar(&o.flags.Script, "script", "", "scene script (default: built-in lesson)")
	fs.StringVar(&o.configPath, "config", "", "TOML config file")
	fs.StringVar(&o.flags.Dir, "dir", "", "directory for section files")
	fs.StringVar(&o.flags.Manifest, "manifest", "", "manifest output path")
	fs.StringVar(&o.flags.Slides, "slides", "", "slide markup output path")
	fs.StringVar(&o.flags.Format, "format", "", "manifest format: json, yaml or slides")
	fs.BoolVar(&o.flags.NoSections, "no-sections", false, "disable sectioning; checkpoints pause instead")
	fs.StringVar(&o.record, "record", "", "write the full render script as JSON")
	fs.StringVar(&o.preview, "preview", "", "write preview meshes as JSON")
	fs.BoolVar(&o.watch, "watch", false, "re-run when the script changes")
	vv := fs.Bool("vv", false, "debug output")
	v := fs.Bool("v", false, "verbose output")
	q := fs.Bool("q", false, "only errors")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if *vv || *v || *q {
		o.flags.Level = LevelFromFlags(*vv, *v, *q)
		o.flags.LevelSet = true
	}
	return o, nil
}

func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(o.flags)
	return cfg, cfg.Validate()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "clipstage:", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))
	app := NewApp(cfg, log)

	if err := once(app, o, log); err != nil && !o.watch {
		return err
	}
	if !o.watch {
		return nil
	}
	if cfg.Script == "" {
		return errors.New("-watch needs -script")
	}
	paths := []string{cfg.Script}
	if o.configPath != "" {
		paths = append(paths, o.configPath)
	}
	w, wants, err := newWatcher(paths...)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Info("watching", "paths", wants)
	return watchLoop(ctx, w, wants, log, func(path string) {
		// A config change can move the script, the output or the level.
		cfg, err := loadConfig(o)
		if err != nil {
			log.Error("reload config", "path", path, "err", err)
			return
		}
		if err := once(NewApp(cfg, log), o, log); err != nil {
			log.Error("run failed", "err", err)
		}
	})
}

func once(app *App, o options, log *slog.Logger) error {
	res, err := app.RunOnce()
	if err != nil {
		var se *ScriptError
		if errors.As(err, &se) {
			for _, e := range se.Errors {
				log.Error("script error", "script", se.Path, "line", e.Line, "msg", e.Message)
			}
		}
		return err
	}
	if o.record != "" {
		if err := res.WriteRecord(o.record); err != nil {
			return fmt.Errorf("record: %w", err)
		}
	}
	if o.preview != "" {
		if err := res.WritePreview(o.preview); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	return nil
}

// watchSettle coalesces the burst of events an editor save produces.
const watchSettle = 100 * time.Millisecond

// newWatcher watches the parent directory of every path, so editors
// that replace a file by rename are followed. It returns the cleaned
// paths to match events against.
func newWatcher(paths ...string) (*fsnotify.Watcher, []string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("watch: %w", err)
	}
	dirs := make(map[string]bool)
	wants := make([]string, 0, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		wants = append(wants, p)
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, nil, fmt.Errorf("watch: %w", err)
		}
		dirs[dir] = true
	}
	return w, wants, nil
}

// watchLoop calls fn once a write to one of wants has settled, until
// ctx is done or the watcher is closed. fn gets the last path written.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, wants []string, log *slog.Logger, fn func(path string)) error {
	var settle <-chan time.Time
	var changed string
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !slices.Contains(wants, name) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				changed = name
				settle = time.After(watchSettle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		case <-settle:
			settle = nil
			log.Debug("file changed", "path", changed)
			fn(changed)
		}
	}
}
