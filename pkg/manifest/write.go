package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
	"gopkg.in/yaml.v3"
)

// Format selects a manifest encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSlides Format = "slides"
)

// ParseFormat accepts json, yaml/yml and slides/html.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "slides", "html":
		return FormatSlides, nil
	}
	return "", fmt.Errorf("manifest: unknown format %q", s)
}

// DefaultBackground is the slide background color behind each video.
const DefaultBackground = "black"

// slideTemplate is one reveal.js slide per section.
const slideTemplate = `
<section data-background-video="{{video}}" data-autoplay data-preload data-background-color="{{background}}"></section>
`

// SlideOptions configures WriteSlides.
type SlideOptions struct {
	Background string
}

// WriteJSON writes the manifest as indented JSON.
func WriteJSON(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("manifest: encode json: %w", err)
	}
	return nil
}

// WriteYAML writes the manifest as YAML.
func WriteYAML(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("manifest: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("manifest: encode yaml: %w", err)
	}
	return nil
}

// WriteSlides writes one <section> tag per entry, in manifest order.
func WriteSlides(w io.Writer, m *Manifest, opts SlideOptions) error {
	bg := opts.Background
	if bg == "" {
		bg = DefaultBackground
	}
	t := fasttemplate.New(slideTemplate, "{{", "}}")
	for _, e := range m.Entries {
		_, err := t.Execute(w, map[string]interface{}{
			"video":      html.EscapeString(e.URI),
			"background": html.EscapeString(bg),
		})
		if err != nil {
			return fmt.Errorf("manifest: write slide %d: %w", e.Index, err)
		}
	}
	return nil
}

// Encode writes m in the given format.
func Encode(w io.Writer, m *Manifest, f Format, opts SlideOptions) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, m)
	case FormatYAML:
		return WriteYAML(w, m)
	case FormatSlides:
		return WriteSlides(w, m, opts)
	}
	return fmt.Errorf("manifest: unknown format %q", f)
}

// Save encodes m and writes it to path.
func Save(path string, m *Manifest, f Format, opts SlideOptions) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m, f, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

// Load reads a JSON or YAML manifest written by Save.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m Manifest
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return &m, nil
}
