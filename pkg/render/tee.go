package render

import (
	"time"

	"github.com/chazu/clipstage/pkg/scene"
)

// Tee forwards every call to each renderer in order and stops at the
// first error.
type Tee []scene.Renderer

func (t Tee) Create(p scene.Primitive) error {
	for _, r := range t {
		if err := r.Create(p); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Play(anims ...scene.Animation) error {
	for _, r := range t {
		if err := r.Play(anims...); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Wait(d time.Duration) error {
	for _, r := range t {
		if err := r.Wait(d); err != nil {
			return err
		}
	}
	return nil
}

// BeginSection announces the section to every Sectioned renderer and
// returns the first payload.
func (t Tee) BeginSection(index int, name string) any {
	var payload any
	for _, r := range t {
		if s, ok := r.(scene.Sectioned); ok {
			if p := s.BeginSection(index, name); payload == nil {
				payload = p
			}
		}
	}
	return payload
}
