// Package clip intersects parametric lines with implicit planes and
// clips a line against the region between two planes.
//
// Parallel lines, lines lying in a plane and empty clips are ordinary
// outcomes, not errors; callers branch on the returned Outcome.
package clip

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/clipstage/pkg/geom"
)

// Outcome classifies the result of an intersection or clip query.
type Outcome int

const (
	Hit            Outcome = iota // single intersection parameter
	NoIntersection                // line parallel to the plane, off the plane
	Coincident                    // line lies in the plane; every t solves
	Clipped                       // non-empty visible sub-segment
	EmptyClip                     // the line misses the clipping region
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case NoIntersection:
		return "no-intersection"
	case Coincident:
		return "coincident"
	case Clipped:
		return "clipped"
	case EmptyClip:
		return "empty-clip"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Event is the intersection of a line with a plane. Index is the
// position of the plane among the arguments of ClipSegment (0 for low,
// 1 for high); Intersect leaves it 0.
type Event struct {
	T     float64    `json:"t"`
	Point geom.Vec3  `json:"point"`
	Plane geom.Plane `json:"plane"`
	Index int        `json:"index"`
}

// InDomain reports whether the event lies on the visible part of l.
// An out-of-domain event is still a valid intersection.
func (e Event) InDomain(l geom.ParametricLine) bool {
	return l.Domain.Contains(e.T)
}

// Result is returned by Intersect. Event is only meaningful when
// Outcome is Hit.
type Result struct {
	Outcome Outcome
	Event   Event
}

// Intersect solves normal·(origin + t·direction) = normal·point for t.
func Intersect(l geom.ParametricLine, p geom.Plane) Result {
	denom := p.Normal.Dot(l.Direction)
	num := p.Normal.Dot(p.Point.Sub(l.Origin))

	scale := p.Normal.Length() * l.Direction.Length()
	if math.Abs(denom) <= geom.Epsilon*scale {
		if p.Contains(l.Origin) {
			return Result{Outcome: Coincident}
		}
		return Result{Outcome: NoIntersection}
	}

	t := num / denom
	return Result{
		Outcome: Hit,
		Event:   Event{T: t, Point: l.At(t), Plane: p},
	}
}

// Segment is the result of clipping a line against two planes. Low and
// High are sorted by T, independent of which plane produced them.
type Segment struct {
	Low     Event       `json:"low"`
	High    Event       `json:"high"`
	Visible geom.Domain `json:"visible"`
}

// TLow returns the smaller intersection parameter.
func (s Segment) TLow() float64 { return s.Low.T }

// THigh returns the larger intersection parameter.
func (s Segment) THigh() float64 { return s.High.T }

// Event returns the event produced by the i-th plane passed to
// ClipSegment.
func (s Segment) Event(i int) Event {
	if s.Low.Index == i {
		return s.Low
	}
	return s.High
}

// ClipSegment intersects l with both planes and returns the parameters
// in ascending order together with the visible interval
// [max(tMin, tLow), min(tMax, tHigh)].
//
// The outcome is Clipped or EmptyClip; if either plane is parallel to
// the line, that plane's NoIntersection or Coincident outcome is
// returned instead and the segment is zero.
func ClipSegment(l geom.ParametricLine, low, high geom.Plane) (Segment, Outcome) {
	events := make([]Event, 0, 2)
	for i, p := range []geom.Plane{low, high} {
		r := Intersect(l, p)
		if r.Outcome != Hit {
			return Segment{}, r.Outcome
		}
		r.Event.Index = i
		events = append(events, r.Event)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].T < events[j].T })

	seg := Segment{Low: events[0], High: events[1]}
	seg.Visible = l.Domain.Intersect(geom.Domain{Min: seg.Low.T, Max: seg.High.T})
	if seg.Visible.Empty() {
		return seg, EmptyClip
	}
	return seg, Clipped
}

// Split partitions l's domain around the visible interval into the
// part before it, the visible part, and the part after it. Before and
// After are empty when the visible interval touches the domain ends.
func (s Segment) Split(l geom.ParametricLine) (before, visible, after geom.Domain) {
	before = geom.Domain{Min: l.Domain.Min, Max: s.Visible.Min}
	visible = s.Visible
	after = geom.Domain{Min: s.Visible.Max, Max: l.Domain.Max}
	if before.Max <= before.Min {
		before = geom.Domain{Min: 1, Max: 0}
	}
	if after.Max <= after.Min {
		after = geom.Domain{Min: 1, Max: 0}
	}
	return before, visible, after
}
