package kernel

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. The typed errors below match them.
var (
	ErrDegenerateQuad  = errors.New("kernel: degenerate quad")
	ErrDegenerateFacet = errors.New("kernel: degenerate facet")
)

// DegenerateQuadError reports a quad/apex pair that cannot form a
// frustum. Edge is the offending edge index, or -1 when the problem is
// not tied to one edge.
type DegenerateQuadError struct {
	Edge   int
	Reason string
}

func (e *DegenerateQuadError) Error() string {
	if e.Edge >= 0 {
		return fmt.Sprintf("kernel: degenerate quad at edge %d: %s", e.Edge, e.Reason)
	}
	return "kernel: degenerate quad: " + e.Reason
}

func (e *DegenerateQuadError) Is(target error) bool {
	return target == ErrDegenerateQuad
}

// DegenerateFacetError reports a facet whose vertices are collinear.
type DegenerateFacetError struct {
	Edge int
}

func (e *DegenerateFacetError) Error() string {
	return fmt.Sprintf("kernel: degenerate facet %d: vertices are collinear", e.Edge)
}

func (e *DegenerateFacetError) Is(target error) bool {
	return target == ErrDegenerateFacet
}
