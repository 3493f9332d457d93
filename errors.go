package starchart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/starchart/internal/rings"
)

// FieldIssue is one invalid or missing scene field.
type FieldIssue struct {
	// Field is the dotted path of the field, e.g. "rings[2].width".
	Field  string
	Reason string
}

func (f FieldIssue) String() string { return f.Field + ": " + f.Reason }

// ConfigValidationError lists every problem found in a scene. Rendering
// never starts when validation fails.
type ConfigValidationError struct {
	Issues []FieldIssue
}

func (e *ConfigValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "starchart: invalid scene: " + e.Issues[0].String()
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("starchart: invalid scene (%d issues): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Has reports whether field is among the issues.
func (e *ConfigValidationError) Has(field string) bool {
	for _, is := range e.Issues {
		if is.Field == field {
			return true
		}
	}
	return false
}

// Geometry failure reasons.
const (
	ReasonBehindCamera = "behind camera"
	ReasonNonFinite    = "non-finite geometry"
	ReasonDegenerate   = "degenerate ring"
)

// GeometryError is a fatal projection failure for one ring. Ring is -1 for
// free labels.
type GeometryError struct {
	Ring   int
	Reason string
	Err    error
}

func (e *GeometryError) Error() string {
	if e.Ring < 0 {
		return fmt.Sprintf("starchart: free labels: %s", e.Reason)
	}
	return fmt.Sprintf("starchart: ring %d: %s", e.Ring, e.Reason)
}

func (e *GeometryError) Unwrap() error { return e.Err }

func newGeometryError(ring int, err error) *GeometryError {
	reason := ReasonNonFinite
	switch {
	case errors.Is(err, rings.ErrBehindCamera):
		reason = ReasonBehindCamera
	case errors.Is(err, rings.ErrDegenerate):
		reason = ReasonDegenerate
	}
	return &GeometryError{Ring: ring, Reason: reason, Err: err}
}

// PlacementOverflow is a non-fatal warning: the ring could not hold all
// of its labels and the listed ones were moved to leader lines.
type PlacementOverflow struct {
	Ring   int
	Labels []string
}

func (w PlacementOverflow) String() string {
	return fmt.Sprintf("ring %d: %d label(s) moved to leader lines: %s",
		w.Ring, len(w.Labels), strings.Join(w.Labels, ", "))
}

// CancellationError reports a render stopped by its context before Stage.
// errors.Is(err, context.Canceled) holds for a cancelled context.
type CancellationError struct {
	Stage string
	Err   error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("starchart: render cancelled before %s: %v", e.Stage, e.Err)
}

func (e *CancellationError) Unwrap() error { return e.Err }
