package tensor

import (
	"errors"
	"fmt"
)

// ErrShape is matched by every shape validation failure.
//
//	if errors.Is(err, tensor.ErrShape) { ... }
var ErrShape = errors.New("shape error")

// ShapeError describes an input geometry a layer cannot accept.
//
// It is returned synchronously from layer initialization and is always
// fatal to the enclosing network build.
type ShapeError struct {
	Layer  string // Layer kind (e.g., "maxpool", "dense")
	Input  Shape  // Offending input shape
	Reason string // Human-readable constraint that failed
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Input == nil {
		return fmt.Sprintf("%s: %s", e.Layer, e.Reason)
	}
	return fmt.Sprintf("%s: input shape %v: %s", e.Layer, e.Input, e.Reason)
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// NewShapeError creates a ShapeError with a formatted reason.
func NewShapeError(layer string, input Shape, format string, args ...any) *ShapeError {
	return &ShapeError{
		Layer:  layer,
		Input:  input.Clone(),
		Reason: fmt.Sprintf(format, args...),
	}
}
