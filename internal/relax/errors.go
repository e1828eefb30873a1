package relax

import (
	"errors"
	"fmt"
)

// Domain errors for solver setup.
var (
	// ErrShapeMismatch indicates the grid, mask and source dimensions disagree.
	ErrShapeMismatch = errors.New("relax: shape mismatch between grid, mask and source")

	// ErrInvalidParameter indicates a relaxation parameter outside its valid range.
	ErrInvalidParameter = errors.New("relax: invalid parameter")
)

// ShapeError names the operand whose dimensions do not fit the grid.
type ShapeError struct {
	What               string
	Rows, Cols         int
	WantRows, WantCols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("relax: %s is %dx%d, want %dx%d", e.What, e.Rows, e.Cols, e.WantRows, e.WantCols)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// ParamError reports a rejected parameter value.
type ParamError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("relax: %s=%g %s", e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
