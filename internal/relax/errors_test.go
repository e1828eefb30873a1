package relax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	se := &ShapeError{What: "mask", Rows: 3, Cols: 4, WantRows: 5, WantCols: 5}
	assert.Equal(t, "relax: mask is 3x4, want 5x5", se.Error())

	pe := &ParamError{Name: "alpha", Value: 2.5, Reason: "must lie in (0, 2)"}
	assert.Equal(t, "relax: alpha=2.5 must lie in (0, 2)", pe.Error())

	assert.ErrorIs(t, se, ErrShapeMismatch)
	assert.ErrorIs(t, pe, ErrInvalidParameter)
}
