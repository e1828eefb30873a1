package relax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMasks(t *testing.T) {
	m := BorderMask(5)
	assert.Equal(t, 16, m.Count())
	assert.True(t, m.Fixed(0, 3))
	assert.False(t, m.Fixed(2, 2))
	assert.True(t, m.Fixed(-1, 2))

	m.Set(2, 2, true)
	m.Set(9, 9, true)
	assert.Equal(t, 17, m.Count())

	d := mat.NewDense(3, 4, []float64{
		1, 0, 0, 1,
		0, 0, 0, 0,
		0, 2, 0, 0,
	})
	fm := MaskFromDense(d)
	r, c := fm.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 3, fm.Count())
	assert.True(t, fm.Fixed(2, 1))

	b := Border(4)
	assert.True(t, b.Fixed(3, 1))
	assert.False(t, b.Fixed(1, 2))
}
