package relax

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimalAlpha(t *testing.T) {
	assert.InDelta(t, 2/(1+math.Sin(math.Pi/24)), OptimalAlpha(25), 1e-15)
	assert.InDelta(t, 1.769, OptimalAlpha(25), 1e-3)

	for _, n := range []int{7, 25, 100} {
		a := OptimalAlpha(n)
		assert.Greater(t, a, 1.0)
		assert.Less(t, a, 2.0)
	}
}

func TestVariantConfigs(t *testing.T) {
	l := LaplaceConfig(7, 1.1)
	assert.Equal(t, 1e-6, l.Tolerance)
	assert.Equal(t, 30, l.MaxSweeps)
	assert.Equal(t, []Point{{3, 1}, {3, 3}, {3, 5}}, l.Samples)

	p := PoissonConfig(25)
	assert.Equal(t, 1e-12, p.Tolerance)
	assert.Equal(t, 100, p.MaxSweeps)
	assert.Nil(t, p.Samples)
	assert.Equal(t, p, FluidConfig(25))
}

func TestParseTraversal(t *testing.T) {
	tests := []struct {
		in   string
		want Traversal
	}{
		{"", Descending},
		{"descending", Descending},
		{"ASC", Ascending},
		{"red-black", RedBlack},
		{"rb", RedBlack},
	}
	for _, tt := range tests {
		got, err := ParseTraversal(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, tr := range []Traversal{Descending, Ascending, RedBlack} {
		got, err := ParseTraversal(tr.String())
		require.NoError(t, err)
		assert.Equal(t, tr, got)
	}

	_, err := ParseTraversal("spiral")
	require.ErrorIs(t, err, ErrInvalidParameter)
}
