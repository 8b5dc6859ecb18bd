package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		// 1..100 in a scrambled order.
		xs[i] = float64((i*37)%100 + 1)
	}
	ys := make([]float64, 100)
	for i := range ys {
		ys[i] = 2 * xs[i]
	}

	sums, err := Summarize([]string{"x", "y"}, [][]float64{xs, ys})
	require.NoError(t, err)
	require.Len(t, sums, 2)

	assert.Equal(t, Summary{Name: "x", Lower: 16, Median: 50, Upper: 84},
		sums[0])
	assert.Equal(t, 34.0, sums[0].Minus())
	assert.Equal(t, 34.0, sums[0].Plus())
	assert.Equal(t, 100.0, sums[1].Median)

	// The input must not be reordered.
	assert.Equal(t, 1.0, xs[0])
	assert.Equal(t, 38.0, xs[1])
}

func TestSummarizeInterpolates(t *testing.T) {
	sums, err := Summarize([]string{"x"}, [][]float64{{4, 2, 1, 3}})
	require.NoError(t, err)

	assert.Equal(t, 1.0, sums[0].Lower)
	assert.Equal(t, 2.0, sums[0].Median)
	// 0.84 * 4 = 3.36 sits 36% of the way from the third to fourth sample.
	assert.InDelta(t, 3.36, sums[0].Upper, 1e-12)
}

func TestSummarizeErrors(t *testing.T) {
	_, err := Summarize([]string{"x"}, nil)
	assert.ErrorIs(t, err, ErrDimension)
	_, err = Summarize([]string{"x"}, [][]float64{{}})
	assert.Error(t, err)
}
