package fit

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the marginal posterior of one parameter by its median
// and the 16th and 84th percentiles.
type Summary struct {
	Name                 string
	Median, Lower, Upper float64
}

// Minus returns Median - Lower.
func (s Summary) Minus() float64 { return s.Median - s.Lower }

// Plus returns Upper - Median.
func (s Summary) Plus() float64 { return s.Upper - s.Median }

// Summarize computes a Summary for every column of posterior samples. cols[i]
// holds the samples of names[i]. Percentiles interpolate linearly between
// neighboring sorted samples.
func Summarize(names []string, cols [][]float64) ([]Summary, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%w: %d names but %d columns",
			ErrDimension, len(names), len(cols))
	}

	out := make([]Summary, len(names))
	for i := range cols {
		if len(cols[i]) == 0 {
			return nil, fmt.Errorf("there are no samples of '%s'", names[i])
		}
		xs := append([]float64(nil), cols[i]...)
		sort.Float64s(xs)

		out[i] = Summary{
			Name:   names[i],
			Lower:  stat.Quantile(0.16, stat.LinInterp, xs, nil),
			Median: stat.Quantile(0.5, stat.LinInterp, xs, nil),
			Upper:  stat.Quantile(0.84, stat.LinInterp, xs, nil),
		}
	}
	return out, nil
}
