package fit

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snfit/snfit/cosmo"
)

var truth = cosmo.Point{cosmo.NameM: -3, cosmo.NameOmegaM: 0.3}

// syntheticFlat returns noise-free observations of the flat model at truth.
func syntheticFlat(t *testing.T) (zs, mus, errs []float64) {
	t.Helper()
	for z := 0.05; z < 1.5; z += 0.05 {
		zs = append(zs, z)
		errs = append(errs, 0.1+0.1*z)
	}
	mus = make([]float64, len(zs))
	require.NoError(t, cosmo.NewModel(cosmo.Flat).DistanceModuli(zs, truth, mus))
	return zs, mus, errs
}

func defaultBounds(r cosmo.Regime) []Bound {
	out := []Bound{}
	for _, b := range r.DefaultBounds() {
		out = append(out, Bound{b[0], b[1]})
	}
	return out
}

func newFlatEstimator(t *testing.T) *Estimator {
	t.Helper()
	zs, mus, errs := syntheticFlat(t)
	est, err := NewEstimator(zs, mus, errs, cosmo.Flat.Names(),
		defaultBounds(cosmo.Flat), cosmo.NewModel(cosmo.Flat))
	require.NoError(t, err)
	return est
}

func TestNewEstimatorValidation(t *testing.T) {
	zs, mus, errs := syntheticFlat(t)
	names := cosmo.Flat.Names()
	bounds := defaultBounds(cosmo.Flat)
	model := cosmo.NewModel(cosmo.Flat)

	_, err := NewEstimator(nil, nil, nil, names, bounds, model)
	assert.Error(t, err)

	_, err = NewEstimator(zs, mus[1:], errs, names, bounds, model)
	assert.True(t, errors.Is(err, ErrDimension))

	_, err = NewEstimator(zs, mus, errs, names, bounds[:1], model)
	assert.True(t, errors.Is(err, ErrDimension))

	_, err = NewEstimator(zs, mus, errs, names,
		[]Bound{{-2, -3.5}, {0, 2}}, model)
	assert.Error(t, err)

	_, err = NewEstimator(zs, mus, errs, names, bounds, nil)
	assert.Error(t, err)

	zeros := make([]float64, len(zs))
	_, err = NewEstimator(zs, mus, zeros, names, bounds, model)
	assert.Error(t, err)
}

func TestSigmaIsMeanUncertainty(t *testing.T) {
	est, err := NewEstimator(
		[]float64{0.1, 0.2, 0.3}, []float64{40, 41, 42},
		[]float64{0.1, 0.2, 0.6}, cosmo.Flat.Names(),
		defaultBounds(cosmo.Flat), cosmo.NewModel(cosmo.Flat),
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, est.Sigma(), 1e-15)
	assert.Equal(t, 3, est.N())
	assert.Equal(t, 2, est.Dim())
}

func TestPriorAffine(t *testing.T) {
	for _, r := range cosmo.Regimes {
		zs, mus, errs := syntheticFlat(t)
		est, err := NewEstimator(zs, mus, errs, r.Names(),
			defaultBounds(r), cosmo.NewModel(r))
		require.NoError(t, err)

		dim := est.Dim()
		zero, one, half := make([]float64, dim), make([]float64, dim),
			make([]float64, dim)
		for i := range one {
			one[i], half[i] = 1, 0.5
		}

		names := r.Names()
		for i, b := range est.Bounds() {
			assert.Equal(t, b.Lower, est.Prior(zero)[names[i]])
			assert.Equal(t, b.Upper, est.Prior(one)[names[i]])
			assert.InDelta(t, (b.Lower+b.Upper)/2, est.Prior(half)[names[i]],
				1e-15)
		}
		assert.Len(t, est.Prior(half), dim)
	}
}

func TestPriorDoesNotMutateInput(t *testing.T) {
	est := newFlatEstimator(t)
	unit := []float64{0.25, 0.75}
	_ = est.Prior(unit)
	assert.Equal(t, []float64{0.25, 0.75}, unit)
}

func TestPriorPanicsOnDimension(t *testing.T) {
	est := newFlatEstimator(t)
	assert.Panics(t, func() { est.Prior([]float64{0.5}) })
}

func TestLogLikelihoodNormalization(t *testing.T) {
	est := newFlatEstimator(t)
	n := float64(est.N())
	expected := -0.5*n*math.Log(2*math.Pi) - n*math.Log(est.Sigma())
	assert.InDelta(t, expected, est.LogLikelihood(truth), 1e-9)

	chi2, err := est.ChiSquared(truth)
	require.NoError(t, err)
	assert.Equal(t, 0.0, chi2)
}

func TestLogLikelihoodSymmetric(t *testing.T) {
	// Shifting M moves every prediction by the same amount, so +delta and
	// -delta give residuals of equal size and opposite sign.
	est := newFlatEstimator(t)
	for _, delta := range []float64{0.01, 0.1, 0.4} {
		above := cosmo.Point{cosmo.NameM: -3 + delta, cosmo.NameOmegaM: 0.3}
		below := cosmo.Point{cosmo.NameM: -3 - delta, cosmo.NameOmegaM: 0.3}
		assert.InDelta(t, est.LogLikelihood(above), est.LogLikelihood(below),
			1e-8, "delta = %g", delta)
	}
}

func TestLogLikelihoodRecovery(t *testing.T) {
	est := newFlatEstimator(t)
	best := est.LogLikelihood(truth)

	perturbed := []cosmo.Point{
		{cosmo.NameM: -3.01, cosmo.NameOmegaM: 0.3},
		{cosmo.NameM: -2.99, cosmo.NameOmegaM: 0.3},
		{cosmo.NameM: -3, cosmo.NameOmegaM: 0.29},
		{cosmo.NameM: -3, cosmo.NameOmegaM: 0.31},
		{cosmo.NameM: -3.2, cosmo.NameOmegaM: 1.2},
		{cosmo.NameM: -2.5, cosmo.NameOmegaM: 0},
	}
	for _, p := range perturbed {
		assert.Greater(t, best, est.LogLikelihood(p), "point %v", p)
	}
}

func TestLogLikelihoodInvalidCurvature(t *testing.T) {
	zs, mus, errs := syntheticFlat(t)
	tests := []struct {
		r cosmo.Regime
		p cosmo.Point
	}{
		{cosmo.Open, cosmo.Point{cosmo.NameM: -3, cosmo.NameOmegaM: 0.8,
			cosmo.NameOmegaL: 0.7}},
		{cosmo.Closed, cosmo.Point{cosmo.NameM: -3, cosmo.NameOmegaM: 0.2,
			cosmo.NameOmegaL: 0.3}},
		{cosmo.Closed, cosmo.Point{cosmo.NameM: -3, cosmo.NameOmegaM: 1.5,
			cosmo.NameOmegaL: 1.5}},
		{cosmo.Open, cosmo.Point{cosmo.NameM: -3, cosmo.NameOmegaM: 0.5,
			cosmo.NameOmegaL: 0.5}},
		{cosmo.Open, cosmo.Point{cosmo.NameM: -3}},
	}

	for i, test := range tests {
		est, err := NewEstimator(zs, mus, errs, test.r.Names(),
			defaultBounds(test.r), cosmo.NewModel(test.r))
		require.NoError(t, err)

		var logL float64
		require.NotPanics(t, func() { logL = est.LogLikelihood(test.p) })
		assert.False(t, math.IsNaN(logL) || math.IsInf(logL, 0), "%d", i)
		assert.Equal(t, LogZero, logL, "%d", i)
	}
}

func TestLogLikelihoodConcurrent(t *testing.T) {
	est := newFlatEstimator(t)
	points := make([]cosmo.Point, 64)
	expected := make([]float64, len(points))
	for i := range points {
		points[i] = est.Prior([]float64{float64(i) / 64, 1 - float64(i)/64})
		expected[i] = est.LogLikelihood(points[i])
	}

	got := make([]float64, len(points))
	wg := sync.WaitGroup{}
	for i := range points {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = est.LogLikelihood(points[i])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, expected, got)
}

func TestAccessorsCopy(t *testing.T) {
	est := newFlatEstimator(t)
	names, bounds := est.Names(), est.Bounds()
	names[0], bounds[0].Lower = "mutated", 100
	assert.Equal(t, cosmo.Flat.Names(), est.Names())
	assert.Equal(t, -3.5, est.Bounds()[0].Lower)
	assert.Equal(t, 1.5, est.Bounds()[0].Width())
}

func TestValuesAndPointOf(t *testing.T) {
	names := []string{"a", "b", "c"}
	p, err := PointOf(names, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, cosmo.Point{"a": 1, "b": 2, "c": 3}, p)
	assert.Equal(t, []float64{1, 2, 3}, Values(names, p))
	assert.Equal(t, []float64{3, 1}, Values([]string{"c", "a"}, p))

	_, err = PointOf(names, []float64{1})
	assert.True(t, errors.Is(err, ErrDimension))
}
