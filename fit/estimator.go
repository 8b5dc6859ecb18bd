/*package fit contains the likelihood and prior that an external sampler
needs in order to fit cosmological parameters to supernova distance moduli,
along with a few tools built on top of them.*/
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/snfit/snfit/cosmo"
	"github.com/snfit/snfit/logging"
)

// LogZero is the log-likelihood given to points where the model cannot be
// evaluated. It is finite so that samplers comparing likelihoods never see
// a NaN.
const LogZero = -math.MaxFloat64

var (
	ln2Pi = math.Log(2 * math.Pi)

	// ErrDimension is returned when a vector has the wrong number of
	// components.
	ErrDimension = errors.New("wrong dimension")
)

// Bound is the range of a uniform prior.
type Bound struct {
	Lower, Upper float64
}

// Width returns Upper - Lower.
func (b Bound) Width() float64 { return b.Upper - b.Lower }

// Model is the capability a nested sampler needs: a prior transform from
// the unit hypercube and a log-likelihood. Names and Bounds give the
// dimension and column order of posterior output.
type Model interface {
	Names() []string
	Bounds() []Bound
	LogLikelihood(p cosmo.Point) float64
	Prior(unit []float64) cosmo.Point
}

// DistanceModel predicts distance moduli. *cosmo.Model implements it.
type DistanceModel interface {
	DistanceModuli(zs []float64, p cosmo.Point, out []float64) error
}

// Estimator scores parameter points against a fixed set of observations.
// It is immutable after construction and safe for concurrent use.
type Estimator struct {
	zs, mus  []float64
	names    []string
	bounds   []Bound
	sigma    float64
	logSigma float64
	model    DistanceModel
}

var _ Model = &Estimator{}

// NewEstimator creates an Estimator. zs and mus are the observed redshifts
// and distance moduli, errs the per-point uncertainties whose mean is used as
// the single uncertainty of every residual. The slices are copied.
func NewEstimator(
	zs, mus, errs []float64, names []string, bounds []Bound,
	model DistanceModel,
) (*Estimator, error) {
	switch {
	case len(zs) == 0:
		return nil, fmt.Errorf("I can't fit a model to zero observations")
	case len(mus) != len(zs) || len(errs) != len(zs):
		return nil, fmt.Errorf("%w: %d redshifts, %d distance moduli, and "+
			"%d uncertainties", ErrDimension, len(zs), len(mus), len(errs))
	case len(names) != len(bounds):
		return nil, fmt.Errorf("%w: %d parameter names but %d bounds",
			ErrDimension, len(names), len(bounds))
	case model == nil:
		return nil, fmt.Errorf("no distance model given")
	}

	for i, b := range bounds {
		if !(b.Lower < b.Upper) {
			return nil, fmt.Errorf("the bounds of '%s' are [%g, %g], but the "+
				"lower bound must be below the upper bound",
				names[i], b.Lower, b.Upper)
		}
	}

	sigma := stat.Mean(errs, nil)
	if !(sigma > 0) {
		return nil, fmt.Errorf("the mean uncertainty is %g, but it must be "+
			"positive", sigma)
	}

	est := &Estimator{
		zs:       append([]float64(nil), zs...),
		mus:      append([]float64(nil), mus...),
		names:    append([]string(nil), names...),
		bounds:   append([]Bound(nil), bounds...),
		sigma:    sigma,
		logSigma: math.Log(sigma),
		model:    model,
	}
	return est, nil
}

// Names returns the parameter names in declaration order.
func (est *Estimator) Names() []string {
	return append([]string(nil), est.names...)
}

// Bounds returns the prior ranges, one per name.
func (est *Estimator) Bounds() []Bound {
	return append([]Bound(nil), est.bounds...)
}

// Dim returns the number of sampled parameters.
func (est *Estimator) Dim() int { return len(est.names) }

// Sigma returns the mean uncertainty used for every residual.
func (est *Estimator) Sigma() float64 { return est.sigma }

// N returns the number of observations.
func (est *Estimator) N() int { return len(est.zs) }

// ChiSquared returns the sum of squared residuals in units of Sigma().
func (est *Estimator) ChiSquared(p cosmo.Point) (float64, error) {
	pred := make([]float64, len(est.zs))
	if err := est.model.DistanceModuli(est.zs, p, pred); err != nil {
		return 0, err
	}

	floats.Sub(pred, est.mus)
	floats.Scale(1/est.sigma, pred)
	chi2 := floats.Dot(pred, pred)

	if logging.Mode == logging.Debug {
		logging.Log.Debugw("chi-squared", "point", p, "chi2", chi2)
	}
	return chi2, nil
}

// LogLikelihood returns the Gaussian log-likelihood of p,
//
//	-N ln(2 pi) / 2 - N ln(sigma) - chi^2 / 2.
//
// Points where the model fails or returns non-finite values get LogZero.
func (est *Estimator) LogLikelihood(p cosmo.Point) float64 {
	chi2, err := est.ChiSquared(p)
	if err != nil || math.IsNaN(chi2) || math.IsInf(chi2, 0) {
		return LogZero
	}

	n := float64(len(est.zs))
	logL := -0.5*n*ln2Pi - n*est.logSigma - 0.5*chi2
	if math.IsNaN(logL) || math.IsInf(logL, 0) {
		return LogZero
	}
	return logL
}

// Prior maps a point in the unit hypercube onto the uniform prior ranges,
// value[i] = lower[i] + (upper[i] - lower[i]) unit[i]. Values of unit are
// not clamped to [0, 1]. It panics if len(unit) != Dim().
func (est *Estimator) Prior(unit []float64) cosmo.Point {
	if len(unit) != len(est.names) {
		panic(fmt.Sprintf("%s: unit vector has %d components, expected %d",
			ErrDimension, len(unit), len(est.names)))
	}
	p := make(cosmo.Point, len(est.names))
	for i, name := range est.names {
		b := est.bounds[i]
		p[name] = b.Lower + (b.Upper-b.Lower)*unit[i]
	}
	return p
}

// Values returns the components of p in the given name order.
func Values(names []string, p cosmo.Point) []float64 {
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = p[name]
	}
	return out
}

// PointOf builds a Point from values ordered like names.
func PointOf(names []string, values []float64) (cosmo.Point, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%w: %d values given for %d parameters",
			ErrDimension, len(values), len(names))
	}
	p := make(cosmo.Point, len(names))
	for i, name := range names {
		p[name] = values[i]
	}
	return p, nil
}
