package fit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/snfit/snfit/cosmo"
	"github.com/snfit/snfit/logging"
)

// ErrNoValidPoint is returned when a search never reaches a point where the
// model can be evaluated.
var ErrNoValidPoint = errors.New("no valid point")

// Method is the optimization algorithm used by MaximizeLikelihood.
type Method int

const (
	NelderMead Method = iota
	LBFGS
)

// ParseMethod converts a config string into a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nelder-mead":
		return NelderMead, nil
	case "lbfgs":
		return LBFGS, nil
	}
	return NelderMead, fmt.Errorf("I don't recognize the optimization "+
		"method '%s'. Supported methods are nelder-mead and lbfgs", s)
}

func (m Method) String() string {
	switch m {
	case NelderMead:
		return "nelder-mead"
	case LBFGS:
		return "lbfgs"
	}
	panic("Impossible")
}

func (m Method) gonum() optimize.Method {
	switch m {
	case LBFGS:
		return &optimize.LBFGS{}
	default:
		return &optimize.NelderMead{}
	}
}

// Result is the outcome of MaximizeLikelihood.
type Result struct {
	Point       cosmo.Point
	Unit        []float64
	LogL        float64
	Evaluations int
	Status      string
	// Err is the error gonum reported alongside a usable result, such as a
	// failed line search. The point is still the best one found.
	Err error
}

// MaximizeLikelihood searches for the maximum of m.LogLikelihood inside the
// prior box, starting from the unit-cube coordinates start. Leaving the box
// costs the same as an invalid point.
func MaximizeLikelihood(
	m Model, start []float64, method Method, maxEvals int,
) (*Result, error) {
	dim := len(m.Names())
	if len(start) != dim {
		return nil, fmt.Errorf("%w: starting point has %d components, "+
			"expected %d", ErrDimension, len(start), dim)
	}

	negLogL := func(x []float64) float64 {
		for _, u := range x {
			if u < 0 || u > 1 || math.IsNaN(u) {
				return -LogZero
			}
		}
		return -m.LogLikelihood(m.Prior(x))
	}

	problem := optimize.Problem{Func: negLogL}
	if method == LBFGS {
		settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}
		problem.Grad = func(grad, x []float64) {
			fd.Gradient(grad, negLogL, x, settings)
		}
	}

	var settings *optimize.Settings
	if maxEvals > 0 {
		settings = &optimize.Settings{FuncEvaluations: maxEvals}
	}

	x0 := append([]float64(nil), start...)
	res, err := optimize.Minimize(problem, x0, settings, method.gonum())
	if res == nil {
		if err == nil {
			err = fmt.Errorf("the optimizer returned no result")
		}
		return nil, err
	}
	return newResult(m, res, err)
}

// newResult converts a gonum result. err is the error Minimize returned with
// res and is kept in Result.Err. Results that never left invalid territory
// are rejected.
func newResult(m Model, res *optimize.Result, err error) (*Result, error) {
	logL := -res.F
	if logL == LogZero || math.IsNaN(logL) || math.IsInf(logL, 0) {
		return nil, fmt.Errorf("%w: the optimizer stopped with status %s "+
			"at log-likelihood %g", ErrNoValidPoint, res.Status, logL)
	}
	if err != nil {
		logging.Log.Warnw("Optimizer stopped early", "status",
			res.Status.String(), "error", err)
	}

	out := &Result{
		Point:       m.Prior(res.X),
		Unit:        append([]float64(nil), res.X...),
		LogL:        logL,
		Evaluations: res.Stats.FuncEvaluations,
		Status:      res.Status.String(),
		Err:         err,
	}
	return out, nil
}

// StartingPoint scans n Sobol points of m and returns the unit-cube
// coordinates of the most likely one, so optimizers never start where the
// model is undefined.
func StartingPoint(
	ctx context.Context, m Model, n, workers int,
) ([]float64, error) {
	samples, err := Scan(ctx, m, n, workers)
	if err != nil {
		return nil, err
	}
	best, ok := MaxLikelihood(samples)
	if !ok || best.LogL == LogZero {
		return nil, fmt.Errorf("%w: none of the %d scanned points can be "+
			"evaluated", ErrNoValidPoint, n)
	}
	return best.Unit, nil
}
