package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/snfit/snfit/cmd/catalog"
	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/logging"
	"github.com/snfit/snfit/parse"
)

// FitConfig is the config of the fit mode, which finds the maximum-likelihood
// parameters inside the prior box.
type FitConfig struct {
	method      string
	start       []float64
	maxEvals    int64
	scanSamples int64

	fitMethod fit.Method
}

var _ Mode = &FitConfig{}

// ExampleConfig returns an example fit.config file.
func (config *FitConfig) ExampleConfig() string {
	return `[fit.config]

#####################
## Optional Fields ##
#####################

# Method is the optimizer. Supported methods are nelder-mead and lbfgs.
Method = nelder-mead

# Start is the starting point in unit-hypercube coordinates, one value in
# [0, 1] per parameter. If it isn't set, the most likely of ScanSamples
# points of a Sobol sequence is used instead. The center of the prior box is
# a poor default: for the open and closed regimes it has zero curvature.
# Start = 0.5, 0.5

# ScanSamples is the number of points scanned to find a starting point when
# Start isn't set.
ScanSamples = 256

# MaxEvaluations caps the number of likelihood evaluations. 0 means no cap.
MaxEvaluations = 0`
}

// ReadConfig reads a fit.config file.
func (config *FitConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("fit.config")
	vars.String(&config.method, "Method", "nelder-mead")
	vars.Floats(&config.start, "Start", []float64{})
	vars.Int(&config.maxEvals, "MaxEvaluations", 0)
	vars.Int(&config.scanSamples, "ScanSamples", 256)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	return config.validate()
}

func (config *FitConfig) validate() error {
	var err error
	if config.fitMethod, err = fit.ParseMethod(config.method); err != nil {
		return fmt.Errorf("I couldn't use the 'Method' variable: %w", err)
	}
	for i, u := range config.start {
		if u < 0 || u > 1 {
			return fmt.Errorf("Item %d of the 'Start' variable is %g, but "+
				"it must be in [0, 1].", i, u)
		}
	}
	if config.maxEvals < 0 {
		return fmt.Errorf("The 'MaxEvaluations' variable is set to %d, but "+
			"it can't be negative.", config.maxEvals)
	}
	if config.scanSamples <= 0 {
		return fmt.Errorf("The 'ScanSamples' variable is set to %d, but it "+
			"must be positive.", config.scanSamples)
	}
	return nil
}

// Run prints the best-fit parameters followed by their log-likelihood and
// chi^2.
func (config *FitConfig) Run(
	ctx context.Context, gConfig *GlobalConfig, e *env.Environment,
	stdin []string,
) ([]string, error) {
	t := startMode("fit")

	est := e.Estimator
	names := est.Names()
	start := config.start
	if len(start) == 0 {
		var err error
		start, err = fit.StartingPoint(
			ctx, est, int(config.scanSamples), gConfig.Workers(),
		)
		if err != nil {
			return nil, fmt.Errorf("I couldn't find a starting point for "+
				"the fit: %w", err)
		}
		logging.Log.Infow("Chose starting point", "unit", start)
	}

	res, err := fit.MaximizeLikelihood(
		est, start, config.fitMethod, int(config.maxEvals),
	)
	if err != nil {
		return nil, fmt.Errorf("I couldn't maximize the likelihood: %w", err)
	}
	chi2, err := est.ChiSquared(res.Point)
	if err != nil {
		return nil, fmt.Errorf("The best fit point is outside the model's "+
			"domain: %w", err)
	} else if math.IsNaN(chi2) || math.IsInf(chi2, 0) {
		return nil, fmt.Errorf("The best fit point has chi^2 = %g, so it is "+
			"outside the model's domain.", chi2)
	}
	logging.Log.Infow("Finished fit", "method", config.fitMethod.String(),
		"evaluations", res.Evaluations, "status", res.Status)

	status := res.Status
	if res.Err != nil {
		status = fmt.Sprintf("%s (%v)", status, res.Err)
	}

	header := append(names, "logL", "chi2")
	row := append(fit.Values(names, res.Point), res.LogL, chi2)

	endMode(t)
	return []string{
		fmt.Sprintf("# %s: %d evaluations, %s", config.fitMethod,
			res.Evaluations, status),
		catalog.CommentString(header),
		catalog.FormatRows([][]float64{row})[0],
	}, nil
}
