package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/snfit/snfit/cmd/catalog"
	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/cosmo"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/parse"
)

// ModelConfig is the config of the model mode, which prints the distance
// modulus predicted for a single parameter vector.
type ModelConfig struct {
	params    []float64
	redshifts []float64
}

var _ Mode = &ModelConfig{}

// ExampleConfig returns an example model.config file.
func (config *ModelConfig) ExampleConfig() string {
	return `[model.config]

#####################
## Required Fields ##
#####################

# Params is the parameter vector of the model, in the order used by the
# regime in the global config file:
#
# flat        - CurlyM, omega_m
# open/closed - CurlyM, omega_L, omega_m
Params = -3.0, 0.3

#####################
## Optional Fields ##
#####################

# Redshifts are evaluated when nothing is passed through stdin. Otherwise the
# first column of stdin is used.
Redshifts = 0.1, 0.5, 1.0`
}

// ReadConfig reads a model.config file.
func (config *ModelConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("model.config")
	vars.Floats(&config.params, "Params", []float64{})
	vars.Floats(&config.redshifts, "Redshifts", []float64{})

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}

	for i, z := range config.redshifts {
		if z < 0 {
			return fmt.Errorf("Item %d of the 'Redshifts' variable is %g, "+
				"but redshifts can't be negative.", i, z)
		}
	}
	return nil
}

// Run prints "z mu" for every redshift. The observation file isn't read, so
// e may be nil.
func (config *ModelConfig) Run(
	ctx context.Context, gConfig *GlobalConfig, e *env.Environment,
	stdin []string,
) ([]string, error) {
	t := startMode("model")

	regime := gConfig.CurvatureRegime()
	names := regime.Names()
	if len(config.params) == 0 {
		return nil, fmt.Errorf("Either no model.config file was provided or " +
			"the 'Params' variable wasn't set.")
	} else if len(config.params) != len(names) {
		return nil, fmt.Errorf("The 'Params' variable has %d values, but the "+
			"%s regime needs %d: %s.", len(config.params), regime,
			len(names), strings.Join(names, ", "))
	}

	zs := config.redshifts
	cols, err := catalog.ParseCols(stdin, []int{0})
	if err != nil {
		return nil, err
	}
	if len(cols[0]) > 0 {
		zs = cols[0]
	}

	p, err := fit.PointOf(names, config.params)
	if err != nil {
		return nil, err
	}

	model := cosmo.NewModel(regime)
	model.Step = gConfig.StepSize
	mus := make([]float64, len(zs))
	if err = model.DistanceModuli(zs, p, mus); err != nil {
		return nil, err
	}

	endMode(t)
	return append([]string{catalog.CommentString([]string{"z", "mu"})},
		catalog.FormatCols([][]float64{zs, mus})...), nil
}
