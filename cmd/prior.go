package cmd

import (
	"context"
	"fmt"

	"github.com/snfit/snfit/cmd/catalog"
	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/math/rand"
	"github.com/snfit/snfit/parse"
)

// PriorConfig is the config of the prior mode, which maps unit-hypercube
// points onto parameter vectors.
type PriorConfig struct {
	points int64
}

var _ Mode = &PriorConfig{}

// ExampleConfig returns an example prior.config file.
func (config *PriorConfig) ExampleConfig() string {
	return `[prior.config]

#####################
## Optional Fields ##
#####################

# Points is the number of points of a Sobol sequence which are transformed
# when nothing is passed through stdin. By default stdin must contain one
# unit-hypercube point per line.
Points = 0`
}

// ReadConfig reads a prior.config file.
func (config *PriorConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("prior.config")
	vars.Int(&config.points, "Points", 0)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}

	if config.points < 0 {
		return fmt.Errorf("The 'Points' variable is set to %d, but it "+
			"can't be negative.", config.points)
	}
	return nil
}

// Run transforms unit-hypercube points into parameter vectors. Values outside
// [0, 1] are transformed the same way as values inside it.
func (config *PriorConfig) Run(
	ctx context.Context, gConfig *GlobalConfig, e *env.Environment,
	stdin []string,
) ([]string, error) {
	t := startMode("prior")

	est := e.Estimator
	names := est.Names()
	units, err := parseVectors(stdin, len(names), "unit-hypercube point")
	if err != nil {
		return nil, err
	}

	if len(units) == 0 && config.points > 0 {
		if units, err = sobolPoints(int(config.points), len(names)); err != nil {
			return nil, err
		}
	}

	out := make([][]float64, len(units))
	for i := range units {
		out[i] = fit.Values(names, est.Prior(units[i]))
	}

	endMode(t)
	return append([]string{catalog.CommentString(names)},
		catalog.FormatRows(out)...), nil
}

func sobolPoints(n, dim int) ([][]float64, error) {
	seq := rand.NewSobolSequence()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, dim)
		if err := seq.NextAt(out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
