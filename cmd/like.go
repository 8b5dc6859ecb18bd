package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/snfit/snfit/cmd/catalog"
	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/parse"
)

// LikeConfig is the config of the like mode, which evaluates the
// log-likelihood of parameter vectors read from stdin.
type LikeConfig struct {
	chiSquared bool
}

var _ Mode = &LikeConfig{}

// ExampleConfig returns an example like.config file.
func (config *LikeConfig) ExampleConfig() string {
	return `[like.config]

#####################
## Optional Fields ##
#####################

# ChiSquared adds a chi2 column after the logL column. Points where the model
# can't be evaluated get a chi2 of NaN.
ChiSquared = false`
}

// ReadConfig reads a like.config file.
func (config *LikeConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("like.config")
	vars.Bool(&config.chiSquared, "ChiSquared", false)

	if fname == "" {
		return nil
	}
	return parse.ReadConfig(fname, vars)
}

// Run reads one parameter vector per line of stdin, in the order of the
// regime's parameter names, and prints each vector followed by its
// log-likelihood.
func (config *LikeConfig) Run(
	ctx context.Context, gConfig *GlobalConfig, e *env.Environment,
	stdin []string,
) ([]string, error) {
	t := startMode("like")

	est := e.Estimator
	names := est.Names()
	rows, err := parseVectors(stdin, len(names), "parameter vector")
	if err != nil {
		return nil, err
	}

	header := append(names, "logL")
	if config.chiSquared {
		header = append(header, "chi2")
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		p, err := fit.PointOf(names, row)
		if err != nil {
			return nil, fmt.Errorf("input line %d: %w", i+1, err)
		}

		out[i] = append(append([]float64{}, row...), est.LogLikelihood(p))
		if config.chiSquared {
			chi2, err := est.ChiSquared(p)
			if err != nil {
				chi2 = math.NaN()
			}
			out[i] = append(out[i], chi2)
		}
	}

	endMode(t)
	return append([]string{catalog.CommentString(header)},
		catalog.FormatRows(out)...), nil
}
