package cmd

import (
	"context"
	"fmt"

	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/io"
	"github.com/snfit/snfit/parse"
)

// StatsConfig is the config of the stats mode, which summarizes the marginal
// posteriors in a sample file.
type StatsConfig struct {
	format string
}

var _ Mode = &StatsConfig{}

// ExampleConfig returns an example stats.config file.
func (config *StatsConfig) ExampleConfig() string {
	return `[stats.config]

#####################
## Optional Fields ##
#####################

# Format determines how each parameter's median and 1-sigma range is printed.
#
# The supported formats are:
# text  - "name median minus plus" columns.
# latex - name = median_{-minus}^{+plus}, ready for a plot title.
Format = text`
}

// ReadConfig reads a stats.config file.
func (config *StatsConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("stats.config")
	vars.String(&config.format, "Format", "text")

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}

	switch config.format {
	case "text", "latex":
	default:
		return fmt.Errorf("The 'Format' variable is set to '%s', which I "+
			"don't recognize.", config.format)
	}
	return nil
}

// Run reads a posterior sample file from stdin, whose leading columns are the
// regime's parameters, and prints the median and 16th/84th percentile offsets
// of each parameter. The observation file isn't read, so e may be nil.
func (config *StatsConfig) Run(
	ctx context.Context, gConfig *GlobalConfig, e *env.Environment,
	stdin []string,
) ([]string, error) {
	t := startMode("stats")

	names := gConfig.CurvatureRegime().Names()
	cols, err := io.ParseSamples(stdin, len(names))
	if err != nil {
		return nil, err
	}
	if len(cols[0]) == 0 {
		return nil, fmt.Errorf("No posterior samples were passed to stdin.")
	}

	summaries, err := fit.Summarize(names, cols)
	if err != nil {
		return nil, err
	}

	lines := []string{}
	if config.format == "text" {
		lines = append(lines, "# name median minus plus")
	}
	for _, s := range summaries {
		switch config.format {
		case "text":
			lines = append(lines, fmt.Sprintf("%s %.5g %.5g %.5g",
				s.Name, s.Median, s.Minus(), s.Plus()))
		case "latex":
			lines = append(lines, fmt.Sprintf("%s = $%.3f_{-%.3f}^{+%.3f}$",
				s.Name, s.Median, s.Minus(), s.Plus()))
		}
	}

	endMode(t)
	return lines, nil
}
