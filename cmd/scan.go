package cmd

import (
	"context"
	"fmt"

	"github.com/snfit/snfit/cmd/catalog"
	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/io"
	"github.com/snfit/snfit/logging"
	"github.com/snfit/snfit/math/rand"
	"github.com/snfit/snfit/parse"
)

// ScanConfig is the config of the scan mode, which evaluates the likelihood
// on a quasi-random set of points spread over the prior and resamples them
// into posterior samples.
type ScanConfig struct {
	samples   int64
	seed      int64
	generator string
	writeScan bool

	genType rand.GeneratorType
}

var _ Mode = &ScanConfig{}

// ExampleConfig returns an example scan.config file.
func (config *ScanConfig) ExampleConfig() string {
	return `[scan.config]

#####################
## Optional Fields ##
#####################

# Samples is the number of points of the Sobol sequence that the likelihood is
# evaluated at.
Samples = 10000

# Seed seeds the generator which decides which points are kept as posterior
# samples. -1 uses the current time.
Seed = -1

# Generator is the random number generator used for resampling. Supported
# generators are xorshift and golang.
Generator = xorshift

# WriteScan also writes every evaluated point to OutputDir/scan_<regime>.dat.
# The posterior samples are always written to OutputDir/posterior_<regime>.dat.
WriteScan = false`
}

// ReadConfig reads a scan.config file.
func (config *ScanConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("scan.config")
	vars.Int(&config.samples, "Samples", 10000)
	vars.Int(&config.seed, "Seed", -1)
	vars.String(&config.generator, "Generator", "xorshift")
	vars.Bool(&config.writeScan, "WriteScan", false)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	return config.validate()
}

func (config *ScanConfig) validate() error {
	if config.samples <= 0 {
		return fmt.Errorf("The 'Samples' variable is set to %d, but it must "+
			"be positive.", config.samples)
	}
	if config.seed < -1 {
		return fmt.Errorf("The 'Seed' variable is set to %d, but it must be "+
			"non-negative or -1.", config.seed)
	}

	var err error
	if config.genType, err = rand.ParseGeneratorType(config.generator); err != nil {
		return fmt.Errorf("I couldn't use the 'Generator' variable: %w", err)
	}
	return nil
}

func (config *ScanConfig) newGenerator() *rand.Generator {
	if config.seed == -1 {
		return rand.NewTimeSeed(config.genType)
	}
	return rand.New(config.genType, uint64(config.seed))
}

// Run scans the likelihood, writes the sample files and prints the
// evidence estimate followed by the most likely point.
func (config *ScanConfig) Run(
	ctx context.Context, gConfig *GlobalConfig, e *env.Environment,
	stdin []string,
) ([]string, error) {
	t := startMode("scan")

	est := e.Estimator
	names := est.Names()
	samples, err := fit.Scan(ctx, est, int(config.samples), gConfig.Workers())
	if err != nil {
		return nil, err
	}

	lnZ := fit.LogEvidence(samples)
	posterior := fit.Resample(samples, config.newGenerator())
	logging.Log.Infow("Finished scan", "samples", len(samples),
		"accepted", len(posterior), "lnZ", lnZ)

	regime := gConfig.CurvatureRegime().String()
	postFile := io.SampleFileName(gConfig.OutputDir, "posterior", regime)
	if err = writeSamples(postFile, names, posterior); err != nil {
		return nil, err
	}
	if config.writeScan {
		scanFile := io.SampleFileName(gConfig.OutputDir, "scan", regime)
		if err = writeSamples(scanFile, names, samples); err != nil {
			return nil, err
		}
	}

	lines := []string{
		fmt.Sprintf("# ln Z = %.8g", lnZ),
		fmt.Sprintf("# %d of %d samples kept in %s",
			len(posterior), len(samples), postFile),
	}
	if best, ok := fit.MaxLikelihood(samples); ok {
		header := append(names, io.LogLColumn)
		row := append(append([]float64{}, best.Values...), best.LogL)
		lines = append(lines, catalog.CommentString(header))
		lines = append(lines, catalog.FormatRows([][]float64{row})...)
	}

	endMode(t)
	return lines, nil
}

func writeSamples(fname string, names []string, samples []fit.Sample) error {
	values := make([][]float64, len(samples))
	logLs := make([]float64, len(samples))
	for i := range samples {
		values[i], logLs[i] = samples[i].Values, samples[i].LogL
	}
	if err := io.WriteSamples(fname, names, values, logLs); err != nil {
		return fmt.Errorf("I couldn't write the sample file %s: %w",
			fname, err)
	}
	return nil
}
