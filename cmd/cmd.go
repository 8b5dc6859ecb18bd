/*package cmd contains code for running snfit in its various command line
modes.*/
package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/snfit/snfit/cmd/catalog"
	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/cosmo"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/io"
	"github.com/snfit/snfit/logging"
	"github.com/snfit/snfit/parse"
	"github.com/snfit/snfit/version"
)

// ModeNames maps the name of every analysis mode to its Mode.
var ModeNames = map[string]Mode{
	"like":  &LikeConfig{},
	"prior": &PriorConfig{},
	"model": &ModelConfig{},
	"scan":  &ScanConfig{},
	"fit":   &FitConfig{},
	"stats": &StatsConfig{},
}

// Mode represents the interface used by the main binary when interacting with
// a given command line mode.
type Mode interface {
	// ReadConfig reads a mode-specific config file and stores its contents
	// within the Mode. An empty fname sets every variable to its default.
	ReadConfig(fname string) error
	// ExampleConfig returns the text of an example config file of this mode.
	ExampleConfig() string
	// Run executes the mode. It takes a context which cancels long-running
	// modes, an initialized GlobalConfig, the Environment built from it and
	// a slice of lines representing the contents of stdin. It returns the
	// lines that should be written to stdout along with an error if one
	// occurs. Modes which don't need the
	// observations accept a nil Environment.
	Run(
		ctx context.Context, gConfig *GlobalConfig, e *env.Environment,
		stdin []string,
	) ([]string, error)
}

// NeedsData returns true if the named mode needs the observation file.
func NeedsData(mode string) bool {
	switch mode {
	case "model", "stats":
		return false
	}
	return true
}

// GlobalConfig is a config file used by every mode. It says where the
// observations are, how to read them and which cosmology to fit to them.
type GlobalConfig struct {
	Version string

	DataFile string

	RedshiftColumn, ModulusColumn, ErrorColumn int64

	Regime   string
	Bounds   []float64
	StepSize float64

	OutputDir string
	Threads   int64
	Logging   string

	regime  cosmo.Regime
	bounds  []fit.Bound
	logFlag logging.Flag
}

var _ Mode = &GlobalConfig{}

// ReadConfig reads a config file and returns an error, if applicable.
func (config *GlobalConfig) ReadConfig(fname string) error {
	vars := config.vars()
	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}
	if err := config.validate(); err != nil {
		if fname == "" {
			return err
		}
		return fmt.Errorf("%s: %w", fname, err)
	}
	return nil
}

func (config *GlobalConfig) vars() *parse.ConfigVars {
	vars := parse.NewConfigVars("config")
	vars.String(&config.Version, "Version", version.SourceVersion)
	vars.String(&config.DataFile, "DataFile", "")
	vars.Int(&config.RedshiftColumn, "RedshiftColumn",
		int64(io.DefaultColumns.Redshift))
	vars.Int(&config.ModulusColumn, "ModulusColumn",
		int64(io.DefaultColumns.Modulus))
	vars.Int(&config.ErrorColumn, "ErrorColumn",
		int64(io.DefaultColumns.Error))
	vars.String(&config.Regime, "Regime", "")
	vars.Floats(&config.Bounds, "Bounds", []float64{})
	vars.Float(&config.StepSize, "StepSize", cosmo.DefaultStep)
	vars.String(&config.OutputDir, "OutputDir", "")
	vars.Int(&config.Threads, "Threads", -1)
	vars.String(&config.Logging, "Logging", "nil")
	return vars
}

// validate checks that all the user-generated fields of GlobalConfig are
// properly set and fills in the parsed versions of them.
func (config *GlobalConfig) validate() error {
	if err := version.Check(config.Version); err != nil {
		return fmt.Errorf("I couldn't use the 'Version' variable: %w", err)
	}

	cols := []struct {
		name string
		val  int64
	}{
		{"RedshiftColumn", config.RedshiftColumn},
		{"ModulusColumn", config.ModulusColumn},
		{"ErrorColumn", config.ErrorColumn},
	}
	for _, col := range cols {
		if col.val < 0 {
			return fmt.Errorf("The '%s' variable is set to %d, but column "+
				"indices start at 0.", col.name, col.val)
		}
	}

	if config.Regime == "" {
		return fmt.Errorf("The 'Regime' variable isn't set.")
	}
	regime, err := cosmo.ParseRegime(config.Regime)
	if err != nil {
		return fmt.Errorf("The 'Regime' variable is set to '%s', which I "+
			"don't recognize. Supported regimes are %s.",
			config.Regime, regimeList())
	}
	config.regime = regime

	if config.bounds, err = parseBounds(config.Bounds, regime); err != nil {
		return err
	}

	if !(config.StepSize > 0) {
		return fmt.Errorf("The 'StepSize' variable is set to %g, but it "+
			"must be positive.", config.StepSize)
	}

	if config.Threads == 0 || config.Threads < -1 {
		return fmt.Errorf("The 'Threads' variable is set to %d, but it must "+
			"be positive or -1.", config.Threads)
	}

	if config.logFlag, err = logging.ParseFlag(config.Logging); err != nil {
		return fmt.Errorf("I couldn't use the 'Logging' variable: %w", err)
	}

	return nil
}

// parseBounds converts the flattened 'Bounds' variable into fit.Bounds. An
// empty list gives the regime's defaults.
func parseBounds(flat []float64, regime cosmo.Regime) ([]fit.Bound, error) {
	names := regime.Names()
	if len(flat) == 0 {
		return env.DefaultBounds(regime), nil
	} else if len(flat) != 2*len(names) {
		return nil, fmt.Errorf("The 'Bounds' variable has %d values, but "+
			"the %s regime has %d parameters (%s), so it needs %d.",
			len(flat), regime, len(names), strings.Join(names, ", "),
			2*len(names))
	}

	bounds := make([]fit.Bound, len(names))
	for i := range bounds {
		bounds[i] = fit.Bound{Lower: flat[2*i], Upper: flat[2*i+1]}
		if !(bounds[i].Lower < bounds[i].Upper) {
			return nil, fmt.Errorf("The 'Bounds' variable gives '%s' the "+
				"range [%g, %g], but the lower bound must be smaller than "+
				"the upper bound.", names[i], bounds[i].Lower, bounds[i].Upper)
		}
	}
	return bounds, nil
}

func regimeList() string {
	names := make([]string, len(cosmo.Regimes))
	for i, r := range cosmo.Regimes {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

// CurvatureRegime returns the parsed 'Regime' variable.
func (config *GlobalConfig) CurvatureRegime() cosmo.Regime {
	return config.regime
}

// ParamBounds returns the parsed 'Bounds' variable, or the regime's
// defaults.
func (config *GlobalConfig) ParamBounds() []fit.Bound {
	return append([]fit.Bound(nil), config.bounds...)
}

// LoggingFlag returns the parsed 'Logging' variable.
func (config *GlobalConfig) LoggingFlag() logging.Flag { return config.logFlag }

// Workers returns the number of goroutines analysis modes should use.
func (config *GlobalConfig) Workers() int {
	if config.Threads == -1 {
		return runtime.NumCPU()
	}
	return int(config.Threads)
}

// Columns returns the column layout of the observation file.
func (config *GlobalConfig) Columns() io.Columns {
	return io.Columns{
		Redshift: int(config.RedshiftColumn),
		Modulus:  int(config.ModulusColumn),
		Error:    int(config.ErrorColumn),
	}
}

// EnvSetup returns the description of the Environment this config asks for.
func (config *GlobalConfig) EnvSetup() *env.Setup {
	return &env.Setup{
		DataFile: config.DataFile,
		Columns:  config.Columns(),
		Regime:   config.regime,
		Bounds:   config.ParamBounds(),
		Step:     config.StepSize,
	}
}

// RequireData returns an error if the config can't be used by the named mode
// because DataFile isn't set. Modes that don't read observations never need
// it.
func (config *GlobalConfig) RequireData(mode string) error {
	if NeedsData(mode) && config.DataFile == "" {
		return fmt.Errorf("The 'DataFile' variable isn't set, but the %s "+
			"mode needs it.", mode)
	}
	return nil
}

// ExampleConfig returns an example configuration file.
func (config *GlobalConfig) ExampleConfig() string {
	return fmt.Sprintf(`[config]
# Target version of snfit. This option merely allows snfit to notice when a
# config file was written for a newer version than the binary.
#
# This variable defaults to the source version if not included.
Version = %s

#####################
## Required Fields ##
#####################

# The observation file. It is a whitespace-separated text file with one
# supernova per line. Lines starting with '#' are ignored. The model and stats
# modes don't read it, so they accept configs without it.
DataFile = path/to/supernovae_data.dat

# The curvature regime of the model. Supported regimes are flat, open and
# closed.
#
# flat   - parameters: CurlyM, omega_m. omega_L = 1 - omega_m.
# open   - parameters: CurlyM, omega_L, omega_m. Requires omega_m + omega_L < 1.
# closed - parameters: CurlyM, omega_L, omega_m. Requires omega_m + omega_L > 1.
Regime = flat

#####################
## Optional Fields ##
#####################

# The columns of DataFile holding the redshift, the effective distance
# modulus and its uncertainty. Columns are numbered from 0.
RedshiftColumn = 0
ModulusColumn = 7
ErrorColumn = 8

# Bounds gives the prior range of every parameter as a flattened list of
# lower, upper pairs, in the parameter order listed above. If it isn't set, the
# default ranges are used:
#
# flat   - CurlyM [-3.5, -2], omega_m [0, 2]
# open   - CurlyM [-5, 3], omega_L [-1, 1.5], omega_m [0, 1.5]
# closed - CurlyM [-3.5, -2], omega_L [-1, 1.5], omega_m [0, 1.5]
# Bounds = -3.5, -2, 0, 2

# StepSize is the redshift spacing of the grid used to integrate the comoving
# distance.
StepSize = 0.01

# OutputDir is the directory that the scan mode writes sample files to. If it
# isn't set, files are written to the current directory.
# OutputDir = Run_files_flat

# Threads is the number of goroutines used by the scan mode. -1 means one per
# CPU.
Threads = -1

# Logging controls how much snfit reports to stderr while it runs. Supported
# values are nil, performance and debug. It can also be set with the --log
# flag.
Logging = nil`, version.SourceVersion)
}

// Run is a dummy method which allows GlobalConfig to conform to the Mode
// interface for testing purposes.
func (config *GlobalConfig) Run(
	ctx context.Context, gConfig *GlobalConfig, e *env.Environment, stdin []string,
) ([]string, error) {
	panic("GlobalConfig.Run() should never be executed.")
}

// parseVectors parses whitespace-separated vectors of dim values from stdin.
func parseVectors(lines []string, dim int, what string) ([][]float64, error) {
	rows, err := catalog.ParseRows(lines)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if len(rows[i]) != dim {
			return nil, fmt.Errorf("%w: the %s on input line %d has %d "+
				"values, but %d are needed", fit.ErrDimension, what, i+1,
				len(rows[i]), dim)
		}
	}
	return rows, nil
}

// startMode logs the banner that starts every mode and returns the time it
// started at if performance is being logged.
func startMode(name string) time.Time {
	if logging.Mode != logging.Nil {
		logging.Log.Infof("## snfit %s ##", name)
	}
	if logging.Mode == logging.Performance {
		return time.Now()
	}
	return time.Time{}
}

// endMode reports the time and memory used by a mode started at t.
func endMode(t time.Time) {
	if logging.Mode == logging.Performance {
		logging.Log.Infof("Time: %s", time.Since(t).String())
		logging.Log.Infof("Memory: %s", logging.MemString())
	}
}
