package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/snfit/snfit/cmd/catalog"
)

// LogLColumn is the name of the trailing log-likelihood column of sample
// files.
const LogLColumn = "logL"

// SampleFileName returns the path of a sample file of the given kind
// ("posterior" or "scan") for a curvature regime.
func SampleFileName(dir, kind, regime string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.dat", kind, regime))
}

// WriteSamples writes a sample file: a header naming the columns, then one
// row per sample with the parameters in names order and the log-likelihood
// last. The directory is created if needed.
func WriteSamples(
	fname string, names []string, values [][]float64, logLs []float64,
) error {
	if len(values) != len(logLs) {
		return fmt.Errorf("%d samples but %d log-likelihoods",
			len(values), len(logLs))
	}
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return err
	}

	rows := make([][]float64, len(values))
	for i := range values {
		if len(values[i]) != len(names) {
			return fmt.Errorf("sample %d has %d values, but there are %d "+
				"parameters", i, len(values[i]), len(names))
		}
		rows[i] = append(append([]float64{}, values[i]...), logLs[i])
	}

	header := append(append([]string{}, names...), LogLColumn)
	return catalog.WriteFile(fname, header, rows)
}

// ParseSamples reads the first n columns of a sample catalog which has been
// split into lines. cols[i] holds column i.
func ParseSamples(lines []string, n int) ([][]float64, error) {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return catalog.ParseCols(lines, idxs)
}

// ReadSamples is ParseSamples for a file on disk.
func ReadSamples(fname string, n int) ([][]float64, error) {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return catalog.ReadFile(fname, idxs)
}
