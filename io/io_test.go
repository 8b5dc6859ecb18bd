package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleData = `# z dz a b c d e mu err
0.10 0.001 0 0 0 0 0 38.30 0.20
0.50	0.001 0 0 0 0 0 42.35 0.25
1.00 0.001 0 0 0 0 0 44.10 0.30
`

func writeTemp(t *testing.T, text string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "supernovae_data.dat")
	require.NoError(t, os.WriteFile(fname, []byte(text), 0o644))
	return fname
}

func TestReadObservations(t *testing.T) {
	obs, err := ReadObservations(writeTemp(t, sampleData), DefaultColumns)
	require.NoError(t, err)

	assert.Equal(t, 3, obs.Len())
	assert.Equal(t, []float64{0.1, 0.5, 1.0}, obs.Z)
	assert.Equal(t, []float64{38.3, 42.35, 44.1}, obs.Mu)
	assert.Equal(t, []float64{0.2, 0.25, 0.3}, obs.Err)
}

func TestReadObservationsCustomColumns(t *testing.T) {
	obs, err := ReadObservations(writeTemp(t, "0.2 41.0 0.1\n0.4 42.0 0.3\n"),
		Columns{Redshift: 0, Modulus: 1, Error: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{41, 42}, obs.Mu)
	assert.Equal(t, []float64{0.1, 0.3}, obs.Err)
}

func TestReadObservationsErrors(t *testing.T) {
	tests := []struct {
		name, data string
	}{
		{"empty", "# nothing here\n\n"},
		{"short lines", "0.1 38.3 0.2\n"},
		{"negative redshift", strings.Replace(sampleData, "0.10", "-0.1", 1)},
		{"zero uncertainty", strings.Replace(sampleData, "0.20", "0.00", 1)},
		{"bad number", strings.Replace(sampleData, "42.35", "x", 1)},
		{"ragged", sampleData + "0.3 1 2\n"},
	}

	for _, test := range tests {
		_, err := ReadObservations(writeTemp(t, test.data), DefaultColumns)
		assert.Error(t, err, test.name)
	}

	_, err := ReadObservations(
		filepath.Join(t.TempDir(), "missing.dat"), DefaultColumns)
	assert.Error(t, err)
}

func TestWriteAndReadSamples(t *testing.T) {
	fname := SampleFileName(filepath.Join(t.TempDir(), "Run_files_flat"),
		"posterior", "flat")
	assert.Equal(t, "posterior_flat.dat", filepath.Base(fname))

	names := []string{"CurlyM", "omega_m"}
	values := [][]float64{{-3, 0.3}, {-3.05, 0.28}}
	logLs := []float64{-20.5, -21}
	require.NoError(t, WriteSamples(fname, names, values, logLs))

	bs, err := os.ReadFile(fname)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "# Column contents: CurlyM(0) omega_m(1) logL(2)",
		lines[0])

	cols, err := ReadSamples(fname, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-3, -3.05}, {0.3, 0.28}, {-20.5, -21}}, cols)

	cols, err = ParseSamples(lines, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-3, -3.05}, {0.3, 0.28}}, cols)

	assert.Error(t, WriteSamples(fname, names, values, logLs[:1]))
	assert.Error(t, WriteSamples(fname, names[:1], values, logLs))
}
