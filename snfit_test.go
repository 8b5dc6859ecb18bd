package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snfit/snfit/version"
)

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	fname := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fname, []byte(text), 0o644))
	return fname
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return out.String(), err
}

func testConfig(t *testing.T) string {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.dat", `# z . . . . . . mu err
0.1 0 0 0 0 0 0 38.3 0.2
0.5 0 0 0 0 0 0 42.3 0.2
1.0 0 0 0 0 0 0 44.1 0.2
`)
	return writeFile(t, dir, "global.config", fmt.Sprintf(
		"[config]\nDataFile = %s\nRegime = flat\nOutputDir = %s\n",
		data, dir))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "snfit version "+version.SourceVersion+"\n", out)
}

func TestExampleCmd(t *testing.T) {
	out, err := execute(t, "", "example", "config")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[config]"))

	out, err = execute(t, "", "example", "scan.config")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[scan.config]"))

	_, err = execute(t, "", "example", "shell.config")
	assert.Error(t, err)
}

func TestModeCmd(t *testing.T) {
	t.Setenv(globalConfigEnv, "")
	gConfig := testConfig(t)

	out, err := execute(t, "-3 0.3\n", "like", gConfig)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "# Column contents: CurlyM(0) omega_m(1) logL(2)",
		lines[0])

	out, err = execute(t, "0.5 0.5\n", "prior", "--log", "nil", gConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "-2.75 1")

	input := writeFile(t, t.TempDir(), "z.txt", "0.5\n1.0\n")
	modelConfig := writeFile(t, t.TempDir(), "model.config",
		"[model.config]\nParams = -3, 0.3\n")
	out, err = execute(t, "", "model", "--file", input, gConfig, modelConfig)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)

	_, err = execute(t, "", "like")
	assert.Error(t, err)
	_, err = execute(t, "", "like", "--log", "loud", gConfig)
	assert.Error(t, err)
}

func TestModeCmdWithoutData(t *testing.T) {
	t.Setenv(globalConfigEnv, "")
	dir := t.TempDir()
	gConfig := writeFile(t, dir, "global.config", "[config]\nRegime = flat\n")
	modelConfig := writeFile(t, dir, "model.config",
		"[model.config]\nParams = -3, 0.3\n")

	out, err := execute(t, "0.5\n", "model", gConfig, modelConfig)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, err = execute(t, "-3 0.3\n", "like", gConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DataFile")
}

func TestConfigNames(t *testing.T) {
	t.Setenv(globalConfigEnv, "")
	g, m, err := configNames([]string{"a.config", "b.config"})
	require.NoError(t, err)
	assert.Equal(t, "a.config", g)
	assert.Equal(t, "b.config", m)

	_, _, err = configNames(nil)
	assert.Error(t, err)

	t.Setenv(globalConfigEnv, "global.config")
	g, m, err = configNames([]string{"scan.config"})
	require.NoError(t, err)
	assert.Equal(t, "global.config", g)
	assert.Equal(t, "scan.config", m)

	_, _, err = configNames([]string{"a.config", "b.config"})
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)

	lines, err = readLines(strings.NewReader("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, lines)
}
