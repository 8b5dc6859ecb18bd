/*snfit fits cosmological distance-modulus models to type Ia supernova
observations. Every analysis mode reads a global config file and an optional
mode-specific config file, reads its input from stdin and writes its results
to stdout.*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snfit/snfit/cmd"
	"github.com/snfit/snfit/cmd/env"
	"github.com/snfit/snfit/logging"
	"github.com/snfit/snfit/version"
)

// globalConfigEnv names an environment variable which can hold the path of
// the global config file, so only mode config files need to be passed.
const globalConfigEnv = "SNFIT_GLOBAL_CONFIG"

// readsStdin lists the modes which take input through stdin.
var readsStdin = map[string]bool{
	"like": true, "prior": true, "model": true, "stats": true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logFlag, inputFile string

	root := &cobra.Command{
		Use:          "snfit",
		Short:        "Fit distance-modulus models to supernova observations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logFlag, "log", "",
		"logging mode: nil, performance or debug (overrides 'Logging')")
	root.PersistentFlags().StringVar(&inputFile, "file", "",
		"read input from this file instead of stdin")

	names := make([]string, 0, len(cmd.ModeNames))
	for name := range cmd.ModeNames {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		root.AddCommand(modeCmd(name, &logFlag, &inputFile))
	}
	root.AddCommand(exampleCmd(names), versionCmd())
	return root
}

func modeCmd(name string, logFlag, inputFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s [global.config] [%s.config]", name, name),
		Short: fmt.Sprintf("Run the %s mode", name),
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(c *cobra.Command, args []string) error {
			err := runMode(c.Context(), name, args, *logFlag, *inputFile,
				c.InOrStdin(), c.OutOrStdout())
			if err != nil {
				return fmt.Errorf("Error running mode %s:\n%w", name, err)
			}
			return nil
		},
	}
}

func exampleCmd(modes []string) *cobra.Command {
	targets := []string{"config"}
	for _, name := range modes {
		targets = append(targets, name+".config")
	}

	return &cobra.Command{
		Use:   "example [" + strings.Join(targets, " | ") + "]",
		Short: "Print an example config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var mode cmd.Mode = &cmd.GlobalConfig{}
			if args[0] != "config" {
				m, ok := cmd.ModeNames[strings.TrimSuffix(args[0], ".config")]
				if !ok {
					return fmt.Errorf("I don't recognize the config file "+
						"type '%s'. The types I know are: %s", args[0],
						strings.Join(targets, ", "))
				}
				mode = m
			}
			fmt.Fprintln(c.OutOrStdout(), mode.ExampleConfig())
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of snfit",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "snfit version %s\n",
				version.SourceVersion)
		},
	}
}

// runMode reads the config files, builds the Environment, and runs the named
// mode on the input.
func runMode(
	ctx context.Context, name string, args []string, logFlag, inputFile string,
	stdin io.Reader, stdout io.Writer,
) error {
	gConfigName, modeConfigName, err := configNames(args)
	if err != nil {
		return err
	}

	gConfig := &cmd.GlobalConfig{}
	if err = gConfig.ReadConfig(gConfigName); err != nil {
		return err
	}
	mode := cmd.ModeNames[name]
	if err = mode.ReadConfig(modeConfigName); err != nil {
		return err
	}

	flag := gConfig.LoggingFlag()
	if logFlag != "" {
		if flag, err = logging.ParseFlag(logFlag); err != nil {
			return err
		}
	}
	sync, err := logging.Setup(flag)
	if err != nil {
		return fmt.Errorf("I couldn't set up logging: %w", err)
	}
	defer sync()

	if err = gConfig.RequireData(name); err != nil {
		return err
	}

	var e *env.Environment
	if cmd.NeedsData(name) {
		if e, err = env.New(gConfig.EnvSetup()); err != nil {
			return err
		}
	}

	var lines []string
	if inputFile != "" {
		if lines, err = fileLines(inputFile); err != nil {
			return err
		}
	} else if readsStdin[name] {
		if lines, err = readLines(stdin); err != nil {
			return fmt.Errorf("Error reading stdin: %w", err)
		}
	}

	out, err := mode.Run(ctx, gConfig, e, lines)
	if err != nil {
		return err
	}
	for i := range out {
		fmt.Fprintln(stdout, out[i])
	}
	return nil
}

// configNames returns the global and mode-specific config file names from
// the command line arguments, taking $SNFIT_GLOBAL_CONFIG into account.
func configNames(args []string) (global, mode string, err error) {
	if name := os.Getenv(globalConfigEnv); name != "" {
		switch len(args) {
		case 0:
			return name, "", nil
		case 1:
			return name, args[0], nil
		}
		return "", "", fmt.Errorf("$%s has been set, so you may only pass "+
			"a single config file as a parameter.", globalConfigEnv)
	}

	switch len(args) {
	case 0:
		return "", "", fmt.Errorf("No config files provided in command " +
			"line arguments.")
	case 1:
		return args[0], "", nil
	}
	return args[0], args[1], nil
}

// readLines reads r and splits it into lines.
func readLines(r io.Reader) ([]string, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(bs), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func fileLines(fname string) ([]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLines(f)
}
