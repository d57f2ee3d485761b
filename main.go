package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/isakkjerstad/inf2201-p6-tests/e2e/harness"
	"github.com/isakkjerstad/inf2201-p6-tests/internal/logging"
)

var version = "dev"

var (
	configPath string
	binaryFlag string
	dirFlag    string
	timeoutArg time.Duration
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "p6check",
	Short: "Conformance harness for the p6sh file system shell",
	Long: `Drive the p6sh shell through a pseudo-terminal and classify its output.

Every command batch runs in a fresh p6sh process. The output is split into
words and scanned for an error code (a token like -5); when there is none,
the expected tokens must all be present.

Configuration comes from --config (YAML), P6_* environment variables and flags.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVar(&binaryFlag, "binary", "", "target executable (default p6sh)")
	flags.StringVar(&dirFlag, "dir", "", "working directory of the target")
	flags.DurationVar(&timeoutArg, "timeout", 0, "per-session timeout (default 20s)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd.Flags().Bool("pick", false, "choose scenarios interactively")
	runCmd.Flags().Bool("build", false, "build the target with make before running")
	runCmd.Flags().Bool("shared", false, "run all scenarios against the same target state")
	runCmd.Flags().StringSliceP("scenario", "s", nil, "run only the named scenarios")
	execCmd.Flags().StringSliceP("expect", "e", nil, "tokens that must appear in the output")
	classifyCmd.Flags().StringSliceP("expect", "e", nil, "tokens that must appear in the output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

// Helper functions

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

func loadConfig() (harness.Config, error) {
	var (
		cfg harness.Config
		err error
	)
	if configPath != "" {
		cfg, err = harness.LoadConfig(configPath)
	} else {
		cfg, err = harness.ConfigFromEnv()
	}
	if err != nil {
		return cfg, err
	}

	if binaryFlag != "" {
		cfg.Executable = binaryFlag
	}
	if dirFlag != "" {
		cfg.Dir = dirFlag
	}
	if timeoutArg > 0 {
		cfg.Timeout = timeoutArg
	}
	return cfg, cfg.Validate()
}

func pickScenarios(names []string) ([]string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("--pick needs an interactive terminal")
	}

	var chosen []string
	err := huh.NewMultiSelect[string]().
		Title("Select scenarios to run").
		Options(huh.NewOptions(names...)...).
		Value(&chosen).
		Run()
	if err != nil {
		return nil, err
	}
	if len(chosen) == 0 {
		return nil, fmt.Errorf("no scenarios selected")
	}
	return chosen, nil
}

// report prints one coloured result line per scenario.
type report struct {
	out    *termenv.Output
	failed int
}

func newReport(w io.Writer) *report {
	return &report{out: termenv.NewOutput(w)}
}

func (r *report) pass(name string, verdict harness.Verdict) {
	label := r.out.String("PASS").Foreground(r.out.Color("2")).Bold()
	fmt.Fprintf(r.out, "%s %s (verdict %d)\n", label, name, int(verdict))
}

func (r *report) fail(name string, err error) {
	r.failed++
	label := r.out.String("FAIL").Foreground(r.out.Color("1")).Bold()
	fmt.Fprintf(r.out, "%s %s\n     %s\n", label, name, strings.ReplaceAll(err.Error(), "\n", "\n     "))
}

func printVerdict(w io.Writer, tokens harness.TokenStream, outcome harness.Outcome) {
	fmt.Fprintf(w, "tokens: %s\n", tokens)
	fmt.Fprintf(w, "outcome: %s\n", outcome)
	fmt.Fprintf(w, "verdict: %d (%s)\n", int(outcome.Verdict()), outcome.Verdict())
}

// Commands

var runCmd = &cobra.Command{
	Use:   "run <suite.yaml>",
	Short: "Run a suite of scenarios",
	Long: `Run the scenarios of a YAML suite against the target.

By default each scenario gets its own copy of the target in a temporary
directory, so it starts from a freshly initialized file system.

Examples:
  p6check run testdata/suite.yaml
  p6check run testdata/suite.yaml -s mkdir -s ls
  p6check run testdata/suite.yaml --pick`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		suite, err := harness.LoadSuite(args[0])
		if err != nil {
			return err
		}

		names, _ := cmd.Flags().GetStringSlice("scenario")
		if pick, _ := cmd.Flags().GetBool("pick"); pick {
			if names, err = pickScenarios(suite.Names()); err != nil {
				return err
			}
		}
		scenarios, err := suite.Select(names...)
		if err != nil {
			return err
		}

		if build, _ := cmd.Flags().GetBool("build"); build {
			target, err := harness.NewTarget(cfg, logger)
			if err != nil {
				return err
			}
			binary, err := target.Build(ctx)
			if err != nil {
				return err
			}
			cfg.Executable = binary
		}

		shared, _ := cmd.Flags().GetBool("shared")
		rep := newReport(cmd.OutOrStdout())
		for _, scenario := range scenarios {
			scenarioCfg := cfg
			cleanup := func() error { return nil }
			if !shared {
				if scenarioCfg, cleanup, err = harness.NewWorkdir(cfg); err != nil {
					return err
				}
			}

			runner := harness.NewRunner(harness.NewEngine(scenarioCfg, harness.WithLogger(logger)), logger)
			result, err := runner.Run(ctx, scenario)
			if cerr := cleanup(); cerr != nil {
				logger.Warn("failed to remove workdir", "error", cerr)
			}

			switch {
			case err == nil:
				rep.pass(scenario.Name, result.Verdict())
			case errors.Is(err, harness.ErrScenarioFailed):
				rep.fail(scenario.Name, err)
			default:
				// Harness failures abort the run.
				rep.fail(scenario.Name, err)
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d scenarios passed\n", len(scenarios)-rep.failed, len(scenarios))
		if rep.failed > 0 {
			return fmt.Errorf("%d scenarios failed", rep.failed)
		}
		return nil
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <batch>...",
	Short: "Run command batches and print the verdict",
	Long: `Run each argument as one batch in a fresh session and classify the output.

Use \n inside an argument to send several commands in the same session.

Examples:
  p6check exec 'mkdir d1\nmkdir d2\nls' -e d1 -e d2
  p6check exec 'mkdir a' 'ls' -e a`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		expect, _ := cmd.Flags().GetStringSlice("expect")

		batches := make([]string, 0, len(args))
		for _, arg := range args {
			batches = append(batches, strings.ReplaceAll(arg, `\n`, "\n"))
		}

		engine := harness.NewEngine(cfg, harness.WithLogger(newLogger()))
		tokens, err := engine.RunCommands(cmd.Context(), batches...)
		if err != nil {
			return err
		}
		printVerdict(cmd.OutOrStdout(), tokens, harness.Classify(tokens, expect))
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a captured transcript read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		expect, _ := cmd.Flags().GetStringSlice("expect")
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}
		tokens := harness.Tokenize(harness.SplitLines(raw))
		printVerdict(cmd.OutOrStdout(), tokens, harness.Classify(tokens, expect))
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the target with make (clean, then the make target)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		target, err := harness.NewTarget(cfg, newLogger())
		if err != nil {
			return err
		}
		binary, err := target.Build(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Built %s\n", binary)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the target and its file system image (make clean)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		target, err := harness.NewTarget(cfg, newLogger())
		if err != nil {
			return err
		}
		if err := target.Clean(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleaned")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "p6check version %s\n", version)
	},
}
