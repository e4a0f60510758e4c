// Package cli is the selenictia command line. It wires configuration, the
// build property store, logging and run records around the coverage tool
// runner and maps outcomes to exit codes.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"selenictia/internal/logging"
)

// Version is set at link time.
var Version = "dev"

// IO are the streams the CLI and the coverage tool use.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func stdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Result is the outcome of one CLI invocation.
type Result struct {
	ExitCode int
	// RunID is the recorded run, if one was started.
	RunID string
}

// Run executes args (without argv[0]) with the process streams.
func Run(ctx context.Context, args []string) (Result, error) {
	return RunWithIO(ctx, args, stdIO())
}

// RunWithIO executes args with the given streams.
func RunWithIO(ctx context.Context, args []string, streams IO) (Result, error) {
	a := &app{io: streams}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(streams.Stdin)
	root.SetOut(streams.Stdout)
	root.SetErr(streams.Stderr)

	err := root.ExecuteContext(ctx)
	return Result{ExitCode: ExitCode(err), RunID: a.runID}, err
}

type app struct {
	io   IO
	opts options

	runID string
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "selenictia",
		Short: "Narrow a build's tests to those impacted by code changes",
		Long: `selenictia runs Selenic's jtestcov impact analysis against a baseline
coverage report and writes the impacted tests into the build's test
selection properties (test, it.test).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return invalidInvocationf("unknown command %q", args[0])
			}
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})
	a.opts.bind(root.PersistentFlags())

	root.AddCommand(
		a.impactedTestsCommand(),
		a.checkCommand(),
		a.runsCommand(),
		a.selectCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *app) logger(debug bool) (*slog.Logger, error) {
	format, err := logging.ParseFormat(a.opts.logFormat)
	if err != nil {
		return nil, invalidInvocationf("--log-format: %v", err)
	}
	return logging.New(logging.Config{Debug: debug, Format: format, Output: a.io.Stderr}), nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return invalidInvocationf("%s takes no arguments (got %q)", cmd.CommandPath(), args)
	}
	return nil
}
