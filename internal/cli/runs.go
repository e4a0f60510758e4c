package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"selenictia/internal/state"
)

func (a *app) runsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, oldest first",
		Long: `Lists the runs recorded in the build directory. The build directory is
resolved like impacted-tests resolves it: --build-dir, selenic.* build
properties, the configuration file, then the default.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listRuns(cmd)
		},
	}
}

func (a *app) listRuns(cmd *cobra.Command) error {
	build, err := a.opts.buildStore()
	if err != nil {
		return err
	}
	loaded, err := a.opts.resolve(cmd.Flags(), build)
	if err != nil {
		return err
	}
	store, err := state.NewStore(loaded.Config.BuildDir)
	if err != nil {
		return invalidInvocationf("--build-dir: %v", err)
	}
	records, err := store.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.io.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tOPERATION\tSTARTED\tSTATUS\tTESTS\tINPUTS\tFAILURE")
	for _, rec := range records {
		if rec.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\tunreadable\t-\t-\t%v\n", rec.ID, rec.Err)
			continue
		}
		run := rec.Run
		tests := "-"
		if run.SelectedTests != nil {
			tests = strconv.Itoa(*run.SelectedTests)
		}
		inputs := "-"
		if len(run.Fingerprint) >= 12 {
			inputs = run.Fingerprint[:12]
		}
		failure := "-"
		if rec.Failure != nil {
			failure = string(rec.Failure.FailureClass) + ": " + rec.Failure.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.RunID, run.Operation, run.StartTime.Format(time.RFC3339), run.Status, tests, inputs, failure)
	}
	return tw.Flush()
}
