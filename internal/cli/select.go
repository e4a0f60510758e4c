package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"selenictia/internal/tia"
)

func (a *app) selectCommand() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "select [test-id...]",
		Short: "Print the test identifiers a -Dtest value selects",
		Long: `Reads test identifiers ("Class" or "Class#method") from the arguments, or
from stdin when there are none, and prints those the given -Dtest value
selects. Without --pattern the test build property is used, as set by
--properties-file or -D.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSelect(cmd, pattern, args)
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "-Dtest value to evaluate")
	return cmd
}

func (a *app) runSelect(cmd *cobra.Command, pattern string, ids []string) error {
	if !cmd.Flags().Changed("pattern") {
		build, err := a.opts.buildStore()
		if err != nil {
			return err
		}
		v, ok := build.Get(tia.TestProperty)
		if !ok {
			return invalidInvocationf("no --pattern given and build property %q is not set", tia.TestProperty)
		}
		pattern = v
	}
	sel, err := tia.ParseSelection(pattern)
	if err != nil {
		return invalidInvocationf("--pattern: %v", err)
	}

	if len(ids) == 0 && a.io.Stdin != nil {
		sc := bufio.NewScanner(a.io.Stdin)
		for sc.Scan() {
			if id := strings.TrimSpace(sc.Text()); id != "" {
				ids = append(ids, id)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}
	for _, id := range sel.Filter(ids) {
		if _, err := fmt.Fprintln(a.io.Stdout, id); err != nil {
			return err
		}
	}
	return nil
}
