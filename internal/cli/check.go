package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"selenictia/internal/core"
	"selenictia/internal/tia"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration without running the coverage tool",
		Long: `Runs every precondition of impacted-tests, resolves the Java launcher and
prints the resolved installation, settings file and the command line that
would be run. Nothing is created or launched.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCheck(cmd)
		},
	}
}

func (a *app) runCheck(cmd *cobra.Command) error {
	build, err := a.opts.buildStore()
	if err != nil {
		return err
	}
	loaded, err := a.opts.resolve(cmd.Flags(), build)
	if err != nil {
		return err
	}
	cfg := loaded.Config
	logger, err := a.logger(a.opts.debug || cfg.ShowDetails)
	if err != nil {
		return err
	}
	if loaded.File != "" {
		logger.Debug("loaded configuration", "file", loaded.File)
	}

	req := cfg.Request()
	op := &tia.ImpactedTests{Baseline: cfg.Baseline}
	inst, err := core.Check(req, op)
	if err != nil {
		return err
	}
	java, err := core.ResolveJava(req.Java, loaded.Getenv)
	if err != nil {
		return err
	}
	logger.Debug("preconditions passed", "installation", inst.Home, "settings", inst.SettingsFile, "java", java)
	settings := inst.SettingsFile
	if settings == "" {
		settings = "(none)"
	}
	command := core.Assemble(java, inst, req.Coverage, op, build)

	w := a.io.Stdout
	fmt.Fprintf(w, "installation: %s\n", inst.Home)
	fmt.Fprintf(w, "settings: %s\n", settings)
	fmt.Fprintf(w, "java: %s\n", java)
	_, err = fmt.Fprintf(w, "command: %s\n", strings.Join(command, " "))
	return err
}
