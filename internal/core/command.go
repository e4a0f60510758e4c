package core

import (
	"context"
	"strings"

	"selenictia/internal/props"
)

// Operation supplies the parts of an invocation that differ between
// coverage-tool sub-commands.
type Operation interface {
	// Name is the jtestcov sub-command, e.g. "impacted".
	Name() string
	// Validate checks operation inputs after the shared preconditions.
	Validate() error
	// AppendArguments adds trailing, operation-specific flags.
	AppendArguments(cmd *Command)
	// AfterRun handles the results the tool left in workDir. It is only
	// called after the tool exited with code 0.
	AfterRun(ctx context.Context, workDir string, store props.Store) error
}

// Command accumulates an argument list.
type Command struct {
	args []string
}

// Add appends name and value unconditionally.
func (c *Command) Add(name, value string) {
	c.args = append(c.args, name, value)
}

// AddPath appends name and the absolute form of path.
func (c *Command) AddPath(name, path string) {
	c.Add(name, absPath(path))
}

// AddOptional appends name and value unless value is blank.
func (c *Command) AddOptional(name, value string) {
	if strings.TrimSpace(value) != "" {
		c.Add(name, value)
	}
}

// AddOptionalPath appends name and the absolute path unless path is empty.
func (c *Command) AddOptionalPath(name, path string) {
	if path != "" {
		c.AddPath(name, path)
	}
}

// AddEach appends one name/value pair per non-blank value, in order.
func (c *Command) AddEach(name string, values []string) {
	for _, v := range values {
		c.AddOptional(name, v)
	}
}

// AddFlag appends name when enabled.
func (c *Command) AddFlag(name string, enabled bool) {
	if enabled {
		c.args = append(c.args, name)
	}
}

// AddRaw appends values verbatim.
func (c *Command) AddRaw(values ...string) {
	c.args = append(c.args, values...)
}

// Args returns a copy of the accumulated arguments.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

// Assemble builds the jtestcov command line:
//
//	<java> [vmArgs...] -jar <jtestcov.jar> <op> -selenic [-settings <file>]
//	[-property k=v]... [-showdetails] -app <path>
//	[-include <p>]... [-exclude <p>]... [op flags...]
//
// A -property tia.test.format=<format> pair is appended after the declared
// properties unless they already set that key. The format comes from the
// build properties when present, otherwise "junit".
func Assemble(java string, inst ResolvedInstallation, cov Coverage, op Operation, build props.Getter) []string {
	var cmd Command
	cmd.AddRaw(java)
	cmd.AddRaw(cov.VMArgs...)
	cmd.AddPath("-jar", inst.CovtoolJar())
	cmd.AddRaw(op.Name(), "-selenic")
	cmd.AddOptionalPath("-settings", inst.SettingsFile)
	for _, p := range cov.Properties {
		if strings.TrimSpace(p.Key) == "" {
			continue
		}
		cmd.Add("-property", p.Key+"="+p.Value)
	}
	if !cov.Properties.Has(TestFormatKey) {
		cmd.Add("-property", TestFormatKey+"="+defaultTestFormat(build))
	}
	cmd.AddFlag("-showdetails", cov.ShowDetails)
	cmd.AddPath("-app", cov.App)
	cmd.AddEach("-include", cov.Includes)
	cmd.AddEach("-exclude", cov.Excludes)
	op.AppendArguments(&cmd)
	return cmd.Args()
}

func defaultTestFormat(build props.Getter) string {
	if build != nil {
		if v, ok := build.Get(TestFormatKey); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return DefaultTestFormat
}
