package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"selenictia/internal/config"
	"selenictia/internal/core"
	"selenictia/internal/logging"
	"selenictia/internal/props"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configFile     string
	envFile        string
	propertiesFile string
	defines        []string
	emit           string
	debug          bool
	logFormat      string

	home        string
	settings    string
	java        string
	buildDir    string
	vmArgs      []string
	properties  []string
	showDetails bool
	app         string
	includes    []string
	excludes    []string
	baseline    string
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.configFile, "config", "", "YAML configuration file (default "+config.DefaultFile+" if present)")
	fs.StringVar(&o.envFile, "env-file", "", "dotenv file (default "+config.DefaultEnvFile+" if present)")
	fs.StringVar(&o.propertiesFile, "properties-file", "", "build properties file to read and update")
	fs.StringArrayVarP(&o.defines, "define", "D", nil, "build property key=value (repeatable)")
	fs.StringVar(&o.emit, "emit", string(props.FormatArgs), "print changed build properties as args|properties|none")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	fs.StringVar(&o.logFormat, "log-format", string(logging.FormatAuto), "log format: auto|text|json")

	fs.StringVar(&o.home, "home", "", "Selenic installation directory")
	fs.StringVar(&o.settings, "settings", "", "Selenic settings file")
	fs.StringVar(&o.java, "java", "", "Java launcher (default $JAVA_HOME/bin/java, then java on PATH)")
	fs.StringVar(&o.buildDir, "build-dir", "", "build output directory (default "+config.DefaultBuildDir+")")
	fs.StringArrayVar(&o.vmArgs, "vm-arg", nil, "JVM argument for the coverage tool (repeatable)")
	fs.StringArrayVar(&o.properties, "property", nil, "coverage tool property key=value (repeatable)")
	fs.BoolVar(&o.showDetails, "show-details", false, "ask the coverage tool for detailed output")
	fs.StringVar(&o.app, "app", "", "application binaries: directory or archive")
	fs.StringArrayVar(&o.includes, "include", nil, "class pattern to include (repeatable)")
	fs.StringArrayVar(&o.excludes, "exclude", nil, "class pattern to exclude (repeatable)")
	fs.StringVar(&o.baseline, "baseline", "", "baseline coverage report")
}

// buildStore loads --properties-file and applies -D definitions on top.
func (o *options) buildStore() (*props.File, error) {
	var (
		store *props.File
		err   error
	)
	if o.propertiesFile != "" {
		store, err = props.LoadFile(o.propertiesFile)
		if err != nil {
			return nil, core.FilesystemError("properties.read.failed", err)
		}
	} else {
		store = &props.File{Map: props.NewMap(nil)}
	}
	for _, def := range o.defines {
		k, v, err := props.ParseDefine(def)
		if err != nil {
			return nil, invalidInvocationf("-D: %v", err)
		}
		store.Set(k, v)
	}
	return store, nil
}

// resolve merges every configuration source, flags last.
func (o *options) resolve(fs *pflag.FlagSet, build props.Getter) (*config.Loaded, error) {
	loaded, err := config.Load(config.Options{
		EnvFile:         o.envFile,
		EnvFileExplicit: fs.Changed("env-file"),
		File:            o.configFile,
		FileExplicit:    fs.Changed("config"),
		Build:           build,
	})
	if err != nil {
		return nil, err
	}
	if err := o.applyFlags(fs, &loaded.Config); err != nil {
		return nil, err
	}
	if err := loaded.Config.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

func (o *options) applyFlags(fs *pflag.FlagSet, c *config.Config) error {
	str := func(name, v string, dst *string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	str("home", o.home, &c.Home)
	str("settings", o.settings, &c.Settings)
	str("java", o.java, &c.Java)
	str("build-dir", o.buildDir, &c.BuildDir)
	str("app", o.app, &c.App)
	str("baseline", o.baseline, &c.Baseline)
	if fs.Changed("vm-arg") {
		c.VMArgs = o.vmArgs
	}
	if fs.Changed("include") {
		c.Includes = o.includes
	}
	if fs.Changed("exclude") {
		c.Excludes = o.excludes
	}
	if fs.Changed("show-details") {
		c.ShowDetails = o.showDetails
	}
	for _, p := range o.properties {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return invalidInvocationf("--property %q: expected key=value", p)
		}
		set := (*core.Properties)(&c.Properties)
		set.Set(strings.TrimSpace(k), v)
	}
	return nil
}
