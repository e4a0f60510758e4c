// Package config resolves invocation settings from, lowest to highest
// precedence: defaults, a .env file, the process environment, a YAML file,
// and selenic.* build properties. Command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"selenictia/internal/core"
	"selenictia/internal/props"
)

const (
	DefaultFile     = "selenic-tia.yaml"
	DefaultEnvFile  = ".env"
	DefaultBuildDir = "target"
)

// Environment variables.
const (
	EnvHome     = "SELENIC_HOME"
	EnvJavaHome = "JAVA_HOME"
)

// Build property keys, as used in a pom.xml or on the mvn command line.
const (
	KeyHome        = "selenic.home"
	KeySettings    = "selenic.settings"
	KeyVMArgs      = "selenic.coverage.vmargs"
	KeyShowDetails = "selenic.coverage.showdetails"
	KeyApp         = "selenic.coverage.binaries"
	KeyIncludes    = "selenic.coverage.binaries.include"
	KeyExcludes    = "selenic.coverage.binaries.exclude"
	KeyBaseline    = "selenic.coverage.baseline"
)

// Config is the merged invocation configuration.
type Config struct {
	Home     string `yaml:"home"`
	Settings string `yaml:"settings"`
	Java     string `yaml:"java"`
	BuildDir string `yaml:"buildDir" validate:"required"`

	VMArgs      []string   `yaml:"vmArgs" validate:"dive,required"`
	Properties  Properties `yaml:"properties"`
	ShowDetails bool       `yaml:"showDetails"`
	App         string     `yaml:"app"`
	Includes    []string   `yaml:"includes"`
	Excludes    []string   `yaml:"excludes"`
	Baseline    string     `yaml:"baseline"`
}

func Default() Config {
	return Config{BuildDir: DefaultBuildDir}
}

// Request maps c onto the runner's input.
func (c Config) Request() core.Request {
	return core.Request{
		Installation: core.Installation{Home: c.Home, Settings: c.Settings},
		Coverage: core.Coverage{
			VMArgs:      c.VMArgs,
			Properties:  core.Properties(c.Properties),
			ShowDetails: c.ShowDetails,
			App:         c.App,
			Includes:    c.Includes,
			Excludes:    c.Excludes,
		},
		Java:     c.Java,
		BuildDir: c.BuildDir,
	}
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}()

// Validate checks structural constraints. Presence and existence of the
// installation, application and baseline are checked by the runner.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &core.Error{Kind: core.ErrConfig, Key: "config.invalid", Args: []any{strings.TrimPrefix(fe.Namespace(), "Config."), fe.Value()}, Cause: err}
	}
	return err
}

// Options selects the sources Load reads.
type Options struct {
	// EnvFile defaults to .env; a missing default is ignored.
	EnvFile         string
	EnvFileExplicit bool
	// File defaults to selenic-tia.yaml; a missing default is ignored.
	File         string
	FileExplicit bool
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	Build  props.Getter
}

// Loaded is the result of Load.
type Loaded struct {
	Config Config
	// Getenv resolves the process environment, falling back to the .env file.
	Getenv func(string) string
	// File is the YAML file that was read, or "".
	File string
}

// Load merges every source below the command line.
func Load(opts Options) (*Loaded, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := readEnvFile(envFile, opts.EnvFileExplicit)
	if err != nil {
		return nil, err
	}
	out := &Loaded{Config: Default(), Getenv: overlayEnv(getenv, dotenv)}
	out.Config.ApplyEnv(out.Getenv)

	file := opts.File
	if file == "" {
		file = DefaultFile
	}
	read, err := out.Config.ApplyFile(file, opts.FileExplicit)
	if err != nil {
		return nil, err
	}
	if read {
		out.File = file
	}
	if opts.Build != nil {
		if err := out.Config.ApplyBuildProperties(opts.Build); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readEnvFile(path string, required bool) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, readError(path, err)
	}
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, readError(path, err)
	}
	return m, nil
}

// overlayEnv prefers the real environment over .env values.
func overlayEnv(getenv func(string) string, dotenv map[string]string) func(string) string {
	if len(dotenv) == 0 {
		return getenv
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

// ApplyEnv reads SELENIC_HOME.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvHome)); v != "" {
		c.Home = v
	}
}

// ApplyFile overlays the YAML file at path. Keys absent from the file keep
// their current value. It reports whether the file was read.
func (c *Config) ApplyFile(path string, required bool) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, readError(path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return false, readError(path, err)
	}
	return true, nil
}

// ApplyBuildProperties overlays the selenic.* build properties. List values
// are comma separated.
func (c *Config) ApplyBuildProperties(g props.Getter) error {
	str := func(key string, dst *string) {
		if v, ok := g.Get(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := g.Get(key); ok {
			*dst = SplitList(v)
		}
	}
	str(KeyHome, &c.Home)
	str(KeySettings, &c.Settings)
	str(KeyApp, &c.App)
	str(KeyBaseline, &c.Baseline)
	list(KeyVMArgs, &c.VMArgs)
	list(KeyIncludes, &c.Includes)
	list(KeyExcludes, &c.Excludes)
	if v, ok := g.Get(KeyShowDetails); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return &core.Error{Kind: core.ErrConfig, Key: "config.invalid", Args: []any{KeyShowDetails, v}, Cause: err}
		}
		c.ShowDetails = b
	}
	return nil
}

// SplitList splits a comma separated value, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func readError(path string, err error) error {
	return &core.Error{Kind: core.ErrConfig, Key: "config.read.failed", Args: []any{path, err}, Cause: err}
}

// Properties is an ordered YAML mapping of -property overrides.
type Properties core.Properties

func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}
	out := make(core.Properties, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: property %q must be a scalar", v.Line, k.Value)
		}
		value := v.Value
		if v.Tag == "!!null" {
			value = ""
		}
		out.Set(k.Value, value)
	}
	*p = Properties(out)
	return nil
}
