package core

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	TestFormatKey     = "tia.test.format"
	DefaultTestFormat = "junit"
)

// Property is one -property key=value override.
type Property struct {
	Key   string
	Value string
}

// Properties keeps declaration order. Set replaces an existing key in place.
type Properties []Property

func (p Properties) Has(key string) bool {
	for _, e := range p {
		if e.Key == key {
			return true
		}
	}
	return false
}

func (p *Properties) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: value})
}

// Coverage holds the coverage-tool inputs shared by every operation.
type Coverage struct {
	// VMArgs are passed to the Java launcher verbatim, in order.
	VMArgs      []string
	Properties  Properties
	ShowDetails bool
	// App is the application under test: a directory or a .war/.jar/.zip/.ear.
	App string
	// Includes and Excludes are ANT-style class path patterns.
	Includes []string
	Excludes []string
}

// Validate checks the application path and the include/exclude patterns.
func (c Coverage) Validate() error {
	if !satisfies(c.App, "required") {
		return configError("app.not.set")
	}
	if !satisfies(c.App, "file|dir") {
		return configError("app.missing", c.App)
	}
	if err := checkPatterns("include", c.Includes); err != nil {
		return err
	}
	return checkPatterns("exclude", c.Excludes)
}

func checkPatterns(kind string, patterns []string) error {
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return configError("pattern.invalid", kind, p)
		}
	}
	return nil
}
