package core

import (
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

const (
	AgentJar            = "selenic_agent.jar"
	AnalyzerJar         = "selenic_analyzer.jar"
	DefaultSettingsFile = "selenic.properties"
)

var validate = validator.New()

// satisfies reports whether value passes the validator tag (e.g. "required",
// "file", "dir", "file|dir").
func satisfies(value, tag string) bool {
	return validate.Var(value, tag) == nil
}

// Installation locates a Selenic installation and an optional settings file.
type Installation struct {
	Home string
	// Settings is an explicit settings file. When empty,
	// <Home>/selenic.properties is used if it exists.
	Settings string
}

// ResolvedInstallation is a validated Installation with absolute paths.
type ResolvedInstallation struct {
	Home string
	// SettingsFile is "" when no settings file applies.
	SettingsFile string
}

// CovtoolJar is the jtestcov archive inside the installation.
func (r ResolvedInstallation) CovtoolJar() string {
	return filepath.Join(r.Home, "coverage", "Java", "jtestcov", "jtestcov.jar")
}

// Resolve checks, in order: Home is set; Home exists and holds both marker
// jars; an explicit settings file exists. Without an explicit settings file
// the default one is used only if present.
func (in Installation) Resolve() (ResolvedInstallation, error) {
	if !satisfies(in.Home, "required") {
		return ResolvedInstallation{}, configError("selenic.home.not.set")
	}
	home := absPath(in.Home)
	if !satisfies(home, "dir") ||
		!satisfies(filepath.Join(home, AgentJar), "file") ||
		!satisfies(filepath.Join(home, AnalyzerJar), "file") {
		return ResolvedInstallation{}, configError("selenic.missing", in.Home)
	}
	res := ResolvedInstallation{Home: home}
	if in.Settings != "" {
		if !satisfies(in.Settings, "file") {
			return ResolvedInstallation{}, configError("settings.missing", in.Settings)
		}
		res.SettingsFile = absPath(in.Settings)
		return res, nil
	}
	if def := filepath.Join(home, DefaultSettingsFile); satisfies(def, "file") {
		res.SettingsFile = def
	}
	return res, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	return satisfies(path, "file")
}
