package core

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

func javaExecutable() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

// ResolveJava picks the Java launcher: explicit wins; then
// $JAVA_HOME/bin/java if it exists; then java on PATH.
func ResolveJava(explicit string, getenv func(string) string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	if home := strings.TrimSpace(getenv("JAVA_HOME")); home != "" {
		candidate := filepath.Join(home, "bin", javaExecutable())
		if satisfies(candidate, "file") {
			return absPath(candidate), nil
		}
	}
	if p, err := exec.LookPath(javaExecutable()); err == nil {
		return p, nil
	}
	return "", configError("java.not.found")
}
