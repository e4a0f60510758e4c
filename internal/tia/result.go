package tia

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResultPath is where jtestcov writes the impacted test list, relative to its
// working directory.
func ResultPath(workDir string) string {
	return filepath.Join(workDir, ".coverage", "lsts", "impacted_tests.lst")
}

// ReadResult reads the impacted test list under workDir. A missing file is an
// empty result. Lines are trimmed; blank lines and repeats are dropped.
func ReadResult(workDir string) ([]string, error) {
	f, err := os.Open(ResultPath(workDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
