package props

import (
	"fmt"
	"io"
	"strings"
)

// Format selects how changed properties are reported back to the build.
type Format string

const (
	// FormatArgs prints one -Dkey=value per line, ready for
	// `mvn test $(selenictia impacted-tests ...)`.
	FormatArgs Format = "args"
	// FormatProperties prints .properties lines.
	FormatProperties Format = "properties"
	FormatNone       Format = "none"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatArgs, FormatProperties, FormatNone:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected args|properties|none)", s)
	}
}

// Emit writes the given keys of s to w in format f.
func Emit(w io.Writer, f Format, s Getter, keys []string) error {
	for _, k := range keys {
		v, ok := s.Get(k)
		if !ok {
			continue
		}
		var line string
		switch f {
		case FormatNone:
			return nil
		case FormatProperties:
			line = FormatEntry(k, v)
		default:
			line = "-D" + k + "=" + v
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ParseDefine splits a -D style "key=value" definition. A bare key maps to
// "true", matching Maven's handling of -Dflag.
func ParseDefine(def string) (string, string, error) {
	k, v, found := strings.Cut(def, "=")
	k = strings.TrimSpace(k)
	if k == "" {
		return "", "", fmt.Errorf("invalid property definition %q", def)
	}
	if !found {
		return k, "true", nil
	}
	return k, v, nil
}
