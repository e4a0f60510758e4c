// Package messages resolves user-facing messages from an embedded, localizable
// catalog keyed by stable identifiers.
//
// Bundles are YAML maps of key -> pattern. Patterns use positional
// placeholders ({0}, {1}, ...). messages.yaml is the default bundle;
// messages_<lang>.yaml overlays it for a language.
package messages

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed messages*.yaml
var bundles embed.FS

// Catalog is an immutable key -> pattern table.
type Catalog struct {
	lang     string
	patterns map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog for the language of the process locale.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(LangFromEnv(os.Getenv))
		if err != nil {
			// The embedded bundles are part of the binary; failing here is a build defect.
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Get formats key from the default catalog.
func Get(key string, args ...any) string {
	return Default().Get(key, args...)
}

// Load builds a catalog for lang. An empty lang, or one without a bundle,
// yields the default bundle only.
func Load(lang string) (*Catalog, error) {
	base, err := readBundle("messages.yaml")
	if err != nil {
		return nil, err
	}
	c := &Catalog{patterns: base}
	if lang == "" {
		return c, nil
	}
	overlay, err := readBundle("messages_" + lang + ".yaml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	c.lang = lang
	for k, v := range overlay {
		c.patterns[k] = v
	}
	return c, nil
}

func readBundle(name string) (map[string]string, error) {
	b, err := bundles.ReadFile(name)
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return m, nil
}

// Lang is the overlay language in use ("" for the default bundle).
func (c *Catalog) Lang() string { return c.lang }

// Has reports whether key is defined.
func (c *Catalog) Has(key string) bool {
	_, ok := c.patterns[key]
	return ok
}

// Get resolves key and substitutes positional arguments. An unknown key
// resolves to the key itself. Placeholders without a matching argument, and
// malformed placeholders, are left as written.
func (c *Catalog) Get(key string, args ...any) string {
	pattern, ok := c.patterns[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return pattern
	}
	return format(pattern, args)
}

func format(pattern string, args []any) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		if ch != '{' {
			b.WriteByte(ch)
			continue
		}
		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			b.WriteString(pattern[i:])
			break
		}
		idx, err := strconv.Atoi(pattern[i+1 : i+end])
		if err != nil || idx < 0 || idx >= len(args) {
			b.WriteString(pattern[i : i+end+1])
		} else {
			fmt.Fprint(&b, args[idx])
		}
		i += end
	}
	return b.String()
}

// LangFromEnv picks the language from LC_ALL, LC_MESSAGES or LANG, in that
// order. "de_DE.UTF-8" yields "de"; "C" and "POSIX" yield "".
func LangFromEnv(getenv func(string) string) string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := strings.TrimSpace(getenv(name))
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, "_.@"); i >= 0 {
			v = v[:i]
		}
		v = strings.ToLower(v)
		if v == "c" || v == "posix" {
			return ""
		}
		return v
	}
	return ""
}
