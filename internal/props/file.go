package props

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"selenictia/internal/fsutil"
)

// File is a Store backed by a Java .properties file. Load reads it; Save
// rewrites it atomically in key order.
type File struct {
	*Map
	Path string
}

// LoadFile reads path into a File store. A missing file yields an empty store.
func LoadFile(path string) (*File, error) {
	f := &File{Map: NewMap(nil), Path: path}
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, err
	}
	defer fh.Close()
	m, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Map = NewMap(m)
	return f, nil
}

// Save writes the store to Path.
func (f *File) Save() error {
	var b strings.Builder
	if err := Write(&b, f.Map); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(f.Path, []byte(b.String()), 0o644)
}

// Parse reads the .properties format: '#' and '!' comments, '=', ':' or
// whitespace separators, backslash escapes and line continuations.
func Parse(r io.Reader) (map[string]string, error) {
	out := map[string]string{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var logical strings.Builder
	continuing := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if continuing {
			line = strings.TrimLeft(line, " \t\f")
		} else {
			trimmed := strings.TrimLeft(line, " \t\f")
			if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
				continue
			}
			line = trimmed
		}
		if endsWithContinuation(line) {
			logical.WriteString(line[:len(line)-1])
			continuing = true
			continue
		}
		logical.WriteString(line)
		continuing = false
		k, v, err := splitEntry(logical.String())
		logical.Reset()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out[k] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if logical.Len() > 0 {
		k, v, err := splitEntry(logical.String())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out[k] = v
	}
	return out, nil
}

func endsWithContinuation(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func splitEntry(line string) (string, string, error) {
	keyEnd := len(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			keyEnd = i
			break
		}
	}
	rest := line[keyEnd:]
	rest = strings.TrimLeft(rest, " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}
	key, err := unescape(line[:keyEnd])
	if err != nil {
		return "", "", err
	}
	val, err := unescape(rest)
	if err != nil {
		return "", "", err
	}
	return key, val, nil
}

func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, n, err := decodeUnicode(s, i)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// decodeUnicode decodes the \uXXXX escape whose 'u' is at s[i], joining a
// following low surrogate escape. It returns the rune and the number of bytes
// consumed after the 'u'.
func decodeUnicode(s string, i int) (rune, int, error) {
	hex4 := func(at int) (rune, bool) {
		if at+4 > len(s) {
			return 0, false
		}
		v, err := strconv.ParseUint(s[at:at+4], 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}
	r, ok := hex4(i + 1)
	if !ok {
		return 0, 0, fmt.Errorf("malformed \\u escape in %q", s)
	}
	if utf16.IsSurrogate(r) && i+6 < len(s) && s[i+5] == '\\' && s[i+6] == 'u' {
		if lo, ok := hex4(i + 7); ok {
			if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
				return pair, 10, nil
			}
		}
	}
	return r, 4, nil
}

// Write emits every key of s in .properties format, sorted by key.
func Write(w io.Writer, s Store) error {
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		if _, err := io.WriteString(w, FormatEntry(k, v)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// FormatEntry renders one key=value line with .properties escaping.
func FormatEntry(key, value string) string {
	return escape(key, true) + "=" + escape(value, false)
}

func escape(s string, isKey bool) string {
	var b strings.Builder
	for i, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '=', ':', '#', '!':
			b.WriteByte('\\')
			b.WriteRune(r)
		case ' ':
			if isKey || i == 0 {
				b.WriteString(`\ `)
			} else {
				b.WriteByte(' ')
			}
		default:
			if r < 0x20 || r > 0x7e {
				if r > 0xffff {
					hi, lo := utf16.EncodeRune(r)
					fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
				} else {
					fmt.Fprintf(&b, `\u%04x`, r)
				}
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
