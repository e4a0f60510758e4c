package tia

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Selection is a parsed -Dtest value. It answers which test identifiers the
// build's test runner would execute for that value.
type Selection struct {
	includes []matcher
	excludes []matcher
}

type matcher interface {
	matches(class, method string) bool
}

// ParseSelection parses the Surefire -Dtest grammar: comma-separated
// patterns, each optionally prefixed with '!' to exclude. A pattern is either
// "%regex[classRegex]" / "%regex[classRegex#methodRegex]" or
// "classGlob[#methodGlob[+methodGlob...]]". Class globs without a package
// match any package; "a.b.C", "a/b/C" and "a/b/C.java" are equivalent.
func ParseSelection(s string) (*Selection, error) {
	sel := &Selection{}
	for _, raw := range strings.Split(s, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		exclude := strings.HasPrefix(p, "!")
		if exclude {
			p = strings.TrimSpace(p[1:])
		}
		m, err := parseMatcher(p)
		if err != nil {
			return nil, err
		}
		if exclude {
			sel.excludes = append(sel.excludes, m)
		} else {
			sel.includes = append(sel.includes, m)
		}
	}
	return sel, nil
}

// Selects reports whether id ("Class" or "Class#method") would run. With no
// inclusion patterns everything not excluded runs.
func (s *Selection) Selects(id string) bool {
	class, method, _ := strings.Cut(strings.TrimSpace(id), "#")
	included := len(s.includes) == 0
	for _, m := range s.includes {
		if m.matches(class, method) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, m := range s.excludes {
		if m.matches(class, method) {
			return false
		}
	}
	return true
}

// Filter returns the ids that Selects accepts, in input order.
func (s *Selection) Filter(ids []string) []string {
	var out []string
	for _, id := range ids {
		if s.Selects(id) {
			out = append(out, id)
		}
	}
	return out
}

func parseMatcher(p string) (matcher, error) {
	if strings.HasPrefix(p, "%regex[") {
		if !strings.HasSuffix(p, "]") {
			return nil, fmt.Errorf("unterminated %%regex in %q", p)
		}
		body := p[len("%regex[") : len(p)-1]
		classExpr, methodExpr, hasMethod := strings.Cut(body, "#")
		rm := regexMatcher{}
		var err error
		if rm.class, err = regexp.Compile("^(?:" + classExpr + ")$"); err != nil {
			return nil, fmt.Errorf("bad class regex in %q: %w", p, err)
		}
		if hasMethod {
			if rm.method, err = regexp.Compile("^(?:" + methodExpr + ")$"); err != nil {
				return nil, fmt.Errorf("bad method regex in %q: %w", p, err)
			}
		}
		return rm, nil
	}

	classPart, methodPart, hasMethod := strings.Cut(p, "#")
	gm := globMatcher{}
	if classPart = strings.TrimSpace(classPart); classPart != "" {
		gm.class = classGlob(classPart)
		if !doublestar.ValidatePattern(gm.class) {
			return nil, fmt.Errorf("bad class pattern %q", classPart)
		}
	}
	if hasMethod {
		for _, m := range strings.Split(methodPart, "+") {
			if m = strings.TrimSpace(m); m == "" {
				continue
			}
			if !doublestar.ValidatePattern(m) {
				return nil, fmt.Errorf("bad method pattern %q", m)
			}
			gm.methods = append(gm.methods, m)
		}
	}
	return gm, nil
}

// classGlob normalizes a class pattern to a slash-separated path without
// extension; a pattern without a package matches in any package.
func classGlob(p string) string {
	p = strings.TrimSuffix(strings.TrimSuffix(p, ".java"), ".class")
	p = strings.ReplaceAll(p, ".", "/")
	if !strings.Contains(p, "/") {
		p = "**/" + p
	}
	return p
}

func classPath(class string) string {
	class = strings.TrimSuffix(strings.TrimSuffix(class, ".java"), ".class")
	return strings.ReplaceAll(class, ".", "/")
}

type globMatcher struct {
	class   string
	methods []string
}

func (g globMatcher) matches(class, method string) bool {
	if g.class != "" {
		ok, err := doublestar.Match(g.class, classPath(class))
		if err != nil || !ok {
			return false
		}
	}
	if len(g.methods) == 0 {
		return true
	}
	if method == "" {
		return false
	}
	for _, m := range g.methods {
		if ok, _ := doublestar.Match(m, method); ok {
			return true
		}
	}
	return false
}

type regexMatcher struct {
	class  *regexp.Regexp
	method *regexp.Regexp
}

func (r regexMatcher) matches(class, method string) bool {
	if !r.class.MatchString(class) && !r.class.MatchString(classPath(class)+".class") {
		return false
	}
	if r.method == nil {
		return true
	}
	return method != "" && r.method.MatchString(method)
}
