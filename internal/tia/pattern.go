package tia

import "strings"

// RunNothing is a -Dtest value that excludes every test class.
const RunNothing = "!%regex[.*]"

// FormatPattern renders test identifiers in Surefire/Failsafe -Dtest syntax.
//
// Identifiers are "Class" or "Class#method". Methods of one class are merged
// as "Class#m1+m2" at the class's first position; a whole-class entry wins
// over method entries of the same class. An empty input yields "".
func FormatPattern(ids []string) string {
	type entry struct {
		class   string
		whole   bool
		methods []string
		seen    map[string]struct{}
	}
	var order []*entry
	byClass := map[string]*entry{}
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		class, method, _ := strings.Cut(id, "#")
		class = strings.TrimSpace(class)
		method = strings.TrimSpace(method)
		if class == "" {
			continue
		}
		e, ok := byClass[class]
		if !ok {
			e = &entry{class: class, seen: map[string]struct{}{}}
			byClass[class] = e
			order = append(order, e)
		}
		if method == "" {
			e.whole = true
			continue
		}
		if _, dup := e.seen[method]; !dup {
			e.seen[method] = struct{}{}
			e.methods = append(e.methods, method)
		}
	}

	parts := make([]string, 0, len(order))
	for _, e := range order {
		if e.whole || len(e.methods) == 0 {
			parts = append(parts, e.class)
			continue
		}
		parts = append(parts, e.class+"#"+strings.Join(e.methods, "+"))
	}
	return strings.Join(parts, ",")
}
