// Package props models the build tool's user-property map: the mutable
// key -> string context that test-selection results are written into.
package props

import (
	"sort"
	"sync"
)

// Getter is the read side of a property store.
type Getter interface {
	Get(key string) (string, bool)
}

// Store is a mutable build property map.
type Store interface {
	Getter
	Set(key, value string)
	Keys() []string
}

// Map is an in-memory Store. The zero value is ready to use.
type Map struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMap returns a Map seeded with a copy of initial.
func NewMap(initial map[string]string) *Map {
	m := &Map{m: make(map[string]string, len(initial))}
	for k, v := range initial {
		m.m[k] = v
	}
	return m
}

func (p *Map) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[key]
	return v, ok
}

func (p *Map) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = map[string]string{}
	}
	p.m[key] = value
}

// Keys returns all keys, sorted.
func (p *Map) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tracked wraps a Store and remembers which keys were set through it, in
// first-set order.
type Tracked struct {
	Store
	changed []string
	seen    map[string]struct{}
}

func Track(s Store) *Tracked {
	return &Tracked{Store: s, seen: map[string]struct{}{}}
}

func (t *Tracked) Set(key, value string) {
	t.Store.Set(key, value)
	if _, ok := t.seen[key]; ok {
		return
	}
	t.seen[key] = struct{}{}
	t.changed = append(t.changed, key)
}

// Changed returns the keys set through t.
func (t *Tracked) Changed() []string {
	return append([]string(nil), t.changed...)
}
