package config

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// PropertySource supplies configuration values under a name and priority.
// Higher priority wins when the same key appears in several sources.
//
//	// Spring: PropertySource / Environment property source abstraction
type PropertySource interface {
	Name() string
	Priority() int
	Get(key string) (Value, bool)
	Keys() []string
}

// ── Map source ───────────────────────────────────────────────────────────

// MapPropertySource serves values from an in-memory map. Useful for
// programmatic defaults and for tests.
type MapPropertySource struct {
	name     string
	priority int

	mu     sync.RWMutex
	values map[string]Value
}

func NewMapPropertySource(name string, priority int, values map[string]any) *MapPropertySource {
	vs := make(map[string]Value, len(values))
	for k, v := range values {
		vs[k] = ValueOf(v)
	}
	return &MapPropertySource{name: name, priority: priority, values: vs}
}

func (s *MapPropertySource) Name() string  { return s.name }
func (s *MapPropertySource) Priority() int { return s.priority }

func (s *MapPropertySource) Get(key string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MapPropertySource) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set adds or replaces a single value.
func (s *MapPropertySource) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = ValueOf(value)
}

// ── OS environment source ────────────────────────────────────────────────

// EnvPropertySource maps dotted property keys onto prefixed environment
// variables: with prefix "GOSPRING_", the key "database.url" reads
// GOSPRING_DATABASE_URL.
type EnvPropertySource struct {
	name     string
	prefix   string
	priority int
}

func NewEnvPropertySource(prefix string, priority int) *EnvPropertySource {
	return &EnvPropertySource{name: "env:" + prefix, prefix: prefix, priority: priority}
}

func (s *EnvPropertySource) Name() string  { return s.name }
func (s *EnvPropertySource) Priority() int { return s.priority }

func (s *EnvPropertySource) Get(key string) (Value, bool) {
	env := s.prefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	raw, ok := os.LookupEnv(env)
	if !ok {
		return Value{}, false
	}
	return ValueOf(raw), true
}

func (s *EnvPropertySource) Keys() []string {
	var keys []string
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, s.prefix) {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, s.prefix), "_", "."))
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
