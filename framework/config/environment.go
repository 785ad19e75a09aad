package config

import (
	"sort"
	"sync"
)

// Environment aggregates property sources in descending priority order and
// tracks the active profiles.
//
//	// Spring: ConfigurableEnvironment
type Environment struct {
	mu      sync.RWMutex
	sources []PropertySource

	pmu      sync.RWMutex
	profiles []string
}

func NewEnvironment() *Environment {
	return &Environment{}
}

// AddPropertySource inserts a source keeping the list sorted by descending
// priority. Among equal priorities, earlier additions win.
func (e *Environment) AddPropertySource(s PropertySource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = append(e.sources, s)
	sort.SliceStable(e.sources, func(i, j int) bool {
		return e.sources[i].Priority() > e.sources[j].Priority()
	})
}

// Sources returns the source names, highest priority first.
func (e *Environment) Sources() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.sources))
	for i, s := range e.sources {
		out[i] = s.Name()
	}
	return out
}

// Get returns the value for key from the highest-priority source that has
// it.
func (e *Environment) Get(key string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.sources {
		if v, ok := s.Get(key); ok {
			return v, true
		}
	}
	return Value{}, false
}

func (e *Environment) Contains(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// ── Typed getters ────────────────────────────────────────────────────────

func (e *Environment) GetString(key string) (string, bool) {
	if v, ok := e.Get(key); ok {
		return v.String()
	}
	return "", false
}

func (e *Environment) GetStringOr(key, fallback string) string {
	if s, ok := e.GetString(key); ok {
		return s
	}
	return fallback
}

func (e *Environment) GetInt64(key string) (int64, bool) {
	if v, ok := e.Get(key); ok {
		return v.Int64()
	}
	return 0, false
}

func (e *Environment) GetInt64Or(key string, fallback int64) int64 {
	if n, ok := e.GetInt64(key); ok {
		return n
	}
	return fallback
}

func (e *Environment) GetFloat64(key string) (float64, bool) {
	if v, ok := e.Get(key); ok {
		return v.Float64()
	}
	return 0, false
}

func (e *Environment) GetFloat64Or(key string, fallback float64) float64 {
	if f, ok := e.GetFloat64(key); ok {
		return f
	}
	return fallback
}

func (e *Environment) GetBool(key string) (bool, bool) {
	if v, ok := e.Get(key); ok {
		return v.Bool()
	}
	return false, false
}

func (e *Environment) GetBoolOr(key string, fallback bool) bool {
	if b, ok := e.GetBool(key); ok {
		return b
	}
	return fallback
}

// GetStringSlice reads an array of strings, accepting either a real array
// or a comma-separated scalar.
func (e *Environment) GetStringSlice(key string) ([]string, bool) {
	if v, ok := e.Get(key); ok {
		return v.StringSlice()
	}
	return nil, false
}

// ── Profiles ─────────────────────────────────────────────────────────────

// SetActiveProfiles replaces the active profile list.
func (e *Environment) SetActiveProfiles(profiles ...string) {
	e.pmu.Lock()
	defer e.pmu.Unlock()
	e.profiles = append([]string(nil), profiles...)
}

func (e *Environment) ActiveProfiles() []string {
	e.pmu.RLock()
	defer e.pmu.RUnlock()
	return append([]string(nil), e.profiles...)
}

// AcceptsProfile reports whether name is active.
func (e *Environment) AcceptsProfile(name string) bool {
	e.pmu.RLock()
	defer e.pmu.RUnlock()
	for _, p := range e.profiles {
		if p == name {
			return true
		}
	}
	return false
}
