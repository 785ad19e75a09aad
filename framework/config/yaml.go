package config

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// YamlPropertySource serves values parsed from a YAML document. Nested
// tables are flattened into dotted keys, so
//
//	server:
//	  port: 8080
//
// is addressable as "server.port". Array values stay whole under their key.
type YamlPropertySource struct {
	name     string
	path     string
	priority int

	mu     sync.RWMutex
	values map[string]Value
}

// NewYamlPropertySource parses the file at path.
func NewYamlPropertySource(path string, priority int) (*YamlPropertySource, error) {
	s := &YamlPropertySource{name: "yaml:" + path, path: path, priority: priority}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewYamlPropertySourceFromBytes parses an in-memory document.
func NewYamlPropertySourceFromBytes(name string, data []byte, priority int) (*YamlPropertySource, error) {
	values, err := parseYaml(data)
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", name, err)
	}
	return &YamlPropertySource{name: name, priority: priority, values: values}, nil
}

// Reload re-reads the backing file and swaps the flattened map in place.
// Sources built from bytes have no backing file and cannot reload.
func (s *YamlPropertySource) Reload() error {
	if s.path == "" {
		return fmt.Errorf("config: source %s has no backing file", s.name)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", s.path, err)
	}
	values, err := parseYaml(data)
	if err != nil {
		return fmt.Errorf("config: parsing %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *YamlPropertySource) Name() string  { return s.name }
func (s *YamlPropertySource) Priority() int { return s.priority }

// Path returns the backing file path, empty for in-memory sources.
func (s *YamlPropertySource) Path() string { return s.path }

func (s *YamlPropertySource) Get(key string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *YamlPropertySource) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseYaml(data []byte) (map[string]Value, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	flat := make(map[string]Value)
	flatten("", doc, flat)
	return flat, nil
}

func flatten(prefix string, node map[string]any, into map[string]Value) {
	for key, raw := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if child, ok := raw.(map[string]any); ok {
			flatten(full, child, into)
			continue
		}
		into[full] = ValueOf(raw)
	}
}
