package container

import (
	"reflect"
	"sort"
	"sync"
)

// DefinitionRegistry holds bean definitions keyed by name, with a secondary
// index from concrete type to name for type-directed lookup. All mutating
// operations fail with ErrConfigurationFrozen once Freeze has been called.
//
//	// Spring: BeanDefinitionRegistry
type DefinitionRegistry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	byType      map[reflect.Type]string
	byTypeName  map[string]string
	frozen      bool
}

func NewDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{
		definitions: make(map[string]*Definition),
		byType:      make(map[reflect.Type]string),
		byTypeName:  make(map[string]string),
	}
}

// Register adds a definition. Duplicate names are rejected; registering a
// second definition with the same concrete type is allowed and repoints the
// type index at the newcomer.
func (r *DefinitionRegistry) Register(def *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrConfigurationFrozen
	}
	if _, exists := r.definitions[def.name]; exists {
		return &BeanAlreadyExistsError{Name: def.name}
	}
	r.definitions[def.name] = def
	if def.typ != nil {
		r.byType[def.typ] = def.name
		r.byTypeName[def.typeName] = def.name
	}
	return nil
}

// Modify applies mutate to the stored definition under the write lock.
func (r *DefinitionRegistry) Modify(name string, mutate func(*Definition)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrConfigurationFrozen
	}
	def, ok := r.definitions[name]
	if !ok {
		return &BeanNotFoundError{Name: name}
	}
	mutate(def)
	return nil
}

// Remove deletes a definition and any index entries pointing at it.
func (r *DefinitionRegistry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrConfigurationFrozen
	}
	def, ok := r.definitions[name]
	if !ok {
		return &BeanNotFoundError{Name: name}
	}
	delete(r.definitions, name)
	if def.typ != nil && r.byType[def.typ] == name {
		delete(r.byType, def.typ)
	}
	if def.typeName != "" && r.byTypeName[def.typeName] == name {
		delete(r.byTypeName, def.typeName)
	}
	return nil
}

// Get returns a copy of the named definition, so callers cannot mutate
// registry state behind the lock.
func (r *DefinitionRegistry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[name]
	if !ok {
		return nil, false
	}
	return def.clone(), true
}

// definition returns the live definition for package-internal use.
func (r *DefinitionRegistry) definition(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[name]
	return def, ok
}

func (r *DefinitionRegistry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.definitions[name]
	return ok
}

// Names returns all registered names, sorted for determinism.
func (r *DefinitionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *DefinitionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// NamesOfType returns every bean name whose definition records type t,
// sorted.
func (r *DefinitionRegistry) NamesOfType(t reflect.Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, def := range r.definitions {
		if def.typ == t {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// NameForType resolves a concrete type to a bean name, falling back to the
// type-name string index when the reflect.Type itself was never indexed.
func (r *DefinitionRegistry) NameForType(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.byType[t]; ok {
		return name, true
	}
	name, ok := r.byTypeName[t.String()]
	return name, ok
}

// Graph snapshots the dependency adjacency: every registered name maps to a
// copy of its declared dependencies.
func (r *DefinitionRegistry) Graph() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string, len(r.definitions))
	for name, def := range r.definitions {
		out[name] = def.DependsOn()
	}
	return out
}

// Freeze makes the registry read-only. Freezing is one-way.
func (r *DefinitionRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *DefinitionRegistry) IsFrozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
