package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hoowhoami/gospring/framework/logging"
)

// BeanFactory turns definitions into live instances. Singletons go through
// a double-checked cache guarded by an RWMutex; prototypes bypass the cache
// entirely.
//
//	// Spring: DefaultListableBeanFactory
type BeanFactory struct {
	registry *DefinitionRegistry

	mu         sync.RWMutex
	singletons map[string]any

	pmu        sync.RWMutex
	processors []BeanPostProcessor
}

func NewBeanFactory(registry *DefinitionRegistry) *BeanFactory {
	return &BeanFactory{
		registry:   registry,
		singletons: make(map[string]any),
	}
}

// Resolver is the view of the factory handed to bean factories. Lookups
// made through it share the caller's creation chain, so cycles that only
// materialise at construction time are still detected.
type Resolver struct {
	factory *BeanFactory
	chain   *creationChain
}

// Bean resolves a dependency by name within the current creation chain.
func (r *Resolver) Bean(name string) (any, error) {
	return r.factory.resolve(name, r.chain)
}

// ResolveBean resolves a dependency by name and asserts its type.
func ResolveBean[T any](r *Resolver, name string) (T, error) {
	var zero T
	bean, err := r.Bean(name)
	if err != nil {
		return zero, err
	}
	typed, ok := bean.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Found:    fmt.Sprintf("%T", bean),
		}
	}
	return typed, nil
}

// GetBean resolves a bean by name on a fresh creation chain.
func (f *BeanFactory) GetBean(name string) (any, error) {
	return f.resolve(name, newCreationChain())
}

// GetBeanByType resolves the bean registered for type t.
func (f *BeanFactory) GetBeanByType(t reflect.Type) (any, error) {
	name, ok := f.registry.NameForType(t)
	if !ok {
		return nil, &BeanNotFoundError{Name: t.String()}
	}
	return f.GetBean(name)
}

func (f *BeanFactory) resolve(name string, chain *creationChain) (any, error) {
	def, ok := f.registry.definition(name)
	if !ok {
		return nil, &BeanNotFoundError{Name: name}
	}

	if def.scope == ScopeSingleton {
		f.mu.RLock()
		cached, hit := f.singletons[name]
		f.mu.RUnlock()
		if hit {
			return cached, nil
		}
	}

	if !chain.begin(name) {
		return nil, &CircularDependencyError{Chain: append(chain.snapshot(), name)}
	}
	defer chain.end(name)

	instance, err := f.createBean(def, chain)
	if err != nil {
		return nil, err
	}

	if def.scope == ScopeSingleton {
		// Two goroutines can race past the cache miss and build the bean
		// twice. The second writer discards its instance in favour of the
		// cached one so every caller sees a single identity.
		f.mu.Lock()
		if cached, hit := f.singletons[name]; hit {
			f.mu.Unlock()
			return cached, nil
		}
		f.singletons[name] = instance
		f.mu.Unlock()
	}
	return instance, nil
}

// createBean runs the creation pipeline: factory, before-init processors,
// init callback, after-init processors. Circular-dependency errors from
// nested resolution pass through untouched; anything else is wrapped.
func (f *BeanFactory) createBean(def *Definition, chain *creationChain) (any, error) {
	logging.L().Debug("creating bean",
		zap.String("bean", def.name),
		zap.String("scope", string(def.scope)),
		zap.Int("depth", chain.depth()))

	instance, err := def.factory(&Resolver{factory: f, chain: chain})
	if err != nil {
		return nil, wrapCreationError(def.name, err)
	}

	for _, p := range f.postProcessors() {
		instance, err = p.BeforeInitialization(instance, def.name)
		if err != nil {
			return nil, wrapCreationError(def.name,
				fmt.Errorf("post-processor %s (before): %w", p.ProcessorName(), err))
		}
	}

	if def.initFn != nil {
		if err := def.initFn(instance); err != nil {
			return nil, wrapCreationError(def.name, fmt.Errorf("init failed: %w", err))
		}
	}

	for _, p := range f.postProcessors() {
		instance, err = p.AfterInitialization(instance, def.name)
		if err != nil {
			return nil, wrapCreationError(def.name,
				fmt.Errorf("post-processor %s (after): %w", p.ProcessorName(), err))
		}
	}
	return instance, nil
}

func wrapCreationError(name string, err error) error {
	var circular *CircularDependencyError
	if errors.As(err, &circular) {
		return err
	}
	return &BeanCreationError{Name: name, Cause: err}
}

// AddBeanPostProcessor registers a processor and re-sorts the list by
// ascending order. Beans created before registration are not revisited.
func (f *BeanFactory) AddBeanPostProcessor(p BeanPostProcessor) {
	f.pmu.Lock()
	defer f.pmu.Unlock()
	f.processors = append(f.processors, p)
	sortProcessors(f.processors)
}

func (f *BeanFactory) postProcessors() []BeanPostProcessor {
	f.pmu.RLock()
	defer f.pmu.RUnlock()
	out := make([]BeanPostProcessor, len(f.processors))
	copy(out, f.processors)
	return out
}

// ContainsBeanByType reports whether a definition is registered for t.
func (f *BeanFactory) ContainsBeanByType(t reflect.Type) bool {
	_, ok := f.registry.NameForType(t)
	return ok
}

func (f *BeanFactory) ContainsSingleton(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.singletons[name]
	return ok
}

func (f *BeanFactory) SingletonCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.singletons)
}

// PreInstantiateSingletons creates every eager singleton, level by level.
// Beans within a level have no edges between them, so each level fans out
// concurrently; levels themselves run in order.
func (f *BeanFactory) PreInstantiateSingletons() error {
	graph := f.registry.Graph()
	eager := make(map[string][]string, len(graph))
	for name := range graph {
		def, ok := f.registry.definition(name)
		if !ok || def.scope != ScopeSingleton || def.lazy {
			continue
		}
		deps := make([]string, 0, len(graph[name]))
		for _, dep := range graph[name] {
			if d, ok := f.registry.definition(dep); ok && d.scope == ScopeSingleton && !d.lazy {
				deps = append(deps, dep)
			}
		}
		eager[name] = deps
	}

	levels, err := TopologicalLevels(eager)
	if err != nil {
		return err
	}

	for i, level := range levels {
		logging.L().Debug("instantiating level",
			zap.Int("level", i),
			zap.Strings("beans", level))
		var g errgroup.Group
		for _, name := range level {
			name := name
			g.Go(func() error {
				_, err := f.GetBean(name)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// DestroySingletons drains the cache and invokes destroy callbacks.
// Failures and panics are logged and the sweep continues; shutdown never
// stops at the first broken bean.
func (f *BeanFactory) DestroySingletons() {
	f.mu.Lock()
	drained := f.singletons
	f.singletons = make(map[string]any)
	f.mu.Unlock()

	for name, instance := range drained {
		def, ok := f.registry.definition(name)
		if !ok || def.destroyFn == nil {
			continue
		}
		f.destroyBean(name, def, instance)
	}
}

func (f *BeanFactory) destroyBean(name string, def *Definition, instance any) {
	defer func() {
		if r := recover(); r != nil {
			logging.L().Warn("destroy callback panicked",
				zap.String("bean", name),
				zap.Any("panic", r))
		}
	}()
	if err := def.destroyFn(instance); err != nil {
		logging.L().Warn("destroy callback failed",
			zap.String("bean", name),
			zap.Error(err))
	}
}
