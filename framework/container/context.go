package container

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/hoowhoami/gospring/framework/config"
	"github.com/hoowhoami/gospring/framework/event"
	"github.com/hoowhoami/gospring/framework/logging"
)

// Self-registered framework beans, resolvable like any other.
const (
	ContextBeanName     = "applicationContext"
	EnvironmentBeanName = "environment"
	EventBusBeanName    = "eventBus"
)

// ShutdownHook runs during graceful shutdown, after the shutdown event and
// before singletons are destroyed.
type ShutdownHook func() error

// ApplicationContext ties the registry, factory, environment, and event bus
// together and drives the container lifecycle.
//
//	// Spring: ApplicationContext
type ApplicationContext struct {
	registry *DefinitionRegistry
	factory  *BeanFactory
	env      *config.Environment
	bus      event.Bus

	nameMu  sync.RWMutex
	appName string

	hookMu     sync.Mutex
	hooks      []ShutdownHook
	finalizers []func()

	fppMu             sync.Mutex
	factoryProcessors []BeanFactoryPostProcessor

	smartMu    sync.Mutex
	smartInits []SmartInitializingSingleton

	shutdownOnce sync.Once
}

type contextOptions struct {
	env *config.Environment
	bus event.Bus
}

type Option func(*contextOptions)

// WithEnvironment supplies a pre-built environment instead of an empty one.
func WithEnvironment(env *config.Environment) Option {
	return func(o *contextOptions) { o.env = env }
}

// WithAsyncEvents switches the context to the asynchronous event bus.
func WithAsyncEvents(async bool) Option {
	return func(o *contextOptions) {
		if async {
			o.bus = event.NewAsyncBus()
		}
	}
}

// WithEventBus supplies a custom bus implementation.
func WithEventBus(bus event.Bus) Option {
	return func(o *contextOptions) { o.bus = bus }
}

func New(opts ...Option) *ApplicationContext {
	options := contextOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.env == nil {
		options.env = config.NewEnvironment()
	}
	if options.bus == nil {
		options.bus = event.NewSyncBus()
	}

	registry := NewDefinitionRegistry()
	ctx := &ApplicationContext{
		registry: registry,
		factory:  NewBeanFactory(registry),
		env:      options.env,
		bus:      options.bus,
		appName:  "application",
	}
	ctx.registerFrameworkBeans()
	return ctx
}

// registerFrameworkBeans exposes the context, environment, and bus as beans
// so factories can depend on them by name.
func (c *ApplicationContext) registerFrameworkBeans() {
	self := NewDefinition[*ApplicationContext](ContextBeanName, func(*Resolver) (*ApplicationContext, error) {
		return c, nil
	})
	env := NewDefinition[*config.Environment](EnvironmentBeanName, func(*Resolver) (*config.Environment, error) {
		return c.env, nil
	})
	bus := NewDefinition[event.Bus](EventBusBeanName, func(*Resolver) (event.Bus, error) {
		return c.bus, nil
	})
	for _, def := range []*Definition{self, env, bus} {
		if err := c.registry.Register(def); err != nil {
			logging.L().Error("registering framework bean",
				zap.String("bean", def.Name()), zap.Error(err))
		}
	}
}

// ── Registration and lookup ──────────────────────────────────────────────

// Register adds a bean definition to the context.
func (c *ApplicationContext) Register(def *Definition) error {
	if err := c.registry.Register(def); err != nil {
		return err
	}
	logging.L().Debug("registered bean",
		zap.String("bean", def.Name()),
		zap.String("type", def.TypeName()),
		zap.String("scope", string(def.Scope())))
	return nil
}

// GetBean resolves a bean by name.
func (c *ApplicationContext) GetBean(name string) (any, error) {
	return c.factory.GetBean(name)
}

// GetBeanByType resolves the bean registered for t.
func (c *ApplicationContext) GetBeanByType(t reflect.Type) (any, error) {
	return c.factory.GetBeanByType(t)
}

func (c *ApplicationContext) ContainsBean(name string) bool {
	return c.registry.Contains(name)
}

func (c *ApplicationContext) ContainsBeanByType(t reflect.Type) bool {
	return c.factory.ContainsBeanByType(t)
}

// HasBean reports whether a definition is registered for T.
func HasBean[T any](c *ApplicationContext) bool {
	return c.ContainsBeanByType(reflect.TypeOf((*T)(nil)).Elem())
}

func (c *ApplicationContext) ContainsSingleton(name string) bool {
	return c.factory.ContainsSingleton(name)
}

func (c *ApplicationContext) BeanNames() []string {
	return c.registry.Names()
}

func (c *ApplicationContext) BeanCount() int {
	return c.registry.Count()
}

func (c *ApplicationContext) Registry() *DefinitionRegistry { return c.registry }
func (c *ApplicationContext) Factory() *BeanFactory         { return c.factory }
func (c *ApplicationContext) Environment() *config.Environment {
	return c.env
}
func (c *ApplicationContext) EventBus() event.Bus { return c.bus }

// Resolve looks up the bean registered for T and asserts its type.
//
//	svc, err := container.Resolve[*UserService](ctx)
func Resolve[T any](c *ApplicationContext) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()
	bean, err := c.factory.GetBeanByType(t)
	if err != nil {
		return zero, err
	}
	return assertBean[T](bean)
}

// ResolveNamed looks up a bean by name and asserts its type.
func ResolveNamed[T any](c *ApplicationContext, name string) (T, error) {
	var zero T
	bean, err := c.factory.GetBean(name)
	if err != nil {
		return zero, err
	}
	return assertBean[T](bean)
}

func assertBean[T any](bean any) (T, error) {
	typed, ok := bean.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Found:    fmt.Sprintf("%T", bean),
		}
	}
	return typed, nil
}

// ── Processors and lifecycle ─────────────────────────────────────────────

func (c *ApplicationContext) AddBeanPostProcessor(p BeanPostProcessor) {
	c.factory.AddBeanPostProcessor(p)
	logging.L().Debug("registered bean post-processor",
		zap.String("processor", p.ProcessorName()),
		zap.Int("order", p.Order()))
}

func (c *ApplicationContext) AddBeanFactoryPostProcessor(p BeanFactoryPostProcessor) {
	c.fppMu.Lock()
	defer c.fppMu.Unlock()
	c.factoryProcessors = append(c.factoryProcessors, p)
}

func (c *ApplicationContext) AddSmartInitializingSingleton(s SmartInitializingSingleton) {
	c.smartMu.Lock()
	defer c.smartMu.Unlock()
	c.smartInits = append(c.smartInits, s)
}

// InvokeBeanFactoryPostProcessors runs every registered factory
// post-processor in ascending order, then freezes the registry. The
// processors are the last code allowed to touch definitions.
func (c *ApplicationContext) InvokeBeanFactoryPostProcessors() error {
	c.fppMu.Lock()
	processors := make([]BeanFactoryPostProcessor, len(c.factoryProcessors))
	copy(processors, c.factoryProcessors)
	c.fppMu.Unlock()
	sortFactoryProcessors(processors)

	for _, p := range processors {
		if err := p.PostProcessBeanFactory(c); err != nil {
			return fmt.Errorf("container: bean factory post-processor: %w", err)
		}
	}
	c.registry.Freeze()
	logging.L().Debug("configuration frozen", zap.Int("beans", c.registry.Count()))
	return nil
}

// ValidateDependencies statically checks the dependency graph for missing
// references and cycles.
func (c *ApplicationContext) ValidateDependencies() error {
	return ValidateGraph(c.registry.Graph())
}

// PreInstantiateSingletons eagerly creates every non-lazy singleton.
func (c *ApplicationContext) PreInstantiateSingletons() error {
	return c.factory.PreInstantiateSingletons()
}

func (c *ApplicationContext) notifySmartInitializingSingletons() error {
	c.smartMu.Lock()
	inits := make([]SmartInitializingSingleton, len(c.smartInits))
	copy(inits, c.smartInits)
	c.smartMu.Unlock()

	for _, s := range inits {
		if err := s.AfterSingletonsInstantiated(); err != nil {
			return fmt.Errorf("container: after-singletons callback: %w", err)
		}
	}
	return nil
}

// Refresh drives the instantiation half of startup: factory post-processors
// run and freeze the registry, the graph is validated, eager singletons are
// created, and after-singletons callbacks fire.
//
//	// Spring: AbstractApplicationContext#refresh
func (c *ApplicationContext) Refresh() error {
	if err := c.InvokeBeanFactoryPostProcessors(); err != nil {
		return err
	}
	if err := c.ValidateDependencies(); err != nil {
		return err
	}
	if err := c.PreInstantiateSingletons(); err != nil {
		return err
	}
	return c.notifySmartInitializingSingletons()
}

// ── Events ───────────────────────────────────────────────────────────────

func (c *ApplicationContext) PublishEvent(e event.Event) {
	c.bus.Publish(e)
}

func (c *ApplicationContext) AddListener(l event.Listener) {
	c.bus.AddListener(l)
	logging.L().Debug("registered event listener", zap.String("listener", l.ListenerName()))
}

func (c *ApplicationContext) RemoveListener(name string) {
	c.bus.RemoveListener(name)
}

// ── Shutdown ─────────────────────────────────────────────────────────────

func (c *ApplicationContext) SetAppName(name string) {
	c.nameMu.Lock()
	defer c.nameMu.Unlock()
	c.appName = name
}

func (c *ApplicationContext) AppName() string {
	c.nameMu.RLock()
	defer c.nameMu.RUnlock()
	return c.appName
}

// RegisterShutdownHook appends a hook. Hooks run in registration order.
func (c *ApplicationContext) RegisterShutdownHook(hook ShutdownHook) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// OnShutdown appends a callback that runs after every shutdown hook and
// before singletons are destroyed. The launcher parks plugin teardown here.
func (c *ApplicationContext) OnShutdown(fn func()) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.finalizers = append(c.finalizers, fn)
}

// Shutdown tears the context down: the shutdown event is published, hooks
// run in order, finalizers run, and cached singletons are destroyed. Hook
// failures are logged and the sequence continues. Subsequent calls are
// no-ops.
func (c *ApplicationContext) Shutdown() {
	c.shutdownOnce.Do(func() {
		appName := c.AppName()
		logging.L().Info("shutting down", zap.String("app", appName))

		c.PublishEvent(event.NewApplicationShutdownEvent(appName))

		c.hookMu.Lock()
		hooks := make([]ShutdownHook, len(c.hooks))
		copy(hooks, c.hooks)
		finalizers := make([]func(), len(c.finalizers))
		copy(finalizers, c.finalizers)
		c.hookMu.Unlock()

		for i, hook := range hooks {
			if err := hook(); err != nil {
				logging.L().Warn("shutdown hook failed",
					zap.Int("hook", i), zap.Error(err))
			}
		}
		for _, fn := range finalizers {
			fn()
		}

		c.factory.DestroySingletons()
		if closer, ok := c.bus.(interface{ Close() }); ok {
			closer.Close()
		}
		logging.L().Info("shutdown complete", zap.String("app", appName))
	})
}
