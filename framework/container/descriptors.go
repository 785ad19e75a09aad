package container

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hoowhoami/gospring/framework/event"
	"github.com/hoowhoami/gospring/framework/logging"
)

// The descriptor surface lets packages contribute beans, listeners, and
// processors from init functions, before any context exists. The launcher
// scans the accumulated descriptors during startup; library users can
// invoke the Scan methods themselves.
//
//	// Spring: component scanning, minus the classpath walk
var (
	descMu sync.Mutex

	componentDescriptors   []componentDescriptor
	configPropsDescriptors []componentDescriptor
	listenerDescriptors    []listenerDescriptor
	processorDescriptors   []processorDescriptor
	factoryProcDescriptors []factoryProcDescriptor
	smartInitDescriptors   []smartInitDescriptor
)

type componentDescriptor struct {
	name     string
	register func(ctx *ApplicationContext) error
}

type listenerDescriptor struct {
	name  string
	build func(ctx *ApplicationContext) (event.Listener, error)
}

type processorDescriptor struct {
	name  string
	build func(ctx *ApplicationContext) (BeanPostProcessor, error)
}

type factoryProcDescriptor struct {
	name  string
	build func(ctx *ApplicationContext) (BeanFactoryPostProcessor, error)
}

type smartInitDescriptor struct {
	name  string
	build func(ctx *ApplicationContext) (SmartInitializingSingleton, error)
}

// SubmitComponent queues a registration callback, typically one that
// registers a definition. Call it from an init function.
func SubmitComponent(name string, register func(ctx *ApplicationContext) error) {
	descMu.Lock()
	defer descMu.Unlock()
	componentDescriptors = append(componentDescriptors, componentDescriptor{name, register})
}

// SubmitConfigurationProperties queues a registration callback for a bound
// configuration-properties bean. These are scanned before components so
// component factories can depend on them.
func SubmitConfigurationProperties(name string, register func(ctx *ApplicationContext) error) {
	descMu.Lock()
	defer descMu.Unlock()
	configPropsDescriptors = append(configPropsDescriptors, componentDescriptor{name, register})
}

// SubmitEventListener queues a listener builder.
func SubmitEventListener(name string, build func(ctx *ApplicationContext) (event.Listener, error)) {
	descMu.Lock()
	defer descMu.Unlock()
	listenerDescriptors = append(listenerDescriptors, listenerDescriptor{name, build})
}

// SubmitBeanPostProcessor queues a processor builder.
func SubmitBeanPostProcessor(name string, build func(ctx *ApplicationContext) (BeanPostProcessor, error)) {
	descMu.Lock()
	defer descMu.Unlock()
	processorDescriptors = append(processorDescriptors, processorDescriptor{name, build})
}

// SubmitBeanFactoryPostProcessor queues a factory post-processor builder.
func SubmitBeanFactoryPostProcessor(name string, build func(ctx *ApplicationContext) (BeanFactoryPostProcessor, error)) {
	descMu.Lock()
	defer descMu.Unlock()
	factoryProcDescriptors = append(factoryProcDescriptors, factoryProcDescriptor{name, build})
}

// SubmitSmartInitializingSingleton queues an after-singletons callback
// builder. Callbacks run in submission order.
func SubmitSmartInitializingSingleton(name string, build func(ctx *ApplicationContext) (SmartInitializingSingleton, error)) {
	descMu.Lock()
	defer descMu.Unlock()
	smartInitDescriptors = append(smartInitDescriptors, smartInitDescriptor{name, build})
}

func snapshotDescriptors[T any](list []T) []T {
	descMu.Lock()
	defer descMu.Unlock()
	out := make([]T, len(list))
	copy(out, list)
	return out
}

// ScanConfigurationProperties runs the queued configuration-properties
// registrations against this context.
func (c *ApplicationContext) ScanConfigurationProperties() error {
	for _, d := range snapshotDescriptors(configPropsDescriptors) {
		if err := d.register(c); err != nil {
			return fmt.Errorf("container: configuration properties %q: %w", d.name, err)
		}
		logging.L().Debug("bound configuration properties", zap.String("name", d.name))
	}
	return nil
}

// ScanComponents runs the queued component registrations.
func (c *ApplicationContext) ScanComponents() error {
	for _, d := range snapshotDescriptors(componentDescriptors) {
		if err := d.register(c); err != nil {
			return fmt.Errorf("container: component %q: %w", d.name, err)
		}
	}
	return nil
}

// ScanEventListeners builds and attaches the queued listeners.
func (c *ApplicationContext) ScanEventListeners() error {
	for _, d := range snapshotDescriptors(listenerDescriptors) {
		l, err := d.build(c)
		if err != nil {
			return fmt.Errorf("container: event listener %q: %w", d.name, err)
		}
		c.AddListener(l)
	}
	return nil
}

// ScanBeanPostProcessors builds and attaches the queued processors. They
// must be in place before any bean they should wrap is created, which is
// why the launcher scans them before pre-instantiation.
func (c *ApplicationContext) ScanBeanPostProcessors() error {
	for _, d := range snapshotDescriptors(processorDescriptors) {
		p, err := d.build(c)
		if err != nil {
			return fmt.Errorf("container: bean post-processor %q: %w", d.name, err)
		}
		c.AddBeanPostProcessor(p)
	}
	return nil
}

// ScanBeanFactoryPostProcessors builds and attaches the queued factory
// post-processors.
func (c *ApplicationContext) ScanBeanFactoryPostProcessors() error {
	for _, d := range snapshotDescriptors(factoryProcDescriptors) {
		p, err := d.build(c)
		if err != nil {
			return fmt.Errorf("container: bean factory post-processor %q: %w", d.name, err)
		}
		c.AddBeanFactoryPostProcessor(p)
	}
	return nil
}

// ScanSmartInitializingSingletons builds and attaches the queued
// after-singletons callbacks.
func (c *ApplicationContext) ScanSmartInitializingSingletons() error {
	for _, d := range snapshotDescriptors(smartInitDescriptors) {
		s, err := d.build(c)
		if err != nil {
			return fmt.Errorf("container: smart initializing singleton %q: %w", d.name, err)
		}
		c.AddSmartInitializingSingleton(s)
	}
	return nil
}
