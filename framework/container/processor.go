package container

import "sort"

// DefaultProcessorOrder is the order assumed by BaseProcessor. Lower values
// run earlier.
const DefaultProcessorOrder = 1000

// BeanPostProcessor hooks into bean creation around the init callback.
// Either hook may return a replacement instance, typically a wrapper.
//
//	// Spring: BeanPostProcessor
type BeanPostProcessor interface {
	// BeforeInitialization runs after the factory, before the init callback.
	BeforeInitialization(bean any, name string) (any, error)
	// AfterInitialization runs after the init callback. The value it
	// returns is what gets cached and handed to callers.
	AfterInitialization(bean any, name string) (any, error)
	ProcessorName() string
	// Order sorts processors ascending; ties keep registration order.
	Order() int
}

// BaseProcessor supplies pass-through defaults so processors only override
// the hooks they care about.
type BaseProcessor struct{}

func (BaseProcessor) BeforeInitialization(bean any, _ string) (any, error) { return bean, nil }
func (BaseProcessor) AfterInitialization(bean any, _ string) (any, error)  { return bean, nil }
func (BaseProcessor) ProcessorName() string                                { return "beanPostProcessor" }
func (BaseProcessor) Order() int                                           { return DefaultProcessorOrder }

// BeanFactoryPostProcessor runs once after all definitions are discovered
// and before any singleton is instantiated. It may register, modify, or
// remove definitions through the context; after the whole batch has run the
// registry is frozen.
//
//	// Spring: BeanFactoryPostProcessor
type BeanFactoryPostProcessor interface {
	PostProcessBeanFactory(ctx *ApplicationContext) error
	Order() int
}

// BeanFactoryPostProcessorFunc adapts a function, with order.
type BeanFactoryPostProcessorFunc struct {
	Fn       func(ctx *ApplicationContext) error
	Priority int
}

func (f BeanFactoryPostProcessorFunc) PostProcessBeanFactory(ctx *ApplicationContext) error {
	return f.Fn(ctx)
}

func (f BeanFactoryPostProcessorFunc) Order() int { return f.Priority }

// SmartInitializingSingleton is called after the eager singleton sweep and
// before the started event. An error fails startup.
//
//	// Spring: SmartInitializingSingleton
type SmartInitializingSingleton interface {
	AfterSingletonsInstantiated() error
}

func sortProcessors(ps []BeanPostProcessor) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Order() < ps[j].Order() })
}

func sortFactoryProcessors(ps []BeanFactoryPostProcessor) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Order() < ps[j].Order() })
}
