// Package container provides a Spring-compatible IoC (Inversion of Control)
// container for Go: bean definitions, a definition registry, a dependency
// graph validator, and a bean factory with a full lifecycle pipeline.
//
// # Overview
//
// The container manages the instantiation and lifecycle of your
// application's beans. It supports singleton and prototype scopes, lazy
// beans, declared dependencies with static validation, init and destroy
// callbacks, bean post-processors, and an application context that ties the
// registry to an environment and an event bus.
//
// It mirrors the shape of Spring's bean container as closely as Go's type
// system allows. Because Go has no runtime constructor reflection,
// annotation-driven auto-wiring is replaced by explicit factory functions.
//
// # Context Lifecycle
//
//  1. Create: ctx := container.New()
//  2. Register definitions: ctx.Register(def)
//  3. Refresh: ctx.Refresh()   — safe to resolve everything after this
//  4. Serve
//  5. Shutdown: ctx.Shutdown()
//
// # Definitions
//
//	// Singleton (the default) — created once, cached
//	// Spring: @Component / @Bean
//	def := container.NewDefinition[*UserService]("userService",
//	    func(r *container.Resolver) (*UserService, error) {
//	        repo, err := container.ResolveBean[*UserRepository](r, "userRepository")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return &UserService{Repo: repo}, nil
//	    }).
//	    WithDependsOn("userRepository").
//	    WithInit(container.Callback(func(s *UserService) error { return s.Warmup() })).
//	    WithDestroy(container.Callback(func(s *UserService) error { return s.Close() }))
//
//	// Prototype — fresh instance every lookup
//	// Spring: @Scope("prototype")
//	def.WithScope(container.ScopePrototype)
//
//	// Lazy — skipped by the eager startup sweep
//	// Spring: @Lazy
//	def.WithLazy(true)
//
// # Resolving
//
//	// Untyped, by name
//	raw, err := ctx.GetBean("userService")
//
//	// Generic (preferred — assertion handled for you)
//	svc, err := container.Resolve[*UserService](ctx)
//	svc, err := container.ResolveNamed[*UserService](ctx, "userService")
//
// # Post-Processors
//
//	// Spring: BeanPostProcessor
//	type tracingProcessor struct{ container.BaseProcessor }
//
//	func (tracingProcessor) AfterInitialization(bean any, name string) (any, error) {
//	    return wrapWithTracing(bean, name), nil
//	}
//
//	ctx.AddBeanPostProcessor(tracingProcessor{})
//
// Bean factory post-processors run once, before any singleton exists, and
// are the last code allowed to register or modify definitions; the registry
// freezes when they finish.
//
// # Descriptors
//
// Packages contribute beans from init functions through the Submit
// functions; the application launcher scans them during startup:
//
//	func init() {
//	    container.SubmitComponent("userRepository", func(ctx *container.ApplicationContext) error {
//	        return ctx.Register(container.NewComponent(newUserRepository))
//	    })
//	}
package container
