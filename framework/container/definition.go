package container

import (
	"fmt"
	"reflect"
)

// Factory produces a bean instance. The resolver shares the caller's
// creation chain, so dependencies fetched through it participate in cycle
// detection.
type Factory func(r *Resolver) (any, error)

// Definition is the recipe for one bean: its name, scope, laziness,
// declared dependencies, factory, and lifecycle callbacks.
//
//	// Spring: BeanDefinition
type Definition struct {
	name      string
	scope     Scope
	lazy      bool
	dependsOn []string
	factory   Factory
	typ       reflect.Type
	typeName  string
	initFn    func(any) error
	destroyFn func(any) error
}

// NewDefinition builds a singleton, eager definition for name. The concrete
// type T is recorded for type-directed lookup.
func NewDefinition[T any](name string, factory func(r *Resolver) (T, error)) *Definition {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &Definition{
		name:     name,
		scope:    ScopeSingleton,
		typ:      t,
		typeName: t.String(),
		factory: func(r *Resolver) (any, error) {
			return factory(r)
		},
	}
}

// NewComponent is NewDefinition with the name derived from T.
//
//	// Spring: @Component
func NewComponent[T any](factory func(r *Resolver) (T, error)) *Definition {
	return NewDefinition[T](DefaultBeanName[T](), factory)
}

// NewBeanMethod builds a definition whose factory first resolves the named
// host bean and then calls method on it. The host is recorded as a
// dependency.
//
//	// Spring: @Bean method on an @Configuration class
func NewBeanMethod[C, T any](name, host string, method func(host C, r *Resolver) (T, error)) *Definition {
	def := NewDefinition[T](name, func(r *Resolver) (T, error) {
		var zero T
		h, err := ResolveBean[C](r, host)
		if err != nil {
			return zero, err
		}
		return method(h, r)
	})
	return def.WithDependsOn(host)
}

func (d *Definition) WithScope(s Scope) *Definition {
	d.scope = s
	return d
}

func (d *Definition) WithLazy(lazy bool) *Definition {
	d.lazy = lazy
	return d
}

// WithDependsOn appends declared dependency names. These drive static
// validation and eager-instantiation ordering; they are not injected.
func (d *Definition) WithDependsOn(names ...string) *Definition {
	d.dependsOn = append(d.dependsOn, names...)
	return d
}

// WithInit sets the post-construction callback. A failure here fails the
// whole bean creation.
func (d *Definition) WithInit(fn func(bean any) error) *Definition {
	d.initFn = fn
	return d
}

// WithDestroy sets the teardown callback, invoked for cached singletons
// during context shutdown.
func (d *Definition) WithDestroy(fn func(bean any) error) *Definition {
	d.destroyFn = fn
	return d
}

// Callback adapts a typed lifecycle callback to the untyped form stored on
// the definition.
func Callback[T any](fn func(bean T) error) func(any) error {
	return func(bean any) error {
		typed, ok := bean.(T)
		if !ok {
			return &TypeMismatchError{
				Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
				Found:    fmt.Sprintf("%T", bean),
			}
		}
		return fn(typed)
	}
}

func (d *Definition) Name() string     { return d.name }
func (d *Definition) Scope() Scope     { return d.scope }
func (d *Definition) IsLazy() bool     { return d.lazy }
func (d *Definition) TypeName() string { return d.typeName }
func (d *Definition) Type() reflect.Type {
	return d.typ
}

// DependsOn returns a copy of the declared dependency names.
func (d *Definition) DependsOn() []string {
	out := make([]string, len(d.dependsOn))
	copy(out, d.dependsOn)
	return out
}

func (d *Definition) clone() *Definition {
	c := *d
	c.dependsOn = d.DependsOn()
	return &c
}
