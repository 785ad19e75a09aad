package container

// Scope governs how the container caches instances of a bean.
//
//	// Spring: @Scope("singleton") / @Scope("prototype")
type Scope string

const (
	// ScopeSingleton beans are created once per context and cached.
	ScopeSingleton Scope = "singleton"

	// ScopePrototype beans are created fresh on every lookup. They are
	// never cached and their destroy callbacks are never invoked.
	ScopePrototype Scope = "prototype"
)
