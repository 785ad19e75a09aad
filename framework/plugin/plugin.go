// Package plugin defines the extension contract for the application
// launcher. Plugins hook the three lifecycle phases and may ask to keep the
// process alive, the way a server plugin does.
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/hoowhoami/gospring/framework/container"
	"github.com/hoowhoami/gospring/framework/logging"
)

// DefaultPriority is the priority assumed by Base. Lower values start
// earlier and stop later.
const DefaultPriority = 100

// ApplicationPlugin extends the launcher. Configure runs before component
// scanning and may register definitions; OnStartup runs after the started
// event; OnShutdown runs in reverse priority order during teardown.
type ApplicationPlugin interface {
	Name() string
	Priority() int
	Configure(ctx *container.ApplicationContext) error
	OnStartup(ctx *container.ApplicationContext) error
	OnShutdown(ctx *container.ApplicationContext) error
	// KeepAlive reports whether the plugin needs the process to stay up
	// until a shutdown signal arrives.
	KeepAlive() bool
}

// Base supplies no-op defaults so plugins only implement the phases they
// need. Name is intentionally left to the embedding type.
type Base struct{}

func (Base) Priority() int                                  { return DefaultPriority }
func (Base) Configure(*container.ApplicationContext) error  { return nil }
func (Base) OnStartup(*container.ApplicationContext) error  { return nil }
func (Base) OnShutdown(*container.ApplicationContext) error { return nil }
func (Base) KeepAlive() bool                                { return false }

// ── Registry ─────────────────────────────────────────────────────────────

// Registry holds plugins in ascending priority order.
type Registry struct {
	mu      sync.Mutex
	plugins []ApplicationPlugin
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(p ApplicationPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins = append(r.plugins, p)
	sort.SliceStable(r.plugins, func(i, j int) bool {
		return r.plugins[i].Priority() < r.plugins[j].Priority()
	})
}

func (r *Registry) Plugins() []ApplicationPlugin {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ApplicationPlugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plugins)
}

// HasKeepAlive reports whether any plugin wants the process parked until a
// signal arrives.
func (r *Registry) HasKeepAlive() bool {
	for _, p := range r.Plugins() {
		if p.KeepAlive() {
			return true
		}
	}
	return false
}

// ConfigureAll runs the configure phase in priority order. The first error
// aborts startup.
func (r *Registry) ConfigureAll(ctx *container.ApplicationContext) error {
	for _, p := range r.Plugins() {
		if err := p.Configure(ctx); err != nil {
			return fmt.Errorf("plugin %s: configure: %w", p.Name(), err)
		}
	}
	return nil
}

// StartupAll runs the startup phase in priority order. The first error
// aborts startup.
func (r *Registry) StartupAll(ctx *container.ApplicationContext) error {
	for _, p := range r.Plugins() {
		logging.L().Info("starting plugin",
			zap.String("plugin", p.Name()),
			zap.Int("priority", p.Priority()))
		if err := p.OnStartup(ctx); err != nil {
			return fmt.Errorf("plugin %s: startup: %w", p.Name(), err)
		}
	}
	return nil
}

// ShutdownAll runs the shutdown phase in reverse priority order. Errors are
// logged and the sweep continues.
func (r *Registry) ShutdownAll(ctx *container.ApplicationContext) {
	plugins := r.Plugins()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		logging.L().Info("stopping plugin", zap.String("plugin", p.Name()))
		if err := p.OnShutdown(ctx); err != nil {
			logging.L().Warn("plugin shutdown failed",
				zap.String("plugin", p.Name()),
				zap.Error(err))
		}
	}
}

// ── Global submissions ───────────────────────────────────────────────────

var (
	submitMu    sync.Mutex
	submissions []func() ApplicationPlugin
)

// Submit queues a plugin constructor for every application built after this
// call. Call it from an init function.
func Submit(build func() ApplicationPlugin) {
	submitMu.Lock()
	defer submitMu.Unlock()
	submissions = append(submissions, build)
}

// Submitted constructs one instance of every submitted plugin.
func Submitted() []ApplicationPlugin {
	submitMu.Lock()
	defer submitMu.Unlock()
	out := make([]ApplicationPlugin, 0, len(submissions))
	for _, build := range submissions {
		out = append(out, build())
	}
	return out
}
