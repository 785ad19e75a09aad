// Package app is the application launcher: it assembles the environment,
// logging, context, plugins, and descriptor scans into one startup
// sequence, and tears everything down again on shutdown.
//
//	// Spring: SpringApplication.run(...)
package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hoowhoami/gospring/framework/config"
	"github.com/hoowhoami/gospring/framework/container"
	"github.com/hoowhoami/gospring/framework/event"
	"github.com/hoowhoami/gospring/framework/logging"
	"github.com/hoowhoami/gospring/framework/plugin"
)

const Version = "0.1.0"

// EnvPrefix is the prefix for OS environment overrides: GOSPRING_SERVER_PORT
// overrides the "server.port" property.
const EnvPrefix = "GOSPRING_"

// Initializer runs against the fresh context before plugins are configured
// and before any scan.
type Initializer func(ctx *container.ApplicationContext) error

// Application is the launcher builder. Configure it with the chainable
// setters, then call Run or Start.
type Application struct {
	configFiles []string
	envFiles    []string
	profiles    []string
	banner      bool

	initializers []Initializer
	hooks        []container.ShutdownHook
	plugins      *plugin.Registry
}

// New builds a launcher preloaded with every plugin submitted via
// plugin.Submit.
func New() *Application {
	a := &Application{
		banner:  true,
		plugins: plugin.NewRegistry(),
	}
	for _, p := range plugin.Submitted() {
		a.plugins.Register(p)
	}
	return a
}

// ConfigFile sets an explicit property file, bypassing discovery.
func (a *Application) ConfigFile(path string) *Application {
	a.configFiles = append(a.configFiles, path)
	return a
}

// EnvFile adds a dotenv file loaded into the process environment first.
func (a *Application) EnvFile(paths ...string) *Application {
	a.envFiles = append(a.envFiles, paths...)
	return a
}

// Profiles sets the active profiles used when neither the OS environment
// nor the properties name any.
func (a *Application) Profiles(names ...string) *Application {
	a.profiles = append(a.profiles, names...)
	return a
}

// Banner toggles the startup banner.
func (a *Application) Banner(enabled bool) *Application {
	a.banner = enabled
	return a
}

// Initializer adds a callback that runs right after the context is built.
func (a *Application) Initializer(fn Initializer) *Application {
	a.initializers = append(a.initializers, fn)
	return a
}

// ShutdownHook adds a hook registered on the context during startup.
func (a *Application) ShutdownHook(hook container.ShutdownHook) *Application {
	a.hooks = append(a.hooks, hook)
	return a
}

// Plugin registers a plugin directly, in addition to submitted ones.
func (a *Application) Plugin(p plugin.ApplicationPlugin) *Application {
	a.plugins.Register(p)
	return a
}

// Running is a started application.
type Running struct {
	ctx     *container.ApplicationContext
	plugins *plugin.Registry
}

func (r *Running) Context() *container.ApplicationContext { return r.ctx }

// Shutdown tears the application down: shutdown event, hooks, plugins in
// reverse priority, then singleton destruction.
func (r *Running) Shutdown() {
	r.ctx.Shutdown()
}

// Start runs the full startup sequence and returns the running application.
// Any failure aborts startup and is returned as-is.
func (a *Application) Start() (*Running, error) {
	started := time.Now()

	// Dotenv first so discovery and overrides see the variables.
	for _, path := range a.envFiles {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("app: loading env file %s: %w", path, err)
		}
	}
	if len(a.envFiles) == 0 {
		_ = godotenv.Load()
	}

	env, err := a.buildEnvironment()
	if err != nil {
		return nil, err
	}

	if err := logging.Init(
		env.GetStringOr("logging.level", "info"),
		env.GetStringOr("logging.format", "console"),
	); err != nil {
		return nil, err
	}

	appName := env.GetStringOr("gospring.app.name", "application")
	async := env.GetBoolOr("gospring.events.async", false)

	ctx := container.New(
		container.WithEnvironment(env),
		container.WithAsyncEvents(async),
	)
	ctx.SetAppName(appName)

	if a.banner {
		printBanner(appName, env.ActiveProfiles())
	}
	logging.L().Info("starting application",
		zap.String("app", appName),
		zap.Strings("profiles", env.ActiveProfiles()),
		zap.Bool("asyncEvents", async))

	for _, fn := range a.initializers {
		if err := fn(ctx); err != nil {
			return nil, fmt.Errorf("app: initializer: %w", err)
		}
	}

	if err := a.plugins.ConfigureAll(ctx); err != nil {
		return nil, err
	}

	if err := ctx.ScanConfigurationProperties(); err != nil {
		return nil, err
	}
	if err := ctx.ScanComponents(); err != nil {
		return nil, err
	}
	if err := ctx.ScanEventListeners(); err != nil {
		return nil, err
	}
	if err := ctx.ScanBeanFactoryPostProcessors(); err != nil {
		return nil, err
	}
	if err := ctx.ScanBeanPostProcessors(); err != nil {
		return nil, err
	}
	if err := ctx.ScanSmartInitializingSingletons(); err != nil {
		return nil, err
	}

	if err := ctx.Refresh(); err != nil {
		return nil, err
	}

	for _, hook := range a.hooks {
		ctx.RegisterShutdownHook(hook)
	}

	elapsed := time.Since(started)
	ctx.PublishEvent(event.NewApplicationStartedEvent(appName, elapsed))
	logging.L().Info("application started",
		zap.String("app", appName),
		zap.Duration("took", elapsed),
		zap.Int("beans", ctx.BeanCount()))

	if err := a.plugins.StartupAll(ctx); err != nil {
		return nil, err
	}
	ctx.OnShutdown(func() {
		a.plugins.ShutdownAll(ctx)
	})

	return &Running{ctx: ctx, plugins: a.plugins}, nil
}

// Run starts the application and, when any plugin asks to be kept alive,
// parks until SIGINT or SIGTERM before shutting down gracefully.
func (a *Application) Run() error {
	running, err := a.Start()
	if err != nil {
		return err
	}
	if a.plugins.HasKeepAlive() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		logging.L().Info("signal received", zap.String("signal", sig.String()))
	}
	running.Shutdown()
	return nil
}

// buildEnvironment assembles the property sources: discovered or explicit
// YAML files at the base priority, profile overlays above them, and the OS
// environment on top.
func (a *Application) buildEnvironment() (*config.Environment, error) {
	env := config.NewEnvironment()
	env.AddPropertySource(config.NewEnvPropertySource(EnvPrefix, 100))

	files := a.configFiles
	if len(files) == 0 {
		if path, ok := discoverConfigFile(); ok {
			files = []string{path}
		}
	}
	for _, path := range files {
		src, err := config.NewYamlPropertySource(path, 0)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		env.AddPropertySource(src)
	}

	profiles := activeProfiles(env, a.profiles)
	env.SetActiveProfiles(profiles...)

	for i, name := range profiles {
		for _, path := range profileOverlayPaths(files, name) {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			src, err := config.NewYamlPropertySource(path, 10+i)
			if err != nil {
				return nil, fmt.Errorf("app: %w", err)
			}
			env.AddPropertySource(src)
		}
	}
	return env, nil
}

// activeProfiles resolves profiles by precedence: the OS environment wins,
// then the properties, then the ones set in code.
func activeProfiles(env *config.Environment, fromCode []string) []string {
	if raw, ok := os.LookupEnv(EnvPrefix + "PROFILES_ACTIVE"); ok {
		return splitProfiles(raw)
	}
	if names, ok := env.GetStringSlice("gospring.profiles.active"); ok && len(names) > 0 {
		return names
	}
	return fromCode
}

func printBanner(appName string, profiles []string) {
	fmt.Printf(`
   ___  ___  ___ _ __  _ __(_)_ __   __ _
  / _ \/ _ \/ __| '_ \| '__| | '_ \ / _' |
 | (_| | (_) \__ \ |_) | |  | | | | | (_| |
  \__, |\___/|___/ .__/|_|  |_|_| |_|\__, |
  |___/          |_|                 |___/   v%s

  :: %s :: profiles %v
`, Version, appName, profiles)
}
