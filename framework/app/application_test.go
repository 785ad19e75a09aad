package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoowhoami/gospring/framework/container"
	"github.com/hoowhoami/gospring/framework/event"
)

type clock struct {
	running bool
}

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestStartBuildsContextFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "application.yaml", `
gospring:
  app:
    name: orders
server:
  port: 9001
`)

	running, err := New().
		Banner(false).
		ConfigFile(base).
		Initializer(func(ctx *container.ApplicationContext) error {
			return ctx.Register(container.NewDefinition[*clock]("clock",
				func(*container.Resolver) (*clock, error) {
					return &clock{running: true}, nil
				}))
		}).
		Start()
	require.NoError(t, err)
	defer running.Shutdown()

	ctx := running.Context()
	assert.Equal(t, "orders", ctx.AppName())
	assert.Equal(t, int64(9001), ctx.Environment().GetInt64Or("server.port", 0))

	c, err := container.Resolve[*clock](ctx)
	require.NoError(t, err)
	assert.True(t, c.running)
	assert.True(t, ctx.ContainsSingleton("clock"), "eager singletons exist after startup")
	assert.True(t, ctx.Registry().IsFrozen())
}

func TestProfileOverlayAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "application.yaml", `
greeting:
  audience: world
server:
  port: 8080
`)
	writeConfig(t, dir, "application-dev.yaml", `
greeting:
  audience: developers
server:
  port: 8081
`)
	t.Setenv("GOSPRING_SERVER_PORT", "7000")

	running, err := New().
		Banner(false).
		ConfigFile(base).
		Profiles("dev").
		Start()
	require.NoError(t, err)
	defer running.Shutdown()

	env := running.Context().Environment()
	assert.Equal(t, []string{"dev"}, env.ActiveProfiles())
	// Overlay beats the base file.
	assert.Equal(t, "developers", env.GetStringOr("greeting.audience", ""))
	// The OS environment beats both.
	assert.Equal(t, int64(7000), env.GetInt64Or("server.port", 0))
}

func TestProfilesFromOSEnvironmentWin(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "application.yaml", `
gospring:
  profiles:
    active: staging
`)
	t.Setenv("GOSPRING_PROFILES_ACTIVE", "prod,eu")

	running, err := New().
		Banner(false).
		ConfigFile(base).
		Profiles("dev").
		Start()
	require.NoError(t, err)
	defer running.Shutdown()

	assert.Equal(t, []string{"prod", "eu"}, running.Context().Environment().ActiveProfiles())
}

func TestStartFailsOnBrokenInitializer(t *testing.T) {
	_, err := New().
		Banner(false).
		Initializer(func(*container.ApplicationContext) error {
			return assert.AnError
		}).
		Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initializer")
}

func TestStartupPublishesStartedEvent(t *testing.T) {
	var got *event.ApplicationStartedEvent

	running, err := New().
		Banner(false).
		Initializer(func(ctx *container.ApplicationContext) error {
			ctx.AddListener(event.Typed("probe", func(e *event.ApplicationStartedEvent) {
				got = e
			}))
			return nil
		}).
		Start()
	require.NoError(t, err)
	defer running.Shutdown()

	require.NotNil(t, got)
	assert.Equal(t, "application", got.AppName, "default app name applies")
	assert.Greater(t, got.StartupTime, time.Duration(0))
}

func TestShutdownHooksRunOnShutdown(t *testing.T) {
	ran := false
	running, err := New().
		Banner(false).
		ShutdownHook(func() error {
			ran = true
			return nil
		}).
		Start()
	require.NoError(t, err)

	running.Shutdown()
	assert.True(t, ran)
}

func TestDiscoveryHelpers(t *testing.T) {
	t.Run("overlayPathsFromBase", func(t *testing.T) {
		paths := profileOverlayPaths([]string{filepath.Join("config", "application.yaml")}, "dev")
		assert.Equal(t, []string{filepath.Join("config", "application-dev.yaml")}, paths)
	})
	t.Run("overlayPathsWithoutBase", func(t *testing.T) {
		paths := profileOverlayPaths(nil, "prod")
		assert.Contains(t, paths, "application-prod.yaml")
	})
	t.Run("splitProfiles", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, splitProfiles(" a , b ,"))
		assert.Empty(t, splitProfiles(" , "))
	})
}
