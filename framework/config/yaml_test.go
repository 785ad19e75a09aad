package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYaml = `
gospring:
  app:
    name: demo
server:
  port: 8080
  hosts:
    - alpha
    - beta
features:
  dark-mode: true
`

func TestYamlSourceFlattensNestedKeys(t *testing.T) {
	src, err := NewYamlPropertySourceFromBytes("test", []byte(sampleYaml), 0)
	require.NoError(t, err)

	name, ok := src.Get("gospring.app.name")
	require.True(t, ok)
	s, _ := name.String()
	assert.Equal(t, "demo", s)

	port, ok := src.Get("server.port")
	require.True(t, ok)
	n, _ := port.Int64()
	assert.Equal(t, int64(8080), n)

	hosts, ok := src.Get("server.hosts")
	require.True(t, ok)
	list, _ := hosts.StringSlice()
	assert.Equal(t, []string{"alpha", "beta"}, list)

	dark, ok := src.Get("features.dark-mode")
	require.True(t, ok)
	b, _ := dark.Bool()
	assert.True(t, b)

	// Intermediate table nodes are not addressable themselves.
	_, ok = src.Get("server")
	assert.False(t, ok)
}

func TestYamlSourceFromFileAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 1000\n"), 0o644))

	src, err := NewYamlPropertySource(path, 0)
	require.NoError(t, err)
	port, _ := src.Get("server.port")
	n, _ := port.Int64()
	assert.Equal(t, int64(1000), n)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 2000\n"), 0o644))
	require.NoError(t, src.Reload())
	port, _ = src.Get("server.port")
	n, _ = port.Int64()
	assert.Equal(t, int64(2000), n)
}

func TestYamlSourceRejectsInvalidDocument(t *testing.T) {
	_, err := NewYamlPropertySourceFromBytes("bad", []byte(":\n  - ][\n"), 0)
	assert.Error(t, err)
}

func TestEnvPropertySourceKeyMapping(t *testing.T) {
	t.Setenv("GOSPRING_DATABASE_URL", "postgres://localhost/app")
	t.Setenv("GOSPRING_SERVER_PORT", "9999")

	src := NewEnvPropertySource("GOSPRING_", 100)

	v, ok := src.Get("database.url")
	require.True(t, ok)
	s, _ := v.String()
	assert.Equal(t, "postgres://localhost/app", s)

	v, ok = src.Get("server.port")
	require.True(t, ok)
	n, _ := v.Int64()
	assert.Equal(t, int64(9999), n)

	_, ok = src.Get("missing.key")
	assert.False(t, ok)

	keys := src.Keys()
	assert.Contains(t, keys, "database.url")
	assert.Contains(t, keys, "server.port")
}
