package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverProperties struct {
	Port    int           `config:"port" default:"8080" validate:"min=1,max=65535"`
	Host    string        `config:"host" default:"0.0.0.0"`
	Debug   bool          `config:"debug"`
	Timeout time.Duration `config:"timeout" default:"30s"`
	Origins []string      `config:"origins"`
	TLS     struct {
		Enabled  bool   `config:"enabled"`
		CertFile string `config:"cert-file"`
	} `config:"tls"`
}

func testEnv(values map[string]any) *Environment {
	env := NewEnvironment()
	env.AddPropertySource(NewMapPropertySource("test", 0, values))
	return env
}

func TestBindPopulatesFields(t *testing.T) {
	env := testEnv(map[string]any{
		"server.port":          9000,
		"server.debug":         "yes",
		"server.timeout":       "1m30s",
		"server.origins":       "a.example.com, b.example.com",
		"server.tls.enabled":   true,
		"server.tls.cert-file": "/etc/certs/app.pem",
	})

	var props serverProperties
	require.NoError(t, Bind(env, "server", &props))

	assert.Equal(t, 9000, props.Port)
	assert.Equal(t, "0.0.0.0", props.Host, "default applies when the key is absent")
	assert.True(t, props.Debug)
	assert.Equal(t, 90*time.Second, props.Timeout)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, props.Origins)
	assert.True(t, props.TLS.Enabled)
	assert.Equal(t, "/etc/certs/app.pem", props.TLS.CertFile)
}

func TestBindDefaultsOnly(t *testing.T) {
	var props serverProperties
	require.NoError(t, Bind(testEnv(nil), "server", &props))

	assert.Equal(t, 8080, props.Port)
	assert.Equal(t, 30*time.Second, props.Timeout)
	assert.False(t, props.Debug)
}

func TestBindValidationFailure(t *testing.T) {
	env := testEnv(map[string]any{"server.port": 70000})

	var props serverProperties
	err := Bind(env, "server", &props)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server")
}

type requiredProperties struct {
	Dsn string `config:"dsn" validate:"required"`
}

func TestBindRequiredMissing(t *testing.T) {
	var props requiredProperties
	err := Bind(testEnv(nil), "database", &props)
	require.Error(t, err)

	require.NoError(t, Bind(testEnv(map[string]any{
		"database.dsn": "postgres://localhost/app",
	}), "database", &props))
	assert.Equal(t, "postgres://localhost/app", props.Dsn)
}

func TestBindCoercionFailure(t *testing.T) {
	env := testEnv(map[string]any{"server.port": "not-a-number"})

	var props serverProperties
	err := Bind(env, "server", &props)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestBindRejectsNonStructTarget(t *testing.T) {
	var n int
	assert.Error(t, Bind(testEnv(nil), "x", &n))
	assert.Error(t, Bind(testEnv(nil), "x", serverProperties{}))
}

func TestBindUsesYamlTagAndFieldNameFallback(t *testing.T) {
	type mixed struct {
		FromYaml string `yaml:"renamed"`
		Plain    string
	}
	env := testEnv(map[string]any{
		"m.renamed": "via-yaml-tag",
		"m.plain":   "via-field-name",
	})

	var target mixed
	require.NoError(t, Bind(env, "m", &target))
	assert.Equal(t, "via-yaml-tag", target.FromYaml)
	assert.Equal(t, "via-field-name", target.Plain)
}
