package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentPriorityOrder(t *testing.T) {
	env := NewEnvironment()
	env.AddPropertySource(NewMapPropertySource("defaults", 0, map[string]any{
		"server.port": 8080,
		"app.name":    "base",
	}))
	env.AddPropertySource(NewMapPropertySource("overrides", 50, map[string]any{
		"server.port": 9090,
	}))

	port, ok := env.GetInt64("server.port")
	require.True(t, ok)
	assert.Equal(t, int64(9090), port)

	// Keys absent from the winner fall through to lower priorities.
	assert.Equal(t, "base", env.GetStringOr("app.name", ""))
	assert.Equal(t, []string{"overrides", "defaults"}, env.Sources())
}

func TestEnvironmentEqualPriorityFirstWins(t *testing.T) {
	env := NewEnvironment()
	env.AddPropertySource(NewMapPropertySource("one", 10, map[string]any{"k": "one"}))
	env.AddPropertySource(NewMapPropertySource("two", 10, map[string]any{"k": "two"}))

	assert.Equal(t, "one", env.GetStringOr("k", ""))
}

func TestEnvironmentTypedGetters(t *testing.T) {
	env := NewEnvironment()
	env.AddPropertySource(NewMapPropertySource("values", 0, map[string]any{
		"str":       "hello",
		"int":       42,
		"intStr":    "17",
		"float":     3.5,
		"boolTrue":  "yes",
		"boolFalse": "0",
		"list":      []any{"a", "b"},
		"csv":       "x, y ,z",
	}))

	assert.Equal(t, "hello", env.GetStringOr("str", ""))
	assert.Equal(t, int64(42), env.GetInt64Or("int", 0))
	assert.Equal(t, int64(17), env.GetInt64Or("intStr", 0))
	assert.Equal(t, 3.5, env.GetFloat64Or("float", 0))
	assert.True(t, env.GetBoolOr("boolTrue", false))
	assert.False(t, env.GetBoolOr("boolFalse", true))

	list, ok := env.GetStringSlice("list")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)

	csv, ok := env.GetStringSlice("csv")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, csv)

	assert.Equal(t, "fallback", env.GetStringOr("missing", "fallback"))
	assert.Equal(t, int64(7), env.GetInt64Or("missing", 7))
}

func TestEnvironmentProfiles(t *testing.T) {
	env := NewEnvironment()
	assert.Empty(t, env.ActiveProfiles())
	assert.False(t, env.AcceptsProfile("dev"))

	env.SetActiveProfiles("dev", "cloud")
	assert.Equal(t, []string{"dev", "cloud"}, env.ActiveProfiles())
	assert.True(t, env.AcceptsProfile("dev"))
	assert.False(t, env.AcceptsProfile("prod"))

	env.SetActiveProfiles("prod")
	assert.Equal(t, []string{"prod"}, env.ActiveProfiles())
}

func TestValueCoercions(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want func(t *testing.T, v Value)
	}{
		{"intToString", 5, func(t *testing.T, v Value) {
			s, ok := v.String()
			require.True(t, ok)
			assert.Equal(t, "5", s)
		}},
		{"boolToString", true, func(t *testing.T, v Value) {
			s, ok := v.String()
			require.True(t, ok)
			assert.Equal(t, "true", s)
		}},
		{"stringToBoolInvalid", "maybe", func(t *testing.T, v Value) {
			_, ok := v.Bool()
			assert.False(t, ok)
		}},
		{"intToFloat", 2, func(t *testing.T, v Value) {
			f, ok := v.Float64()
			require.True(t, ok)
			assert.Equal(t, 2.0, f)
		}},
		{"mapDoesNotCoerce", map[string]any{"k": "v"}, func(t *testing.T, v Value) {
			_, ok := v.String()
			assert.False(t, ok)
			m, mok := v.Map()
			require.True(t, mok)
			assert.Contains(t, m, "k")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.want(t, ValueOf(tc.raw))
		})
	}
}
