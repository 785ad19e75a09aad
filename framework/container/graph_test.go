package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGraphOK(t *testing.T) {
	graph := map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {},
	}
	assert.NoError(t, ValidateGraph(graph))
}

func TestValidateGraphMissingDependency(t *testing.T) {
	graph := map[string][]string{
		"a": {"ghost"},
	}
	err := ValidateGraph(graph)

	var validation *DependencyValidationError
	require.ErrorAs(t, err, &validation)
	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "a", missing.Bean)
	assert.Equal(t, "ghost", missing.Missing)
}

func TestValidateGraphCycle(t *testing.T) {
	graph := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}
	err := ValidateGraph(graph)

	var circular *CircularDependencyError
	require.ErrorAs(t, err, &circular)
	// Chain closes on the node it started from.
	require.Len(t, circular.Chain, 4)
	assert.Equal(t, circular.Chain[0], circular.Chain[len(circular.Chain)-1])
}

func TestValidateGraphSelfLoop(t *testing.T) {
	graph := map[string][]string{
		"a": {"a"},
	}
	err := ValidateGraph(graph)

	var circular *CircularDependencyError
	require.ErrorAs(t, err, &circular)
	assert.Equal(t, []string{"a", "a"}, circular.Chain)
}

func TestTopologicalLevels(t *testing.T) {
	graph := map[string][]string{
		"db":      {},
		"cache":   {},
		"repo":    {"db"},
		"service": {"repo", "cache"},
		"api":     {"service"},
	}
	levels, err := TopologicalLevels(graph)
	require.NoError(t, err)

	require.Len(t, levels, 4)
	assert.Equal(t, []string{"cache", "db"}, levels[0])
	assert.Equal(t, []string{"repo"}, levels[1])
	assert.Equal(t, []string{"service"}, levels[2])
	assert.Equal(t, []string{"api"}, levels[3])
}

func TestTopologicalLevelsIgnoresEdgesOutsideGraph(t *testing.T) {
	// Dependencies on names missing from the snapshot (lazy or prototype
	// beans filtered out upstream) do not count toward the level.
	graph := map[string][]string{
		"service": {"lazyThing"},
	}
	levels, err := TopologicalLevels(graph)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, []string{"service"}, levels[0])
}

func TestTopologicalLevelsReportsCycle(t *testing.T) {
	graph := map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"c": {},
	}
	_, err := TopologicalLevels(graph)

	var circular *CircularDependencyError
	require.ErrorAs(t, err, &circular)
	assert.Equal(t, []string{"a", "b"}, circular.Chain)
}
