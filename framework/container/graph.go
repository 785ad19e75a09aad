package container

import "sort"

// ValidateGraph checks a dependency snapshot for edges to unregistered
// names and for cycles, in that order. The first problem found is returned
// wrapped in a DependencyValidationError.
func ValidateGraph(graph map[string][]string) error {
	names := sortedKeys(graph)

	for _, name := range names {
		for _, dep := range graph[name] {
			if _, ok := graph[dep]; !ok {
				return &DependencyValidationError{
					Cause: &MissingDependencyError{Bean: name, Missing: dep},
				}
			}
		}
	}

	if cycle := findCycle(graph, names); cycle != nil {
		return &DependencyValidationError{
			Cause: &CircularDependencyError{Chain: cycle},
		}
	}
	return nil
}

// findCycle runs an iterative depth-first search with an explicit stack.
// The returned chain starts and ends at the same name; a self-loop yields
// ["a", "a"].
func findCycle(graph map[string][]string, names []string) []string {
	visited := make(map[string]bool, len(graph))
	onStack := make(map[string]bool, len(graph))

	type frame struct {
		name string
		next int
	}

	for _, root := range names {
		if visited[root] {
			continue
		}
		stack := []frame{{name: root}}
		path := []string{root}
		visited[root] = true
		onStack[root] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := graph[top.name]
			if top.next < len(deps) {
				dep := deps[top.next]
				top.next++
				if onStack[dep] {
					for i, name := range path {
						if name == dep {
							return append(append([]string{}, path[i:]...), dep)
						}
					}
				}
				if !visited[dep] {
					visited[dep] = true
					onStack[dep] = true
					stack = append(stack, frame{name: dep})
					path = append(path, dep)
				}
				continue
			}
			onStack[top.name] = false
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}
	return nil
}

// TopologicalLevels groups the graph into creation waves: level 0 holds
// beans with no dependencies inside the graph, level n holds beans whose
// deepest dependency sits at level n-1. Names within a level are sorted.
// Leftover nodes after the sweep mean a cycle survived validation, which is
// reported rather than looped on.
func TopologicalLevels(graph map[string][]string) ([][]string, error) {
	remaining := make(map[string]int, len(graph))
	dependents := make(map[string][]string, len(graph))
	for name, deps := range graph {
		count := 0
		for _, dep := range deps {
			if _, ok := graph[dep]; ok {
				count++
				dependents[dep] = append(dependents[dep], name)
			}
		}
		remaining[name] = count
	}

	var levels [][]string
	current := make([]string, 0)
	for name, count := range remaining {
		if count == 0 {
			current = append(current, name)
		}
	}
	placed := 0

	for len(current) > 0 {
		sort.Strings(current)
		levels = append(levels, current)
		placed += len(current)

		next := make([]string, 0)
		for _, name := range current {
			for _, dependent := range dependents[name] {
				remaining[dependent]--
				if remaining[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		current = next
	}

	if placed != len(graph) {
		stuck := make([]string, 0, len(graph)-placed)
		for name, count := range remaining {
			if count > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, &CircularDependencyError{Chain: stuck}
	}
	return levels, nil
}

func sortedKeys(graph map[string][]string) []string {
	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
