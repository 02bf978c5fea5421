package registry

import "sort"

// detectCycles runs a DFS over graph in name order so results are stable.
func detectCycles(graph map[string][]string) [][]string {
	var cycles [][]string

	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, name := range names {
		if !visited[name] {
			if cycle := detectCycleDFS(name, graph, visited, recStack, nil); cycle != nil {
				cycles = append(cycles, cycle)
			}
		}
	}

	return cycles
}

func detectCycleDFS(component string, graph map[string][]string, visited, recStack map[string]bool, path []string) []string {
	visited[component] = true
	recStack[component] = true
	path = append(path, component)

	for _, dep := range graph[component] {
		if _, known := graph[dep]; !known {
			continue
		}
		if !visited[dep] {
			if cycle := detectCycleDFS(dep, graph, visited, recStack, path); cycle != nil {
				return cycle
			}
		} else if recStack[dep] {
			// Found cycle - extract the cycle from path
			for i, p := range path {
				if p == dep {
					cycle := make([]string, len(path)-i+1)
					copy(cycle, path[i:])
					cycle[len(cycle)-1] = dep

					return cycle
				}
			}
		}
	}

	recStack[component] = false

	return nil
}
