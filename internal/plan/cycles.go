// Package plan implements the step-level dependency graph operations
// SPEC_FULL.md supplements: cycle detection and execution wave grouping
// for a task's leaf steps. Grounded directly on the teacher's
// internal/models.HasCyclicDependencies (DFS with white/gray/black color
// marking) and internal/executor/graph.go's CalculateWaves (Kahn's
// algorithm), generalized from plan-file task numbers to Step ids within
// one macro edge.
package plan

import (
	"github.com/kestrelbot/agentcore/internal/models"
)

const (
	white = 0
	gray  = 1
	black = 2
)

// DetectStepCycles reports whether the given steps' DependsOn edges form
// a cycle. Steps with an empty ID do not participate in the graph.
func DetectStepCycles(steps []models.Step) bool {
	byID := make(map[string]bool)
	edges := make(map[string][]string)

	for _, s := range steps {
		if s.ID == "" {
			continue
		}
		byID[s.ID] = true
	}

	for _, s := range steps {
		if s.ID == "" {
			continue
		}
		for _, dep := range s.DependsOn {
			if dep == s.ID {
				return true
			}
			if byID[dep] {
				edges[dep] = append(edges[dep], s.ID)
			}
		}
	}

	colors := make(map[string]int, len(byID))
	for id := range byID {
		colors[id] = white
	}

	var dfs func(string) bool
	dfs = func(node string) bool {
		colors[node] = gray
		for _, neighbor := range edges[node] {
			if colors[neighbor] == gray {
				return true
			}
			if colors[neighbor] == white && dfs(neighbor) {
				return true
			}
		}
		colors[node] = black
		return false
	}

	for id := range byID {
		if colors[id] == white {
			if dfs(id) {
				return true
			}
		}
	}

	return false
}
