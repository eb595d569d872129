package plan

import (
	"fmt"
	"sort"

	"github.com/kestrelbot/agentcore/internal/models"
)

// Wave groups the leaf step ids that may execute concurrently; every id
// in an earlier wave has completed before a later wave starts.
type Wave struct {
	Number int
	StepIDs []string
}

// CalculateWaves groups the id-bearing steps into execution waves using
// Kahn's algorithm. Steps without an id do not participate and are
// omitted. Returns an error if the steps contain a cycle.
func CalculateWaves(steps []models.Step) ([]Wave, error) {
	indexed := make(map[string]models.Step)
	for _, s := range steps {
		if s.ID != "" {
			indexed[s.ID] = s
		}
	}
	if len(indexed) == 0 {
		return nil, nil
	}

	stepSlice := make([]models.Step, 0, len(indexed))
	for _, s := range indexed {
		stepSlice = append(stepSlice, s)
	}
	if DetectStepCycles(stepSlice) {
		return nil, fmt.Errorf("circular dependency among plan steps")
	}

	edges := make(map[string][]string)
	inDegree := make(map[string]int, len(indexed))
	for id := range indexed {
		inDegree[id] = 0
	}
	for id, s := range indexed {
		for _, dep := range s.DependsOn {
			if _, ok := indexed[dep]; !ok {
				continue
			}
			edges[dep] = append(edges[dep], id)
			inDegree[id]++
		}
	}

	var waves []Wave
	remaining := make(map[string]int, len(inDegree))
	for k, v := range inDegree {
		remaining[k] = v
	}

	for len(remaining) > 0 {
		var current []string
		for id, degree := range remaining {
			if degree == 0 {
				current = append(current, id)
			}
		}
		if len(current) == 0 {
			return nil, fmt.Errorf("plan step graph error: no steps with zero in-degree")
		}

		sort.Strings(current)

		waves = append(waves, Wave{Number: len(waves) + 1, StepIDs: current})

		for _, id := range current {
			delete(remaining, id)
			for _, dependent := range edges[id] {
				if _, ok := remaining[dependent]; ok {
					remaining[dependent]--
				}
			}
		}
	}

	return waves, nil
}
