package macro

import (
	"sort"

	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/models"
)

// MaxMacroDepth bounds Dijkstra iterations before the search aborts.
const MaxMacroDepth = 10

type frontierEntry struct {
	nodeID   string
	distance float64
}

// PlanMacroPath runs a deterministic Dijkstra over the graph's
// learnedCost, returning an ok(MacroPlan), or blocked(unknown_context |
// bound_exceeded | no_macro_path).
func PlanMacroPath(g *Graph, start, goal, goalID string) coreerrors.PlanningDecision[*models.MacroPlan] {
	if !g.HasContext(start) || !g.HasContext(goal) {
		return coreerrors.Block[*models.MacroPlan](coreerrors.UnknownContext, "start or goal context is not registered")
	}

	if start == goal {
		digest := PlanDigest(nil, goalID)
		return coreerrors.Ok(&models.MacroPlan{
			Digest: digest, Edges: nil, Start: start, Goal: goal, GoalID: goalID, TotalCost: 0,
		})
	}

	dist := map[string]float64{start: 0}
	prevEdge := map[string]*models.MacroEdge{}
	visited := map[string]bool{}

	iterations := 0
	for {
		iterations++
		if iterations > MaxMacroDepth {
			return coreerrors.Block[*models.MacroPlan](coreerrors.BoundExceeded, "macro search exceeded max depth")
		}

		// Select the unvisited frontier node with (distance ASC, nodeId ASC).
		var frontier []frontierEntry
		for node, d := range dist {
			if !visited[node] {
				frontier = append(frontier, frontierEntry{node, d})
			}
		}
		if len(frontier) == 0 {
			return coreerrors.Block[*models.MacroPlan](coreerrors.NoMacroPath, "no reachable path to goal")
		}
		sort.Slice(frontier, func(i, j int) bool {
			if frontier[i].distance != frontier[j].distance {
				return frontier[i].distance < frontier[j].distance
			}
			return frontier[i].nodeID < frontier[j].nodeID
		})

		current := frontier[0].nodeID
		visited[current] = true

		if current == goal {
			break
		}

		for _, edge := range g.EdgesFrom(current) {
			candidate := dist[current] + edge.LearnedCost
			if existing, ok := dist[edge.To]; !ok || candidate < existing {
				dist[edge.To] = candidate
				prevEdge[edge.To] = edge
			}
		}
	}

	if _, reached := dist[goal]; !reached {
		return coreerrors.Block[*models.MacroPlan](coreerrors.NoMacroPath, "no reachable path to goal")
	}
	if _, hasEdge := prevEdge[goal]; !hasEdge {
		return coreerrors.Block[*models.MacroPlan](coreerrors.NoMacroPath, "no reachable path to goal")
	}

	var edges []*models.MacroEdge
	node := goal
	for node != start {
		edge, ok := prevEdge[node]
		if !ok {
			return coreerrors.Block[*models.MacroPlan](coreerrors.NoMacroPath, "no reachable path to goal")
		}
		edges = append([]*models.MacroEdge{edge}, edges...)
		node = edge.From
	}

	edgeIDs := make([]string, len(edges))
	for i, e := range edges {
		edgeIDs[i] = e.ID
	}

	return coreerrors.Ok(&models.MacroPlan{
		Digest:    PlanDigest(edgeIDs, goalID),
		Edges:     edges,
		Start:     start,
		Goal:      goal,
		GoalID:    goalID,
		TotalCost: dist[goal],
	})
}
