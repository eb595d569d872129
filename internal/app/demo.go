package app

import (
	"fmt"

	"github.com/kestrelbot/agentcore/internal/macro"
	"github.com/kestrelbot/agentcore/internal/planner"
)

// SeedDemoGraph registers a small fixed topology of abstract contexts —
// the kind a host bot would define once at startup from its own world
// knowledge — and freezes it immediately, since the graph's topology is
// meant to be registered once and never mutated afterward.
func SeedDemoGraph() *macro.Graph {
	g := macro.NewGraph()

	contexts := []struct {
		id, desc string
	}{
		{"surface", "overworld surface layer"},
		{"shallow_cave", "near-surface cave system"},
		{"deep_mine", "deep ore-bearing strata"},
		{"nether", "nether dimension"},
		{"base", "home base / crafting hub"},
	}
	for _, c := range contexts {
		if err := g.RegisterContext(c.id, c.desc); err != nil {
			panic(fmt.Sprintf("seed demo graph: %v", err))
		}
	}

	edges := []struct {
		from, to string
		cost     float64
	}{
		{"base", "surface", 1.0},
		{"surface", "shallow_cave", 2.0},
		{"shallow_cave", "deep_mine", 4.0},
		{"surface", "nether", 6.0},
		{"nether", "deep_mine", 3.0},
		{"deep_mine", "base", 5.0},
	}
	for _, e := range edges {
		if _, err := g.RegisterEdge(e.from, e.to, e.cost); err != nil {
			panic(fmt.Sprintf("seed demo graph: %v", err))
		}
	}

	mappings := map[string]string{
		string(planner.KindCollect):         "shallow_cave",
		string(planner.KindMine):            "deep_mine",
		string(planner.KindCraft):           "base",
		string(planner.KindToolProgression): "base",
		string(planner.KindBuild):           "surface",
		string(planner.KindNavigate):        "surface",
		string(planner.KindExplore):         "nether",
		string(planner.KindFind):            "deep_mine",
	}
	for kind, ctx := range mappings {
		if err := g.RegisterRequirementMapping(kind, ctx); err != nil {
			panic(fmt.Sprintf("seed demo graph: %v", err))
		}
	}

	g.Freeze()
	return g
}

// demoSolver is a placeholder backend standing in for the bot's own
// sterling-family solvers (A-star acquisition search, crafting-tree
// solving, and so on). It returns one synthetic leaf step per call so
// the façade's wiring can be exercised end to end.
func demoSolver(input planner.SolveInput) (planner.SolveOutput, error) {
	return planner.SolveOutput{
		Steps: []planner.SolveStep{
			{Action: "execute", Args: map[string]interface{}{"goal": input.Goal.Item}, Order: 0},
		},
		PlanID: "demo-plan",
	}, nil
}
