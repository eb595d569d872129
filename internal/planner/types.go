// Package planner implements C15: the planner façade routing a task's
// requirement to a domain solver, the fixed-plan compiler fallback, or
// unplannable. Grounded on the teacher's internal/cmd command-routing
// style (a small dispatch table mapping a discriminant to a handler),
// generalized from CLI subcommands to requirement rigs.
package planner

// RequirementKind is the closed discriminant of a TaskRequirement.
type RequirementKind string

const (
	KindCollect         RequirementKind = "collect"
	KindMine            RequirementKind = "mine"
	KindCraft           RequirementKind = "craft"
	KindToolProgression RequirementKind = "tool_progression"
	KindBuild           RequirementKind = "build"
	KindNavigate        RequirementKind = "navigate"
	KindExplore         RequirementKind = "explore"
	KindFind            RequirementKind = "find"
)

// TaskRequirement is the discriminated union of what a task needs solved.
// Only the fields relevant to Kind are populated.
type TaskRequirement struct {
	Kind RequirementKind

	// collect | mine
	Patterns []string
	Quantity int

	// craft
	OutputPattern string
	ProxyPatterns []string

	// tool_progression
	TargetTool string
	ToolType   string
	TargetTier int

	// build
	Structure string

	// navigate
	Destination string
	Tolerance   float64

	// explore | find
	Target   string
	MaxSteps int
}

// patternSet builds a membership set for order-independent comparison.
func patternSet(patterns []string) map[string]bool {
	set := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		set[p] = true
	}
	return set
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// Equivalent reports whether two requirements are equivalent: same kind
// and matching kind-specific identity fields (patterns as sets for
// collect/mine).
func Equivalent(a, b TaskRequirement) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindCollect, KindMine:
		return sameSet(patternSet(a.Patterns), patternSet(b.Patterns))
	case KindCraft:
		return a.OutputPattern == b.OutputPattern
	case KindToolProgression:
		return a.TargetTool == b.TargetTool
	case KindBuild:
		return a.Structure == b.Structure
	case KindNavigate:
		return a.Destination == b.Destination
	case KindExplore, KindFind:
		return a.Target == b.Target
	default:
		return false
	}
}

// SolveInput is the bot->solver request shape.
type SolveInput struct {
	State struct {
		Inventory    map[string]int
		NearbyBlocks []string
	}
	Goal struct {
		Item         string
		Structure    string
		TargetTool   string
		Quantity     int
	}
	CapabilitySet    []string
	ProgressBitmask  int
	Constraints      map[string]interface{}
	FailureContext   *FailureContext
}

// FailureContext carries replan context from a previously failed leaf.
type FailureContext struct {
	FailedLeaf           string
	ReasonClass          string
	AttemptCount         int
	PreviousStepsDigest  string
}

// SolveOutput is the solver->bot response shape.
type SolveOutput struct {
	Steps       []SolveStep
	PlanID      string
	SolveMeta   *SolveMeta
	SearchHealth map[string]interface{}
}

// SolveStep is one raw step a solver produces, before façade metadata is
// attached. ID and DependsOn are optional: a solver that issues
// independently-orderable leaf steps sets them so the façade can detect
// a circular dependency before the plan is handed back.
type SolveStep struct {
	Action    string
	Args      map[string]interface{}
	Order     int
	ID        string
	DependsOn []string
}

// SolveMeta carries solver-produced bundle bookkeeping.
type SolveMeta struct {
	Bundles []string
}

// RouteOutcome is the closed backend a requirement routes to.
type RouteOutcome string

const (
	RouteSterling    RouteOutcome = "sterling"
	RouteCompiler    RouteOutcome = "compiler"
	RouteUnplannable RouteOutcome = "unplannable"
)

// Rig is the closed set of sterling solver rigs.
type Rig string

const (
	RigCrafting         Rig = "A"
	RigToolProgression  Rig = "B"
	RigAcquisition      Rig = "D"
	RigHierarchical     Rig = "E"
	RigBuilding         Rig = "G"
)
