package planner

import (
	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/macro"
	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/kestrelbot/agentcore/internal/plan"
)

// RigForRequirement maps a routed requirement kind to its sterling rig.
func RigForRequirement(kind RequirementKind) Rig {
	switch kind {
	case KindCraft:
		return RigCrafting
	case KindToolProgression:
		return RigToolProgression
	case KindBuild:
		return RigBuilding
	case KindCollect, KindMine:
		return RigAcquisition
	case KindNavigate, KindExplore, KindFind:
		return RigHierarchical
	default:
		return ""
	}
}

// isHierarchical reports whether kind is one of the hierarchically-solved
// navigation requirements (Rig E).
func isHierarchical(kind RequirementKind) bool {
	return kind == KindNavigate || kind == KindExplore || kind == KindFind
}

// isAcquisition reports whether kind is a raw-acquisition requirement
// (Rig D candidate, contingent on a registered acquisition solver).
func isAcquisition(kind RequirementKind) bool {
	return kind == KindCollect || kind == KindMine
}

// RouteActionPlan decides which backend handles requirement. strict mode
// (the env default) yields unplannable for a nil requirement; permissive
// mode falls back to compiler instead.
func RouteActionPlan(requirement *TaskRequirement, hasAcquisitionSolver bool, strict bool) (RouteOutcome, Rig) {
	if requirement == nil {
		if strict {
			return RouteUnplannable, ""
		}
		return RouteCompiler, ""
	}

	switch requirement.Kind {
	case KindCraft, KindToolProgression, KindBuild:
		return RouteSterling, RigForRequirement(requirement.Kind)
	case KindNavigate, KindExplore, KindFind:
		return RouteSterling, RigHierarchical
	case KindCollect, KindMine:
		if hasAcquisitionSolver {
			return RouteSterling, RigAcquisition
		}
		return RouteCompiler, ""
	default:
		return RouteUnplannable, ""
	}
}

// SolverFunc is a registered domain solver for one sterling rig.
type SolverFunc func(SolveInput) (SolveOutput, error)

// Facade wires requirement routing to registered solvers, the compiler
// fallback, and optional hierarchical macro-plan wrapping.
type Facade struct {
	Strict               bool
	HasAcquisitionSolver bool
	Solvers              map[Rig]SolverFunc
	Macro                *macro.Graph
	Feedback             *macro.FeedbackStore
}

// NewFacade constructs an empty façade; register solvers via Solvers
// before calling Plan.
func NewFacade(strict bool) *Facade {
	return &Facade{Strict: strict, Solvers: make(map[Rig]SolverFunc)}
}

// compilerSteps lowers a requirement to a single fixed leaf step, with no
// search or scoring — the façade's fallback backend.
func compilerSteps(requirement *TaskRequirement) []models.Step {
	action := "noop"
	if requirement != nil {
		action = string(requirement.Kind)
	}
	return []models.Step{{
		Source:     "compiler",
		Executable: true,
		Action:     action,
		Order:      0,
	}}
}

// okResult checks steps for a step-level dependency cycle before letting
// a plan through as ok; a cyclic plan is never returned, regardless of
// which backend produced it.
func okResult(steps []models.Step) coreerrors.PlanningDecision[[]models.Step] {
	if plan.DetectStepCycles(steps) {
		return coreerrors.Err[[]models.Step](coreerrors.CycleDetected, "plan steps contain a circular dependency", nil)
	}
	return coreerrors.Ok(steps)
}

// toDomainSteps attaches façade metadata to raw solver steps.
func toDomainSteps(steps []SolveStep, source, solverID, planID, bundleID string) []models.Step {
	out := make([]models.Step, len(steps))
	for i, s := range steps {
		out[i] = models.Step{
			Source:     source,
			SolverID:   solverID,
			PlanID:     planID,
			BundleID:   bundleID,
			Executable: true,
			Action:     s.Action,
			Args:       s.Args,
			Order:      s.Order,
			ID:         s.ID,
			DependsOn:  s.DependsOn,
		}
	}
	return out
}

// Plan routes requirement and produces the task's steps. The
// hierarchical path (navigate/explore/find) requires both a configured
// MacroPlanner and FeedbackStore; if either is missing it returns a
// blocked sentinel rather than silently degrading to the compiler.
func (f *Facade) Plan(requirement *TaskRequirement, input SolveInput, start, goal, goalID, solverID string) coreerrors.PlanningDecision[[]models.Step] {
	outcome, rig := RouteActionPlan(requirement, f.HasAcquisitionSolver, f.Strict)

	switch outcome {
	case RouteUnplannable:
		return coreerrors.Block[[]models.Step](coreerrors.SchemaMismatch, "requirement could not be routed to any backend")

	case RouteCompiler:
		return okResult(compilerSteps(requirement))

	case RouteSterling:
		if isHierarchical(requirement.Kind) {
			if f.Macro == nil || f.Feedback == nil {
				return coreerrors.Block[[]models.Step](coreerrors.PlannerUnconfigured, "hierarchical planning requires both a MacroPlanner and a FeedbackStore")
			}

			planDecision := macro.PlanMacroPath(f.Macro, start, goal, goalID)
			macroPlan, ok := planDecision.Value()
			if !ok {
				if blocked, isBlocked := planDecision.IsBlocked(); isBlocked {
					return coreerrors.Block[[]models.Step](blocked.Reason, blocked.Detail)
				}
				errVal, _ := planDecision.IsError()
				return coreerrors.Err[[]models.Step](errVal.Reason, errVal.Detail, errVal.Cause)
			}

			solver, registered := f.Solvers[rig]
			if !registered {
				return coreerrors.Block[[]models.Step](coreerrors.PlannerUnconfigured, "no solver registered for rig "+string(rig))
			}
			out, err := solver(input)
			if err != nil {
				return coreerrors.Err[[]models.Step](coreerrors.SerializationError, "sterling solver failed", err)
			}

			bundleID := macroPlan.Digest
			steps := toDomainSteps(out.Steps, "sterling", solverID, out.PlanID, bundleID)
			return okResult(steps)
		}

		solver, registered := f.Solvers[rig]
		if !registered {
			return coreerrors.Block[[]models.Step](coreerrors.PlannerUnconfigured, "no solver registered for rig "+string(rig))
		}
		out, err := solver(input)
		if err != nil {
			return coreerrors.Err[[]models.Step](coreerrors.SerializationError, "sterling solver failed", err)
		}
		steps := toDomainSteps(out.Steps, "sterling", solverID, out.PlanID, "")
		return okResult(steps)

	default:
		return coreerrors.Block[[]models.Step](coreerrors.SchemaMismatch, "unrecognized route outcome")
	}
}
