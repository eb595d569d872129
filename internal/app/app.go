package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelbot/agentcore/internal/activation"
	"github.com/kestrelbot/agentcore/internal/coreconfig"
	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/corelog"
	"github.com/kestrelbot/agentcore/internal/events"
	"github.com/kestrelbot/agentcore/internal/macro"
	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/kestrelbot/agentcore/internal/planner"
	"github.com/kestrelbot/agentcore/internal/reducer"
	"github.com/kestrelbot/agentcore/internal/resolver"
	"github.com/kestrelbot/agentcore/internal/review"
	"github.com/kestrelbot/agentcore/internal/telemetry"
	"github.com/kestrelbot/agentcore/internal/threat"
)

// App bundles every component the CLI subcommands need, wired against a
// single demo Store. One App is constructed per CLI invocation; a
// long-lived embedding (a real bot process) would construct one App at
// startup and reuse it across ticks.
type App struct {
	Config    *coreconfig.Config
	Logger    *corelog.Logger
	Store     *Store
	Events    *events.Collector
	Resolver  *resolver.GoalResolver
	Reactor   *activation.Reactor
	Macro     *macro.Graph
	Feedback  *macro.FeedbackStore
	Facade    *planner.Facade
	Telemetry *telemetry.SQLiteSink
}

// New constructs a fully wired App: a seeded demo macro graph (frozen
// immediately, since this is the fixed topology the whole session
// shares), an empty task store, and every stateful collaborator.
func New(cfg *coreconfig.Config, logger *corelog.Logger) *App {
	graph := SeedDemoGraph()

	facade := planner.NewFacade(cfg.StrictRequirements)
	facade.Macro = graph
	facade.Feedback = macro.NewFeedbackStore()
	facade.HasAcquisitionSolver = true
	facade.Solvers = map[planner.Rig]planner.SolverFunc{
		planner.RigAcquisition:      demoSolver,
		planner.RigCrafting:         demoSolver,
		planner.RigToolProgression:  demoSolver,
		planner.RigHierarchical:     demoSolver,
		planner.RigBuilding:         demoSolver,
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    NewStore(),
		Events:   events.NewCollector(cfg.EventRingCapacity),
		Resolver: resolver.NewGoalResolver(),
		Reactor:  activation.New(),
		Macro:    graph,
		Feedback: facade.Feedback,
		Facade:   facade,
	}
}

// AttachTelemetry wires sink as a passive subscriber: every lifecycle
// event and macro cost update emitted from this point on is also
// persisted to sink, in addition to (never instead of) the in-memory
// ring buffer. A nil sink detaches telemetry.
func (a *App) AttachTelemetry(sink *telemetry.SQLiteSink) {
	a.Telemetry = sink
}

// emit records event on the in-memory ring and, if telemetry is
// attached, persists it too. A sink write failure is logged and never
// propagated — the core's own state never depends on the sink.
func (a *App) emit(event models.LifecycleEvent) {
	a.Events.Emit(event)
	if a.Telemetry == nil {
		return
	}
	if err := a.Telemetry.RecordEvent(context.Background(), event); err != nil {
		a.Logger.Errorf("telemetry: record event: %v", err)
	}
}

// recordCostUpdate persists update to telemetry if attached; it never
// affects the in-memory graph, which already has the new cost applied
// by FeedbackStore.RecordOutcome before this is called.
func (a *App) recordCostUpdate(update macro.CostUpdate, now time.Time) {
	if a.Telemetry == nil {
		return
	}
	if err := a.Telemetry.RecordCostUpdate(context.Background(), update, now); err != nil {
		a.Logger.Errorf("telemetry: record cost update: %v", err)
	}
}

// Resolve runs the atomic resolve-or-create entry point against the
// demo store.
func (a *App) Resolve(input resolver.ResolveInput) (resolver.Result, error) {
	deps := resolver.Deps{
		GetAllTasks:        a.Store.GetAllTasks,
		StoreTask:          a.Store.StoreTask,
		GenerateTaskID:     func() string { return uuid.NewString() },
		GenerateInstanceID: func() string { return uuid.NewString() },
		IsStillSatisfied:   func(t *models.Task) bool { return false },
	}
	return a.Resolver.ResolveOrCreate(input, deps)
}

// RunReview executes one periodic review pass and applies its effects.
func (a *App) RunReview(now time.Time) review.Result {
	getGoalStatus := func(goalID string) (reducer.GoalStatus, bool) {
		for _, t := range a.Store.GetAllTasks() {
			b := t.Metadata.GoalBinding
			if b != nil && b.GoalID != nil && *b.GoalID == goalID {
				return reducer.TaskStatusToGoalStatus(t.Status), true
			}
		}
		return "", false
	}

	result := review.RunPeriodicReview(a.Store.GetAllTasks(), getGoalStatus, now)
	a.ApplyEffects(result.Effects)
	return result
}

// TickActivation runs one activation reactor tick over the demo store.
func (a *App) TickActivation(now time.Time, proximity func(taskID string) float64) activation.TickResult {
	activeIDs := make(map[string]bool)
	for _, t := range a.Store.GetAllTasks() {
		if t.Status == models.StatusActive {
			activeIDs[t.ID] = true
		}
	}

	ctx := activation.TickContext{
		Now:           now,
		ActiveTaskIDs: activeIDs,
		Proximity: func(t *models.Task) float64 {
			return proximity(t.ID)
		},
	}

	result := a.Reactor.Tick(a.Store.GetAllTasks(), ctx)
	for _, id := range result.Activated {
		if t, ok := a.Store.Get(id); ok {
			t.Status = models.StatusActive
			a.Store.StoreTask(t)
			a.Logger.LogGoalActivated(id)
		}
	}
	return result
}

// EvaluateThreat runs one threat-bridge evaluation pass over the demo
// store, using the caller-supplied signal as the fetch result (a real
// embedding would pass a live FetchThreatSignal closure instead).
func (a *App) EvaluateThreat(now time.Time, signal threat.Signal, thresholdLevel threat.Level) threat.EvalResult {
	deps := threat.Deps{
		FetchSignal:        func() threat.Signal { return signal },
		GetTasksToEvaluate: a.Store.GetAllTasks,
		UpdateTaskStatus: func(taskID string, status models.TaskStatus) {
			if t, ok := a.Store.Get(taskID); ok {
				t.Status = status
				a.Store.StoreTask(t)
			}
		},
		UpdateTaskMetadata: func(taskID string, patch func(*models.Metadata)) {
			if t, ok := a.Store.Get(taskID); ok {
				patch(&t.Metadata)
				a.Store.StoreTask(t)
			}
		},
		EmitLifecycleEvent: func(event models.LifecycleEvent) { a.emit(event) },
		EmitBridgeEvent: func(name string, fields map[string]interface{}) {
			a.emit(models.LifecycleEvent{Type: models.EventThreatBridgeEvaluated, Timestamp: now, Fields: fields})
		},
		Now: func() time.Time { return now },
	}
	result := threat.EvaluateThreatHolds(deps, thresholdLevel)
	a.Logger.LogThreatBridgeEvaluated(len(result.TasksHeld), len(result.TasksReleased), result.HoldDecision)
	return result
}

// ExecuteHierarchicalGoal plans requirement through the façade and, when
// that decision is ok (whatever route it took), walks every macro edge of
// the start->goal macro plan: opening a session against the façade's leaf steps,
// finalizing it immediately (the demo solver completes synchronously),
// and feeding the resulting outcome back into the graph's learned costs.
// A real embedding would finalize each session only once its leaf steps
// actually complete in the world; this collapses that into one call so
// the C11-C14 feedback loop runs end to end against the demo store.
func (a *App) ExecuteHierarchicalGoal(requirement *planner.TaskRequirement, input planner.SolveInput, start, goal, goalID, solverID string, now time.Time) (coreerrors.PlanningDecision[[]models.Step], []macro.CostUpdate) {
	decision := a.Facade.Plan(requirement, input, start, goal, goalID, solverID)
	steps, ok := decision.Value()
	if !ok {
		return decision, nil
	}

	planDecision := macro.PlanMacroPath(a.Macro, start, goal, goalID)
	macroPlan, ok := planDecision.Value()
	if !ok {
		return decision, nil
	}

	var updates []macro.CostUpdate
	for _, edge := range macroPlan.Edges {
		session := a.Feedback.CreateMacroEdgeSession(edge, steps, now)
		session.Status = models.SessionCompleted
		session.LeafStepsCompleted = len(steps)

		outcome := macro.FinalizeSession(session, now)
		if outcome == nil {
			continue
		}
		update := a.Feedback.RecordOutcome(a.Macro, macro.Outcome{
			MacroEdgeID: outcome.MacroEdgeID,
			Success:     outcome.Success,
			DurationMs:  outcome.DurationMs,
		}, "app.ExecuteHierarchicalGoal", now)
		if update == nil {
			continue
		}

		updates = append(updates, *update)
		a.recordCostUpdate(*update, now)
		a.Logger.LogMacroEdgeFinalized(edge.ID, outcome.Success, session.LeafStepWaves, update.NewCost)
		a.emit(models.LifecycleEvent{
			Type:      models.EventMacroEdgeFinalized,
			Timestamp: now,
			Fields: map[string]interface{}{
				"edge":    edge.ID,
				"success": outcome.Success,
				"waves":   session.LeafStepWaves,
				"newCost": update.NewCost,
			},
		})
	}
	return decision, updates
}
