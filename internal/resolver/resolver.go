package resolver

import (
	"github.com/kestrelbot/agentcore/internal/identity"
	"github.com/kestrelbot/agentcore/internal/keyedmutex"
	"github.com/kestrelbot/agentcore/internal/models"
)

// DryOutcome is the closed result of resolveGoalDry.
type DryOutcome string

const (
	Continue          DryOutcome = "continue"
	AlreadySatisfied  DryOutcome = "already_satisfied"
	Create            DryOutcome = "create"
)

// DryResult carries the outcome and, for continue/already_satisfied, the
// winning task.
type DryResult struct {
	Outcome        DryOutcome
	Task           *models.Task
	ProvisionalKey string
}

// nonTerminalSet mirrors models.NonTerminalStatuses as a lookup.
var nonTerminalSet = func() map[models.TaskStatus]bool {
	m := make(map[models.TaskStatus]bool, len(models.NonTerminalStatuses))
	for _, s := range models.NonTerminalStatuses {
		m[s] = true
	}
	return m
}()

// IsStillSatisfiedFunc lets the caller confirm a completed candidate
// remains an acceptable substitute for re-doing the goal.
type IsStillSatisfiedFunc func(*models.Task) bool

// ResolveGoalDry decides continue/already_satisfied/create without
// mutating anything.
func ResolveGoalDry(allTasks []*models.Task, input ResolveInput, isStillSatisfied IsStillSatisfiedFunc) DryResult {
	candidates := FindCandidates(allTasks, input)
	provisionalKey := identity.ComputeProvisionalKey(input.GoalType, input.IntentParams, input.BotPosition)

	for _, c := range candidates {
		if nonTerminalSet[c.Task.Status] && c.Score > ContinueThreshold {
			return DryResult{Outcome: Continue, Task: c.Task, ProvisionalKey: provisionalKey}
		}
	}

	for _, c := range candidates {
		if c.Task.Status != models.StatusCompleted {
			continue
		}
		if c.Score < SatisfactionCheckThreshold {
			continue
		}
		b := c.Task.Metadata.GoalBinding
		if b == nil || !IsWithinSatisfactionScope(b, input.BotPosition) {
			continue
		}
		if isStillSatisfied != nil && isStillSatisfied(c.Task) {
			return DryResult{Outcome: AlreadySatisfied, Task: c.Task, ProvisionalKey: provisionalKey}
		}
	}

	return DryResult{Outcome: Create, ProvisionalKey: provisionalKey}
}

// Deps are the caller-supplied collaborators resolveOrCreate needs.
type Deps struct {
	GetAllTasks       func() []*models.Task
	StoreTask         func(*models.Task) *models.Task
	GenerateTaskID    func() string
	GenerateInstanceID func() string
	IsStillSatisfied  IsStillSatisfiedFunc
}

// ResolveOutcome is the closed result of GoalResolver.ResolveOrCreate —
// distinct from DryOutcome because the atomic entry point reports a
// completed creation ("created"), not the dry-run intent ("create").
type ResolveOutcome string

const (
	ResolveContinue         ResolveOutcome = "continue"
	ResolveAlreadySatisfied ResolveOutcome = "already_satisfied"
	ResolveCreated          ResolveOutcome = "created"
)

// Result is the return shape of GoalResolver.ResolveOrCreate.
type Result struct {
	Outcome ResolveOutcome
	Task    *models.Task
}

// GoalResolver is the atomic entry point; it owns the KeyedMutex table
// that serializes resolve-or-create per computed key.
type GoalResolver struct {
	mutex *keyedmutex.KeyedMutex
}

// NewGoalResolver constructs a resolver with its own keyed-mutex table.
func NewGoalResolver() *GoalResolver {
	return &GoalResolver{mutex: keyedmutex.New()}
}

// ResolveOrCreate computes the provisional key, then serializes dry
// resolution and (if needed) task creation under the per-key mutex so
// that concurrent calls with the same key are fully serialized: at most
// one non-terminal task per (goalType, goalKey) exists once all complete.
func (r *GoalResolver) ResolveOrCreate(input ResolveInput, deps Deps) (Result, error) {
	provisionalKey := identity.ComputeProvisionalKey(input.GoalType, input.IntentParams, input.BotPosition)

	var result Result

	err := r.mutex.WithKeyLock(provisionalKey, func() error {
		dry := ResolveGoalDry(deps.GetAllTasks(), input, deps.IsStillSatisfied)

		switch dry.Outcome {
		case Continue:
			result = Result{Outcome: ResolveContinue, Task: dry.Task}
			return nil
		case AlreadySatisfied:
			result = Result{Outcome: ResolveAlreadySatisfied, Task: dry.Task}
			return nil
		case Create:
			task := &models.Task{
				ID:     deps.GenerateTaskID(),
				Type:   input.GoalType,
				Status: models.StatusPendingPlanning,
				Metadata: models.Metadata{
					CreatedAt: input.Now,
					UpdatedAt: input.Now,
					GoalBinding: &models.GoalBinding{
						GoalInstanceID: deps.GenerateInstanceID(),
						GoalKey:        dry.ProvisionalKey,
						GoalType:       input.GoalType,
						GoalID:         input.GoalID,
						Anchors: models.Anchors{
							RegionHint: &models.RegionHint{
								Position: input.BotPosition,
								Radius:   ProvisionalScopeRadius,
							},
						},
					},
				},
			}

			stored := deps.StoreTask(task)
			result = Result{Outcome: ResolveCreated, Task: stored}
			return nil
		default:
			return nil
		}
	})

	if err != nil {
		return Result{}, err
	}
	return result, nil
}
