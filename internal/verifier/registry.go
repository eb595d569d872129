// Package verifier implements C6: the named-verifier registry and the
// stability window that gates goal completion. Grounded on the
// teacher's internal/learning/store.go pattern of a small registry
// struct guarding a map with a mutex, and on executor/errors.go's style
// of turning exceptional paths into returned values.
package verifier

import (
	"fmt"
	"sync"
	"time"

	"github.com/kestrelbot/agentcore/internal/binding"
	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/models"
)

// TimeBudget is the maximum time a verifier invocation may take before
// it is treated as a failing result.
const TimeBudget = 100 * time.Millisecond

// VerifierFunc inspects a task (and optional world state) and reports
// completion status. Implementations must be bounded, idempotent, and
// side-effect-free.
type VerifierFunc func(task *models.Task, worldState interface{}) models.VerificationResult

// Registry maps verifier names to functions. Registration fails on a
// duplicate name.
type Registry struct {
	mu        sync.Mutex
	verifiers map[string]VerifierFunc
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[string]VerifierFunc)}
}

// Register adds a verifier under name. Returns an error if name is
// already registered.
func (r *Registry) Register(name string, fn VerifierFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.verifiers[name]; exists {
		return fmt.Errorf("verifier %q already registered", name)
	}
	r.verifiers[name] = fn
	return nil
}

// Verify invokes the named verifier, converting an unknown name or a
// panicking verifier into a non-done result with an explanatory blocker
// rather than propagating a failure.
func (r *Registry) Verify(name string, task *models.Task, worldState interface{}) (result models.VerificationResult) {
	r.mu.Lock()
	fn, ok := r.verifiers[name]
	r.mu.Unlock()

	if !ok {
		return models.VerificationResult{Done: false, Blockers: []string{"verifier not registered"}}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = models.VerificationResult{Done: false, Blockers: []string{fmt.Sprintf("verifier threw: %v", rec)}}
		}
	}()

	start := time.Now()
	result = fn(task, worldState)
	if time.Since(start) > TimeBudget {
		return models.VerificationResult{Done: false, Blockers: []string{"verifier exceeded time budget"}}
	}
	return result
}

// CheckOutcome is the closed result of checkCompletion.
type CheckOutcome string

const (
	Progressing CheckOutcome = "progressing"
	Completed   CheckOutcome = "completed"
	Failed      CheckOutcome = "failed"
	Regression  CheckOutcome = "regression"
)

// CheckCompletion invokes the named verifier, records the outcome on the
// task's binding, and applies the resulting status/completedAt
// transition. Completion requires StabilityThreshold consecutive passes;
// a failing result against an already-completed task is a regression.
func CheckCompletion(registry *Registry, task *models.Task, worldState interface{}, now time.Time) (CheckOutcome, error) {
	if task.Metadata.GoalBinding == nil {
		return "", coreerrors.ErrNoBinding
	}

	verifierName := task.Metadata.GoalBinding.Completion.VerifierName
	result := registry.Verify(verifierName, task, worldState)

	wasCompleted := task.Status == models.StatusCompleted

	if err := binding.RecordVerificationResult(task, result, now); err != nil {
		return "", err
	}

	outcome := applyCompletionOutcome(task, result, wasCompleted, now)
	return outcome, nil
}

// applyCompletionOutcome performs the status/completedAt mutations
// implied by a verification result and returns the observed transition.
func applyCompletionOutcome(task *models.Task, result models.VerificationResult, wasCompleted bool, now time.Time) CheckOutcome {
	b := task.Metadata.GoalBinding

	if !result.Done {
		if wasCompleted {
			task.Status = models.StatusActive
			task.Metadata.CompletedAt = nil
			return Regression
		}
		return Failed
	}

	if b.Completion.ConsecutivePasses >= binding.StabilityThreshold {
		task.Status = models.StatusCompleted
		task.Metadata.CompletedAt = &now
		return Completed
	}

	return Progressing
}
