// Package binding implements C3, the Binding Normalizer: invariant checks
// (R1-R5) and the mutators that keep a goal-bound task's mirrored fields
// consistent with its hold and completion state. Grounded on the
// teacher's executor/errors.go typed-error discipline, generalized to
// invariant violations instead of execution failures.
package binding

import (
	"fmt"
	"time"

	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/models"
)

// StabilityThreshold is the consecutive-pass count (R3) required before a
// task must be status=completed.
const StabilityThreshold = 2

// Violation names one failed invariant on a task.
type Violation struct {
	Rule   string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

// DetectIllegalStates applies R1-R5 and returns every violation found
// (not just the first).
func DetectIllegalStates(task *models.Task) []Violation {
	var violations []Violation

	binding := task.Metadata.GoalBinding
	if binding == nil {
		return violations
	}

	hold := binding.Hold

	// R1: status=paused <=> hold != nil, for non-terminal tasks.
	if !task.Status.IsTerminal() {
		if task.Status == models.StatusPaused && hold == nil {
			violations = append(violations, Violation{"R1", "status is paused but binding has no hold"})
		}
		if task.Status != models.StatusPaused && hold != nil {
			violations = append(violations, Violation{"R1", "binding has a hold but status is not paused"})
		}
	}

	// R2: manual_pause hold implies blockedReason mirrors it.
	if hold != nil && hold.Reason == models.HoldManualPause {
		if task.Metadata.BlockedReason == nil || *task.Metadata.BlockedReason != string(models.HoldManualPause) {
			violations = append(violations, Violation{"R2", "manual_pause hold not mirrored to blockedReason"})
		}
	}

	// R3: stability threshold reached implies status=completed.
	if binding.Completion.ConsecutivePasses >= StabilityThreshold && task.Status != models.StatusCompleted {
		violations = append(violations, Violation{"R3", "consecutivePasses reached threshold but status is not completed"})
	}

	// R4: anchored (Phase B) implies aliases recorded the transition.
	if binding.Anchors.SiteSignature != nil && len(binding.GoalKeyAliases) == 0 {
		violations = append(violations, Violation{"R4", "siteSignature set but goalKeyAliases is empty"})
	}

	// R5: blockedReason/nextEligibleAt always mirror the current hold, or
	// both are nil.
	if hold == nil {
		if task.Metadata.BlockedReason != nil || task.Metadata.NextEligibleAt != nil {
			violations = append(violations, Violation{"R5", "blockedReason/nextEligibleAt set with no hold"})
		}
	} else {
		if task.Metadata.BlockedReason == nil || *task.Metadata.BlockedReason != string(hold.Reason) {
			violations = append(violations, Violation{"R5", "blockedReason does not mirror hold.reason"})
		}
		if task.Metadata.NextEligibleAt == nil || !task.Metadata.NextEligibleAt.Equal(hold.NextReviewAt) {
			violations = append(violations, Violation{"R5", "nextEligibleAt does not mirror hold.nextReviewAt"})
		}
	}

	return violations
}

// AssertConsistentGoalState returns an invariant-violation error on any
// violation (it does not panic); callers at write boundaries are expected
// to treat a non-nil return as fatal.
func AssertConsistentGoalState(task *models.Task) error {
	violations := DetectIllegalStates(task)
	if len(violations) == 0 {
		return nil
	}
	detail := violations[0].String()
	if len(violations) > 1 {
		detail = fmt.Sprintf("%s (and %d more)", detail, len(violations)-1)
	}
	return &coreerrors.PlanningError{
		Reason: coreerrors.InvariantViolation,
		Detail: detail,
	}
}

// SyncHoldToTaskFields mirrors binding.hold into metadata.blockedReason and
// metadata.nextEligibleAt, or clears both when no hold exists. Returns
// whether it mutated anything.
func SyncHoldToTaskFields(task *models.Task) bool {
	binding := task.Metadata.GoalBinding
	if binding == nil {
		return false
	}

	if binding.Hold == nil {
		mutated := task.Metadata.BlockedReason != nil || task.Metadata.NextEligibleAt != nil
		task.Metadata.BlockedReason = nil
		task.Metadata.NextEligibleAt = nil
		return mutated
	}

	reason := string(binding.Hold.Reason)
	reviewAt := binding.Hold.NextReviewAt

	mutated := task.Metadata.BlockedReason == nil || *task.Metadata.BlockedReason != reason ||
		task.Metadata.NextEligibleAt == nil || !task.Metadata.NextEligibleAt.Equal(reviewAt)

	task.Metadata.BlockedReason = &reason
	task.Metadata.NextEligibleAt = &reviewAt
	return mutated
}

// ApplyHold assigns hold to the task's binding and mirrors it to the task
// fields. Fails with ErrNoBinding if the task is not goal-bound.
func ApplyHold(task *models.Task, hold models.GoalHold) error {
	binding := task.Metadata.GoalBinding
	if binding == nil {
		return coreerrors.ErrNoBinding
	}
	binding.Hold = &hold
	SyncHoldToTaskFields(task)
	return nil
}

// ClearHold removes the binding's hold and clears the mirrored fields. A
// no-op on non-goal-bound tasks.
func ClearHold(task *models.Task) {
	binding := task.Metadata.GoalBinding
	if binding == nil {
		return
	}
	binding.Hold = nil
	SyncHoldToTaskFields(task)
}

// RecordVerificationResult stamps lastVerifiedAt/lastResult and advances
// (or resets) the consecutive-pass counter.
func RecordVerificationResult(task *models.Task, result models.VerificationResult, now time.Time) error {
	binding := task.Metadata.GoalBinding
	if binding == nil {
		return coreerrors.ErrNoBinding
	}

	binding.Completion.LastVerifiedAt = &now
	binding.Completion.LastResult = &result

	if result.Done {
		binding.Completion.ConsecutivePasses++
	} else {
		binding.Completion.ConsecutivePasses = 0
	}

	return nil
}
