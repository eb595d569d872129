// Package hold implements C4, the Hold Manager: requesting and clearing
// goal holds, with the manual_pause hard wall that no automated caller
// may bypass. Grounded on the teacher's executor/errors.go pattern of
// small closed-outcome enums returned instead of thrown where the
// outcome is an expected branch, not a failure.
package hold

import (
	"time"

	"github.com/kestrelbot/agentcore/internal/binding"
	"github.com/kestrelbot/agentcore/internal/models"
)

// DefaultReviewInterval is the review deadline applied to holds other
// than manual_pause.
const DefaultReviewInterval = 5 * time.Minute

// farFutureOffset stands in for "effectively infinite" review deadlines
// on manual_pause holds, anchored to an offset from now rather than a
// fixed wall-clock instant so it remains "infinite" relative to any now.
// A duration of math.MaxInt64 nanoseconds would overflow time.Time's
// internal arithmetic, so this uses a large-but-safe century-scale span
// instead.
const farFutureOffset = 100 * 365 * 24 * time.Hour

// RequestOutcome is the closed result of requestHold.
type RequestOutcome string

const (
	Applied      RequestOutcome = "applied"
	AlreadyHeld  RequestOutcome = "already_held"
	Rejected     RequestOutcome = "rejected"
	NotGoalBound RequestOutcome = "not_goal_bound"
)

// ClearOutcome is the closed result of requestClearHold.
type ClearOutcome string

const (
	Cleared           ClearOutcome = "cleared"
	BlockedManualPause ClearOutcome = "blocked_manual_pause"
	NoHold            ClearOutcome = "no_hold"
	ClearNotGoalBound ClearOutcome = "not_goal_bound"
)

// RequestOptions customizes a requestHold call.
type RequestOptions struct {
	ResumeHints []string
	HoldWitness *models.HoldWitness
	Now         time.Time
}

// RequestResult carries the outcome plus the effective reason, which on
// already_held is the existing (unchanged) reason.
type RequestResult struct {
	Outcome RequestOutcome
	Reason  models.GoalHoldReason
}

// RequestHold applies a hold to a goal-bound, non-terminal task. It never
// mutates status; callers transition to paused themselves.
func RequestHold(task *models.Task, reason models.GoalHoldReason, opts RequestOptions) RequestResult {
	b := task.Metadata.GoalBinding
	if b == nil {
		return RequestResult{Outcome: NotGoalBound}
	}
	if task.Status.IsTerminal() {
		return RequestResult{Outcome: Rejected}
	}
	if b.Hold != nil {
		return RequestResult{Outcome: AlreadyHeld, Reason: b.Hold.Reason}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	reviewAt := now.Add(DefaultReviewInterval)
	if reason == models.HoldManualPause {
		reviewAt = now.Add(farFutureOffset)
	}

	newHold := models.GoalHold{
		Reason:       reason,
		HeldAt:       now,
		ResumeHints:  opts.ResumeHints,
		NextReviewAt: reviewAt,
		HoldWitness:  opts.HoldWitness,
	}

	_ = binding.ApplyHold(task, newHold)
	return RequestResult{Outcome: Applied, Reason: reason}
}

// ClearOptions customizes a requestClearHold call. ForceManual is the
// sole, explicit operator escape hatch past the manual_pause hard wall;
// no automated caller may ever set it.
type ClearOptions struct {
	ForceManual bool
}

// RequestClearHold removes a task's hold, subject to the manual_pause
// hard wall: if the held reason is manual_pause and ForceManual is not
// set, the call returns blocked_manual_pause and leaves all state
// untouched.
func RequestClearHold(task *models.Task, opts ClearOptions) ClearOutcome {
	b := task.Metadata.GoalBinding
	if b == nil {
		return ClearNotGoalBound
	}
	if b.Hold == nil {
		return NoHold
	}
	if b.Hold.Reason == models.HoldManualPause && !opts.ForceManual {
		return BlockedManualPause
	}

	binding.ClearHold(task)
	return Cleared
}

// ExtendHoldReview snoozes the hold's review deadline by d.
// A no-op if the task has no active hold.
func ExtendHoldReview(task *models.Task, d time.Duration) {
	b := task.Metadata.GoalBinding
	if b == nil || b.Hold == nil {
		return
	}
	b.Hold.NextReviewAt = b.Hold.NextReviewAt.Add(d)
	binding.SyncHoldToTaskFields(task)
}

// IsHoldDueForReview reports whether the task's hold review deadline has
// passed as of now.
func IsHoldDueForReview(task *models.Task, now time.Time) bool {
	b := task.Metadata.GoalBinding
	if b == nil || b.Hold == nil {
		return false
	}
	return !now.Before(b.Hold.NextReviewAt)
}

// IsManuallyPaused reports whether the task's active hold reason is
// manual_pause.
func IsManuallyPaused(task *models.Task) bool {
	b := task.Metadata.GoalBinding
	if b == nil || b.Hold == nil {
		return false
	}
	return b.Hold.Reason == models.HoldManualPause
}

// IsKnownHoldReason reports whether reason is a member of the validated
// subset; unknown reasons are still accepted elsewhere, just flagged.
func IsKnownHoldReason(reason models.GoalHoldReason) bool {
	return models.KnownHoldReasons[reason]
}
