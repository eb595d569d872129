// Package reducer implements C7: the pure sync reducer translating task
// and goal lifecycle events into an ordered list of Effects, plus the
// drift-detection pass. Grounded on the teacher's internal/logger
// console formatting of discrete event kinds, generalized from a
// display concern into a closed effect union the caller applies.
package reducer

import (
	"time"

	"github.com/kestrelbot/agentcore/internal/models"
)

// EffectKind is the closed set of actions a reducer call can request.
type EffectKind string

const (
	UpdateGoalStatus   EffectKind = "update_goal_status"
	UpdateTaskStatus   EffectKind = "update_task_status"
	ApplyHoldEffect    EffectKind = "apply_hold"
	ClearHoldEffect    EffectKind = "clear_hold"
	UpdateGoalPriority EffectKind = "update_goal_priority"
	Noop               EffectKind = "noop"
)

// GoalStatus is the closed set of goal-facing statuses a task status
// maps to.
type GoalStatus string

const (
	GoalPending   GoalStatus = "PENDING"
	GoalActive    GoalStatus = "ACTIVE"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalFailed    GoalStatus = "FAILED"
	GoalSuspended GoalStatus = "SUSPENDED"
)

// Effect is one action for the caller to apply. Only the fields relevant
// to Kind are populated.
type Effect struct {
	Kind       EffectKind
	TaskID     string
	GoalID     string
	GoalStatus GoalStatus
	TaskStatus models.TaskStatus
	Hold       *models.GoalHold
	Reason     string // human-readable reason, populated for Noop
}

// TaskStatusToGoalStatus maps a task's lifecycle status to the
// corresponding goal-facing status.
func TaskStatusToGoalStatus(status models.TaskStatus) GoalStatus {
	switch status {
	case models.StatusPending, models.StatusPendingPlanning:
		return GoalPending
	case models.StatusActive:
		return GoalActive
	case models.StatusCompleted:
		return GoalCompleted
	case models.StatusFailed, models.StatusUnplannable:
		return GoalFailed
	case models.StatusPaused:
		return GoalSuspended
	default:
		return GoalPending
	}
}

// TaskEventType is the closed set of task-originated events the reducer
// accepts.
type TaskEventType string

const (
	TaskStatusChanged   TaskEventType = "task_status_changed"
	TaskProgressUpdated TaskEventType = "task_progress_updated"
	TaskStepsRegenerated TaskEventType = "task_steps_regenerated"
)

// TaskEvent is one task-originated occurrence.
type TaskEvent struct {
	Type TaskEventType
	Task *models.Task
}

// ReduceTaskEvent is pure: it never mutates event.Task or any other
// argument.
func ReduceTaskEvent(event TaskEvent) []Effect {
	switch event.Type {
	case TaskStatusChanged:
		b := event.Task.Metadata.GoalBinding
		if b == nil || b.GoalID == nil {
			return []Effect{{Kind: Noop, Reason: "task has no bound goalId"}}
		}
		return []Effect{{
			Kind:       UpdateGoalStatus,
			TaskID:     event.Task.ID,
			GoalID:     *b.GoalID,
			GoalStatus: TaskStatusToGoalStatus(event.Task.Status),
		}}
	case TaskProgressUpdated, TaskStepsRegenerated:
		return []Effect{{Kind: Noop, Reason: string(event.Type) + " carries no goal-status implication"}}
	default:
		return []Effect{{Kind: Noop, Reason: "unrecognized task event"}}
	}
}

// GoalEventType is the closed set of goal-originated events the reducer
// accepts.
type GoalEventType string

const (
	GoalPaused        GoalEventType = "goal_paused"
	GoalResumed       GoalEventType = "goal_resumed"
	GoalCancelled     GoalEventType = "goal_cancelled"
	GoalReprioritized GoalEventType = "goal_reprioritized"
)

// GoalEvent is one goal-originated occurrence.
type GoalEvent struct {
	Type   GoalEventType
	GoalID string
	Reason string // for goal_paused / goal_cancelled
	Now    time.Time
}

// DefaultHoldReviewInterval mirrors the hold manager's default, used when
// the reducer synthesizes a hold effect directly (goal_paused never
// round-trips through the hold manager itself — it only emits the effect
// for the caller to apply).
const DefaultHoldReviewInterval = 5 * time.Minute

// ReduceGoalEvent is pure: boundTasks and its elements are never mutated.
// Effects are returned per bound task, in boundTasks order; callers are
// expected to have sorted boundTasks by id ascending beforehand (A1.14).
func ReduceGoalEvent(event GoalEvent, boundTasks []*models.Task) []Effect {
	var effects []Effect

	switch event.Type {
	case GoalPaused:
		for _, t := range boundTasks {
			if t.Status.IsTerminal() || t.Status == models.StatusPaused {
				continue
			}
			effects = append(effects,
				Effect{
					Kind:   ApplyHoldEffect,
					TaskID: t.ID,
					Hold: &models.GoalHold{
						Reason:       models.GoalHoldReason(event.Reason),
						HeldAt:       event.Now,
						NextReviewAt: event.Now.Add(DefaultHoldReviewInterval),
					},
				},
				Effect{Kind: UpdateTaskStatus, TaskID: t.ID, TaskStatus: models.StatusPaused},
			)
		}

	case GoalResumed:
		for _, t := range boundTasks {
			if t.Status != models.StatusPaused {
				continue
			}
			b := t.Metadata.GoalBinding
			if b != nil && b.Hold != nil && b.Hold.Reason == models.HoldManualPause {
				effects = append(effects, Effect{Kind: Noop, TaskID: t.ID, Reason: "hold reason contains manual_pause"})
				continue
			}
			effects = append(effects,
				Effect{Kind: ClearHoldEffect, TaskID: t.ID},
				Effect{Kind: UpdateTaskStatus, TaskID: t.ID, TaskStatus: models.StatusPending},
			)
		}

	case GoalCancelled:
		for _, t := range boundTasks {
			if t.Status.IsTerminal() {
				continue
			}
			if t.Metadata.GoalBinding != nil && t.Metadata.GoalBinding.Hold != nil {
				effects = append(effects, Effect{Kind: ClearHoldEffect, TaskID: t.ID})
			}
			effects = append(effects, Effect{Kind: UpdateTaskStatus, TaskID: t.ID, TaskStatus: models.StatusFailed})
		}

	case GoalReprioritized:
		effects = append(effects, Effect{Kind: Noop, GoalID: event.GoalID, Reason: "priority managed separately"})

	default:
		effects = append(effects, Effect{Kind: Noop, GoalID: event.GoalID, Reason: "unrecognized goal event"})
	}

	return effects
}
