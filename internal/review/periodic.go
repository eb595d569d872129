// Package review implements C8: the periodic sweep that releases stale
// holds and corrects goal/task drift. Grounded on the teacher's
// internal/executor wave-processing style of a pure multi-phase pass
// over a task slice, returning a structured summary rather than
// mutating in place.
package review

import (
	"sort"
	"time"

	"github.com/kestrelbot/agentcore/internal/hold"
	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/kestrelbot/agentcore/internal/reducer"
)

// MaxStaleHoldsPerCycle bounds how many stale holds one review pass
// processes.
const MaxStaleHoldsPerCycle = 5

// StaleHold names one hold whose review deadline has passed.
type StaleHold struct {
	TaskID        string
	Reason        models.GoalHoldReason
	IsManualPause bool
}

// Result is the structured summary of one periodic review pass.
type Result struct {
	ReviewedAt    time.Time
	StaleHolds    []StaleHold
	DriftReports  []reducer.DriftReport
	Effects       []reducer.Effect
	TasksScanned  int
}

// RunPeriodicReview scans allTasks in three phases: collect holds due for
// review, process up to MaxStaleHoldsPerCycle of them, then append
// drift-corrective effects. Only goal-bound tasks count toward
// TasksScanned.
func RunPeriodicReview(allTasks []*models.Task, getGoalStatus reducer.GetGoalStatusFunc, now time.Time) Result {
	result := Result{ReviewedAt: now}

	sorted := make([]*models.Task, len(allTasks))
	copy(sorted, allTasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	// Phase 1: collect stale holds.
	var due []*models.Task
	for _, t := range sorted {
		b := t.Metadata.GoalBinding
		if b == nil {
			continue
		}
		result.TasksScanned++
		if b.Hold == nil {
			continue
		}
		if !hold.IsHoldDueForReview(t, now) {
			continue
		}
		due = append(due, t)
		result.StaleHolds = append(result.StaleHolds, StaleHold{
			TaskID:        t.ID,
			Reason:        b.Hold.Reason,
			IsManualPause: b.Hold.Reason == models.HoldManualPause,
		})
	}

	// Phase 2: process up to MaxStaleHoldsPerCycle.
	limit := len(due)
	if limit > MaxStaleHoldsPerCycle {
		limit = MaxStaleHoldsPerCycle
	}
	for i := 0; i < limit; i++ {
		t := due[i]
		b := t.Metadata.GoalBinding
		if b.Hold.Reason == models.HoldManualPause {
			result.Effects = append(result.Effects, reducer.Effect{Kind: reducer.Noop, TaskID: t.ID, Reason: "manual_pause is never auto-cleared"})
			continue
		}
		result.Effects = append(result.Effects,
			reducer.Effect{Kind: reducer.ClearHoldEffect, TaskID: t.ID},
			reducer.Effect{Kind: reducer.UpdateTaskStatus, TaskID: t.ID, TaskStatus: models.StatusPending},
		)
	}

	// Phase 3: drift-corrective effects.
	result.DriftReports = reducer.DetectGoalTaskDrift(sorted, getGoalStatus)
	result.Effects = append(result.Effects, reducer.ResolveDrift(result.DriftReports)...)

	return result
}
