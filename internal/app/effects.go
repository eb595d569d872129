package app

import (
	"github.com/kestrelbot/agentcore/internal/binding"
	"github.com/kestrelbot/agentcore/internal/hold"
	"github.com/kestrelbot/agentcore/internal/reducer"
)

// ApplyEffect performs the I/O side of one reducer Effect against the
// store. The reducer itself stays pure; this is the shell that mutates
// state on its behalf.
func (a *App) ApplyEffect(effect reducer.Effect) {
	switch effect.Kind {
	case reducer.UpdateTaskStatus:
		t, ok := a.Store.Get(effect.TaskID)
		if !ok {
			return
		}
		t.Status = effect.TaskStatus
		binding.SyncHoldToTaskFields(t)
		a.Store.StoreTask(t)
		a.Logger.LogGoalSyncEffect(effect.TaskID, string(effect.Kind))
	case reducer.ApplyHoldEffect:
		t, ok := a.Store.Get(effect.TaskID)
		if !ok || effect.Hold == nil {
			return
		}
		result := hold.RequestHold(t, effect.Hold.Reason, hold.RequestOptions{
			ResumeHints: effect.Hold.ResumeHints,
			HoldWitness: effect.Hold.HoldWitness,
			Now:         effect.Hold.HeldAt,
		})
		if result.Outcome == hold.Applied {
			a.Store.StoreTask(t)
			a.Logger.LogHoldApplied(effect.TaskID, effect.Hold.Reason)
		}
	case reducer.ClearHoldEffect:
		t, ok := a.Store.Get(effect.TaskID)
		if !ok || t.Metadata.GoalBinding == nil || t.Metadata.GoalBinding.Hold == nil {
			return
		}
		reason := t.Metadata.GoalBinding.Hold.Reason
		outcome := hold.RequestClearHold(t, hold.ClearOptions{ForceManual: false})
		if outcome == hold.Cleared {
			a.Store.StoreTask(t)
			a.Logger.LogHoldCleared(effect.TaskID, reason)
		}
	case reducer.UpdateGoalStatus, reducer.UpdateGoalPriority, reducer.Noop:
		// No task-local mutation: these are caller-facing signals only
		// (an upstream goal registry, or an explicit no-op).
	}
}

// ApplyEffects applies each effect in order.
func (a *App) ApplyEffects(effects []reducer.Effect) {
	for _, e := range effects {
		a.ApplyEffect(e)
	}
}
