// Package activation implements C9: the activation reactor, reconsidering
// dormant goal-bound tasks for reactivation under rate limits and
// cooldowns. Grounded on the teacher's internal/executor wave-scheduling
// style (a stateful struct tracking per-task timestamps across ticks,
// processed in priority order with a hard per-tick budget).
package activation

import (
	"sort"
	"sync"
	"time"

	"github.com/kestrelbot/agentcore/internal/hold"
	"github.com/kestrelbot/agentcore/internal/models"
)

const (
	// ReactivationCooldown is the minimum time a task must wait after
	// deactivation before it is eligible again.
	ReactivationCooldown = 30 * time.Second
	// MaxReconsiderPerTick bounds how many candidates one tick examines.
	MaxReconsiderPerTick = 3
	// MaxReactivatePerMinute bounds reactivations within a rolling 60s
	// window.
	MaxReactivatePerMinute = 2
	// reactivationLogWindow is the rolling window the reactivation log is
	// pruned and rate-limited against.
	reactivationLogWindow = 60 * time.Second
)

// Decision is the closed per-candidate outcome of one tick.
type Decision string

const (
	Activate Decision = "activate"
	Skip     Decision = "skip"
)

// CandidateDecision pairs a task id with its tick decision and, for
// skips, a reason.
type CandidateDecision struct {
	TaskID   string
	Decision Decision
	Reason   string
}

// TickContext supplies the runtime facts the reactor needs but does not
// itself track.
type TickContext struct {
	Now           time.Time
	ActiveTaskIDs map[string]bool
	Proximity     func(task *models.Task) float64
}

// TickResult summarizes one tick.
type TickResult struct {
	Considered      []CandidateDecision
	Activated       []string
	Skipped         []CandidateDecision
	BudgetExhausted bool
}

// Reactor tracks deactivation and reactivation history across ticks.
type Reactor struct {
	mu              sync.Mutex
	deactivatedAt   map[string]time.Time
	reactivationLog []time.Time
}

// New constructs an empty Reactor.
func New() *Reactor {
	return &Reactor{deactivatedAt: make(map[string]time.Time)}
}

// RecordDeactivation marks taskID as deactivated as of now, starting its
// cooldown.
func (r *Reactor) RecordDeactivation(taskID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deactivatedAt[taskID] = now
}

// ClearDeactivation removes taskID's cooldown entry.
func (r *Reactor) ClearDeactivation(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.deactivatedAt, taskID)
}

// RemainingReactivations reports how many more reactivations are
// permitted within the current rolling window.
func (r *Reactor) RemainingReactivations(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneReactivationLog(now)
	remaining := MaxReactivatePerMinute - len(r.reactivationLog)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// pruneReactivationLog drops entries older than reactivationLogWindow.
// Caller must hold r.mu.
func (r *Reactor) pruneReactivationLog(now time.Time) {
	cutoff := now.Add(-reactivationLogWindow)
	kept := r.reactivationLog[:0]
	for _, t := range r.reactivationLog {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.reactivationLog = kept
}

type candidateInfo struct {
	task       *models.Task
	relevance  float64
}

// Tick runs one reconsideration pass over allTasks.
func (r *Reactor) Tick(allTasks []*models.Task, ctx TickContext) TickResult {
	r.mu.Lock()
	r.pruneReactivationLog(ctx.Now)
	r.mu.Unlock()

	var candidates []candidateInfo
	for _, t := range allTasks {
		b := t.Metadata.GoalBinding
		if b == nil {
			continue
		}
		if t.Status != models.StatusPending && t.Status != models.StatusPaused {
			continue
		}
		if ctx.ActiveTaskIDs[t.ID] {
			continue
		}
		if hold.IsManuallyPaused(t) {
			continue
		}

		r.mu.Lock()
		deactivatedAt, inCooldown := r.deactivatedAt[t.ID]
		r.mu.Unlock()
		if inCooldown && ctx.Now.Sub(deactivatedAt) < ReactivationCooldown {
			continue
		}

		prox := 0.0
		if ctx.Proximity != nil {
			prox = ctx.Proximity(t)
		}
		relevance := 0.4*t.Priority + 0.3*t.Urgency + 0.2*t.Progress + 0.1*prox
		candidates = append(candidates, candidateInfo{task: t, relevance: relevance})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].relevance > candidates[j].relevance
	})

	result := TickResult{}

	limit := MaxReconsiderPerTick
	budgetExhausted := len(candidates) > limit
	if !budgetExhausted {
		limit = len(candidates)
	}

	for i := 0; i < limit; i++ {
		t := candidates[i].task

		r.mu.Lock()
		r.pruneReactivationLog(ctx.Now)
		atLimit := len(r.reactivationLog) >= MaxReactivatePerMinute
		r.mu.Unlock()

		if atLimit {
			d := CandidateDecision{TaskID: t.ID, Decision: Skip, Reason: "rate limit"}
			result.Considered = append(result.Considered, d)
			result.Skipped = append(result.Skipped, d)
			continue
		}

		b := t.Metadata.GoalBinding
		if b.Hold != nil && b.Hold.NextReviewAt.After(ctx.Now) {
			d := CandidateDecision{TaskID: t.ID, Decision: Skip, Reason: "not yet due"}
			result.Considered = append(result.Considered, d)
			result.Skipped = append(result.Skipped, d)
			continue
		}

		d := CandidateDecision{TaskID: t.ID, Decision: Activate}
		result.Considered = append(result.Considered, d)
		result.Activated = append(result.Activated, t.ID)

		r.mu.Lock()
		r.reactivationLog = append(r.reactivationLog, ctx.Now)
		r.mu.Unlock()
	}

	result.BudgetExhausted = budgetExhausted
	return result
}
