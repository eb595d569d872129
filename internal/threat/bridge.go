// Package threat implements C10: the fail-closed bridge translating
// external threat signals into task holds. This is the sole write path
// for threat-driven holds. Grounded on the teacher's
// internal/executor/guard_llm.go OllamaPredictor: an http.Client with a
// caller-supplied timeout, request/response JSON decoding, and a
// non-2xx/transport-error path, generalized here so every failure mode
// degrades to one safe synthetic value instead of returning an error.
package threat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/kestrelbot/agentcore/internal/hold"
	"github.com/kestrelbot/agentcore/internal/models"
)

// Level is the totally ordered threat level.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// levelOrder assigns each level its rank; an unrecognized level maps to
// critical's rank (fail closed).
func levelOrder(l Level) int {
	switch l {
	case LevelLow:
		return 0
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	case LevelCritical:
		return 3
	default:
		return 3
	}
}

// Threat is one individual hazard contributing to a Signal.
type Threat struct {
	Type     string  `json:"type"`
	Distance float64 `json:"distance"`
}

// Signal is the overall threat assessment fetched from the external
// source.
type Signal struct {
	OverallThreatLevel Level     `json:"overallThreatLevel"`
	Threats            []Threat  `json:"threats"`
	FetchedAt          time.Time `json:"fetchedAt"`
}

// FailClosedSignal is substituted for any fetch failure: critical level,
// a single synthetic threat, fresh timestamp.
func FailClosedSignal(now time.Time) Signal {
	return Signal{
		OverallThreatLevel: LevelCritical,
		Threats:            []Threat{{Type: "fetch_failure", Distance: 0}},
		FetchedAt:          now,
	}
}

// ShouldHold is a pure predicate: the signal's level must be at least as
// severe as threshold.
func ShouldHold(signal Signal, threshold Level) bool {
	return levelOrder(signal.OverallThreatLevel) >= levelOrder(threshold)
}

// FetchThreatSignal retrieves a Signal from endpoint. It never returns an
// error: any transport failure, non-2xx response, or malformed body
// degrades to FailClosedSignal.
func FetchThreatSignal(ctx context.Context, client *http.Client, endpoint string, timeout time.Duration) Signal {
	now := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return FailClosedSignal(now)
	}

	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return FailClosedSignal(now)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailClosedSignal(now)
	}

	var signal Signal
	if err := json.NewDecoder(resp.Body).Decode(&signal); err != nil {
		return FailClosedSignal(now)
	}
	if signal.OverallThreatLevel == "" {
		return FailClosedSignal(now)
	}

	return signal
}

// Deps are the caller-supplied collaborators EvaluateThreatHolds needs.
type Deps struct {
	FetchSignal         func() Signal
	GetTasksToEvaluate  func() []*models.Task
	UpdateTaskStatus    func(taskID string, status models.TaskStatus)
	UpdateTaskMetadata  func(taskID string, patch func(*models.Metadata))
	EmitLifecycleEvent  func(event models.LifecycleEvent)
	EmitBridgeEvent     func(name string, fields map[string]interface{})
	Now                 func() time.Time
}

// EvalResult is the structured summary of one evaluation pass.
type EvalResult struct {
	Signal        Signal
	HoldDecision  bool
	TasksHeld     []string
	TasksReleased []string
	Threshold     Level
}

func threatResumeHints(threats []Threat) []string {
	hints := make([]string, 0, len(threats))
	for _, t := range threats {
		hints = append(hints, fmt.Sprintf("%s at %gm", t.Type, t.Distance))
	}
	return hints
}

// EvaluateThreatHolds fetches the current signal once and, depending on
// whether it crosses threshold, either applies or releases "unsafe"
// holds across deps.GetTasksToEvaluate(), processed in ascending task-id
// order. Holds of any other reason (manual_pause, preempted, ...) are
// never touched by this bridge.
func EvaluateThreatHolds(deps Deps, threshold Level) EvalResult {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	signal := deps.FetchSignal()

	tasks := deps.GetTasksToEvaluate()
	sorted := make([]*models.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	decision := ShouldHold(signal, threshold)
	result := EvalResult{Signal: signal, HoldDecision: decision, Threshold: threshold}

	if decision {
		for _, t := range sorted {
			b := t.Metadata.GoalBinding
			if b == nil || t.Status.IsTerminal() || t.Status == models.StatusPaused || b.CombatExempt || b.Hold != nil {
				continue
			}

			prevStatus := t.Status
			if deps.UpdateTaskMetadata != nil {
				deps.UpdateTaskMetadata(t.ID, func(m *models.Metadata) {
					m.ThreatHoldPrevStatus = &prevStatus
				})
			}

			outcome := hold.RequestHold(t, models.HoldUnsafe, hold.RequestOptions{
				ResumeHints: threatResumeHints(signal.Threats),
				Now:         now(),
			})
			if outcome.Outcome != hold.Applied {
				continue
			}

			if deps.UpdateTaskStatus != nil {
				deps.UpdateTaskStatus(t.ID, models.StatusPaused)
			}

			result.TasksHeld = append(result.TasksHeld, t.ID)
			if deps.EmitLifecycleEvent != nil {
				deps.EmitLifecycleEvent(models.LifecycleEvent{
					Type:      models.EventGoalHoldApplied,
					Timestamp: now(),
					TaskID:    t.ID,
					Fields:    map[string]interface{}{"reason": models.HoldUnsafe},
				})
			}
		}
	} else {
		for _, t := range sorted {
			b := t.Metadata.GoalBinding
			if b == nil || b.Hold == nil || b.Hold.Reason != models.HoldUnsafe {
				continue
			}

			outcome := hold.RequestClearHold(t, hold.ClearOptions{})
			if outcome != hold.Cleared {
				continue
			}

			restoreStatus := models.StatusActive
			if t.Metadata.ThreatHoldPrevStatus != nil {
				restoreStatus = *t.Metadata.ThreatHoldPrevStatus
			}
			if deps.UpdateTaskStatus != nil {
				deps.UpdateTaskStatus(t.ID, restoreStatus)
			}
			if deps.UpdateTaskMetadata != nil {
				deps.UpdateTaskMetadata(t.ID, func(m *models.Metadata) {
					m.ThreatHoldPrevStatus = nil
				})
			}

			result.TasksReleased = append(result.TasksReleased, t.ID)
			if deps.EmitLifecycleEvent != nil {
				deps.EmitLifecycleEvent(models.LifecycleEvent{
					Type:      models.EventGoalHoldCleared,
					Timestamp: now(),
					TaskID:    t.ID,
					Fields:    map[string]interface{}{"reason": models.HoldUnsafe},
				})
			}
		}
	}

	if deps.EmitBridgeEvent != nil {
		deps.EmitBridgeEvent("threat_bridge_evaluated", map[string]interface{}{
			"signal":        signal,
			"holdDecision":  decision,
			"tasksHeld":     result.TasksHeld,
			"tasksReleased": result.TasksReleased,
			"threshold":     threshold,
		})
	}

	return result
}
