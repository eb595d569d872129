// Package models defines the data model shared by every component of the
// planning core: tasks, goal bindings, holds, and the macro-graph entities.
package models

import "time"

// TaskStatus is the closed set of lifecycle states a Task can occupy.
// Terminal statuses (completed, failed, unplannable) are sticky: the core
// never mutates a task out of a terminal status.
type TaskStatus string

const (
	StatusPending         TaskStatus = "pending"
	StatusPendingPlanning TaskStatus = "pending_planning"
	StatusActive          TaskStatus = "active"
	StatusPaused          TaskStatus = "paused"
	StatusCompleted       TaskStatus = "completed"
	StatusFailed          TaskStatus = "failed"
	StatusUnplannable     TaskStatus = "unplannable"
)

// IsTerminal reports whether the status is sticky.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusUnplannable:
		return true
	default:
		return false
	}
}

// NonTerminalStatuses lists every status a candidate must have to be
// eligible for "continue" resolution (C5) or hold application (C4).
var NonTerminalStatuses = []TaskStatus{
	StatusPending, StatusPendingPlanning, StatusActive, StatusPaused, StatusUnplannable,
}

// Step is one concrete unit of leaf work produced by the Planner Façade.
type Step struct {
	Source     string                 `json:"source"`
	SolverID   string                 `json:"solverId,omitempty"`
	PlanID     string                 `json:"planId,omitempty"`
	BundleID   string                 `json:"bundleId,omitempty"`
	Executable bool                   `json:"executable"`
	Action     string                 `json:"action"`
	Args       map[string]interface{} `json:"args,omitempty"`
	Order      int                    `json:"order"`
	// ID and DependsOn support step-level dependency graphs (§4 SPEC_FULL,
	// "Dependency-graph cycle detection for task plans"). Empty ID means
	// the step does not participate in wave grouping.
	ID        string   `json:"id,omitempty"`
	DependsOn []string `json:"dependsOn,omitempty"`
}

// Task is the unit of executable work tracked by the core.
type Task struct {
	ID       string
	Title    string
	Type     string
	Priority float64 // [0,1]
	Urgency  float64 // [0,1]
	Progress float64 // [0,1]
	Status   TaskStatus
	Source   string
	Steps    []Step
	Params   map[string]interface{}
	Metadata Metadata
}

// Metadata carries everything about a Task's lifecycle that is not the
// task's own executable content.
type Metadata struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	RetryCount int
	MaxRetries int

	ChildTaskIDs []string
	Tags         []string
	Category     string

	// Mirrored from the active hold (R5); both nil when no hold exists.
	BlockedReason  *string
	NextEligibleAt *time.Time

	// Captured by C10 when a threat hold is first applied, so the
	// original status can be restored on release.
	ThreatHoldPrevStatus *TaskStatus

	GoalBinding *GoalBinding

	Solver *SolverMetadata
	Build  *BuildMetadata
}

// SolverMetadata holds solver-produced bookkeeping, including any
// partial-order ("rigG") metadata for building tasks.
type SolverMetadata struct {
	SolveIDs map[string]string
	Digests  map[string]string
	RigG     *RigGMetadata
}

// RigGMetadata is the partial-order metadata a building-rig solver attaches.
type RigGMetadata struct {
	PartialOrderID string
	ModuleDigests  []string
}

// BuildMetadata tracks progress through a multi-module build plan.
type BuildMetadata struct {
	ModuleCursor int
	TotalModules int
}

// Clone returns a deep-enough copy of Metadata suitable for purity checks
// (reducer inputs must be left byte-identical; callers that need to mutate
// should clone first).
func (m Metadata) Clone() Metadata {
	clone := m
	if m.StartedAt != nil {
		t := *m.StartedAt
		clone.StartedAt = &t
	}
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		clone.CompletedAt = &t
	}
	if m.BlockedReason != nil {
		s := *m.BlockedReason
		clone.BlockedReason = &s
	}
	if m.NextEligibleAt != nil {
		t := *m.NextEligibleAt
		clone.NextEligibleAt = &t
	}
	if m.ThreatHoldPrevStatus != nil {
		v := *m.ThreatHoldPrevStatus
		clone.ThreatHoldPrevStatus = &v
	}
	clone.ChildTaskIDs = append([]string(nil), m.ChildTaskIDs...)
	clone.Tags = append([]string(nil), m.Tags...)
	if m.GoalBinding != nil {
		b := m.GoalBinding.Clone()
		clone.GoalBinding = &b
	}
	return clone
}

// Clone returns a deep copy of the task, used where callers must not
// observe mutation of a shared task (e.g. reducer purity checks).
func (t Task) Clone() Task {
	clone := t
	clone.Steps = append([]Step(nil), t.Steps...)
	params := make(map[string]interface{}, len(t.Params))
	for k, v := range t.Params {
		params[k] = v
	}
	clone.Params = params
	clone.Metadata = t.Metadata.Clone()
	return clone
}
