package models

import "time"

// ContextDefinition is a registered abstract context (a node in the macro
// graph). Contexts never encode coordinates.
type ContextDefinition struct {
	ID          string
	Abstract    bool
	Description string
}

// MacroEdge is a content-hashed transition between two abstract contexts.
// LearnedCost and ConsecutiveFailures are the only fields the feedback
// store is permitted to mutate after registration.
type MacroEdge struct {
	ID                  string
	From                string
	To                  string
	BaseCost            float64
	LearnedCost         float64
	ConsecutiveFailures int
}

// MacroPlan is an ordered sequence of macro edges with a content-addressed
// digest, produced by the Macro Planner (C12).
type MacroPlan struct {
	Digest     string
	Edges      []*MacroEdge
	Start      string
	Goal       string
	GoalID     string
	TotalCost  float64
}

// SessionStatus is the closed set of states an edge session occupies.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// MacroEdgeSession tracks one in-flight execution of a macro edge.
type MacroEdgeSession struct {
	SessionID          string
	MacroEdgeID        string
	StartedAt          time.Time
	LeafStepsIssued    int
	LeafStepsCompleted int
	LeafStepsFailed    int
	LeafStepWaves      int
	Status             SessionStatus
	OutcomeReported    bool
}

// MicroOutcome is the exactly-once report summarizing one macro-edge
// execution, produced by finalizing a session (C13).
type MicroOutcome struct {
	MacroEdgeID        string
	Success            bool
	DurationMs         int64
	FailureReason      string
	LeafStepsCompleted int
	LeafStepsFailed    int
}
