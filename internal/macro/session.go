package macro

import (
	"fmt"
	"time"

	"github.com/kestrelbot/agentcore/internal/identity"
	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/kestrelbot/agentcore/internal/plan"
)

// CreateMacroEdgeSession starts tracking one execution of edge, with
// leafStepsIssued counters seeded and outcomeReported false. leafSteps is
// also grouped into execution waves (C7/SPEC_FULL's step-level dependency
// grouping) so the session records how much of its leaf work can run
// concurrently; a cycle among leafSteps yields zero waves rather than an
// error, since a malformed leaf plan never reaches session creation (the
// façade rejects it first).
//
// The session id's uniqueness owes to f's sequence counter rather than a
// package-level global, so concurrent callers sharing one FeedbackStore
// still produce distinct ids even when now collides to the nanosecond.
func (f *FeedbackStore) CreateMacroEdgeSession(edge *models.MacroEdge, leafSteps []models.Step, now time.Time) *models.MacroEdgeSession {
	f.sessionSeq++
	sessionID := identity.HashGoalKey(edge.ID, fmt.Sprintf("%d", now.UnixNano()), fmt.Sprintf("%d", f.sessionSeq))

	waves, err := plan.CalculateWaves(leafSteps)
	leafStepWaves := 0
	if err == nil {
		leafStepWaves = len(waves)
	}

	return &models.MacroEdgeSession{
		SessionID:       sessionID,
		MacroEdgeID:     edge.ID,
		StartedAt:       now,
		LeafStepsIssued: len(leafSteps),
		LeafStepWaves:   leafStepWaves,
		Status:          models.SessionRunning,
		OutcomeReported: false,
	}
}

// FinalizeSession is the exactly-once boundary: the first call produces
// the session's MicroOutcome; every subsequent call on the same session
// returns nil. Completion of individual leaf steps never auto-finalizes
// a session — only this call does.
func FinalizeSession(session *models.MacroEdgeSession, now time.Time) *models.MicroOutcome {
	if session.OutcomeReported {
		return nil
	}
	session.OutcomeReported = true

	failureReason := ""
	if session.Status == models.SessionFailed {
		failureReason = "micro_execution_failed"
	}

	return &models.MicroOutcome{
		MacroEdgeID:        session.MacroEdgeID,
		Success:            session.Status == models.SessionCompleted,
		DurationMs:         now.Sub(session.StartedAt).Milliseconds(),
		FailureReason:      failureReason,
		LeafStepsCompleted: session.LeafStepsCompleted,
		LeafStepsFailed:    session.LeafStepsFailed,
	}
}
