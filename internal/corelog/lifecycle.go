package corelog

import "github.com/kestrelbot/agentcore/internal/models"

// LogGoalCreated logs a newly created goal-bound task.
func (l *Logger) LogGoalCreated(taskID, goalType, goalKey string) {
	l.Infof("goal created: task=%s type=%s key=%s", taskID, goalType, goalKey)
}

// LogGoalResolved logs a resolver decision against an existing candidate.
func (l *Logger) LogGoalResolved(taskID string, outcome string, score float64) {
	l.Infof("goal resolved: task=%s outcome=%s score=%.3f", taskID, outcome, score)
}

// LogGoalAnchored logs the Phase A -> Phase B transition.
func (l *Logger) LogGoalAnchored(taskID, oldKey, newKey string) {
	l.Infof("goal anchored: task=%s %s -> %s", taskID, oldKey, newKey)
}

// LogHoldApplied logs a hold being applied to a task.
func (l *Logger) LogHoldApplied(taskID string, reason models.GoalHoldReason) {
	l.Warnf("hold applied: task=%s reason=%s", taskID, reason)
}

// LogHoldCleared logs a hold being cleared from a task.
func (l *Logger) LogHoldCleared(taskID string, reason models.GoalHoldReason) {
	l.Infof("hold cleared: task=%s reason=%s", taskID, reason)
}

// LogGoalActivated logs a dormant task being reactivated.
func (l *Logger) LogGoalActivated(taskID string) {
	l.Infof("goal activated: task=%s", taskID)
}

// LogGoalPreempted logs a task losing its active slot to a higher-relevance
// candidate.
func (l *Logger) LogGoalPreempted(taskID string) {
	l.Warnf("goal preempted: task=%s", taskID)
}

// LogVerification logs one verifier invocation's outcome.
func (l *Logger) LogVerification(taskID string, done bool, consecutivePasses int) {
	l.Infof("verification: task=%s done=%t consecutivePasses=%d", taskID, done, consecutivePasses)
}

// LogGoalCompleted logs a task reaching the completed status.
func (l *Logger) LogGoalCompleted(taskID string) {
	l.Infof("goal completed: task=%s", taskID)
}

// LogGoalRegression logs a completed task failing re-verification.
func (l *Logger) LogGoalRegression(taskID string, blockers []string) {
	l.Warnf("goal regression: task=%s blockers=%v", taskID, blockers)
}

// LogGoalDriftDetected logs a task/goal status mismatch found during
// review.
func (l *Logger) LogGoalDriftDetected(taskID, goalID string, taskMapped, actual string) {
	l.Warnf("drift detected: task=%s goal=%s mapped=%s actual=%s", taskID, goalID, taskMapped, actual)
}

// LogGoalSyncEffect logs one reducer effect as the caller applies it.
func (l *Logger) LogGoalSyncEffect(taskID string, kind string) {
	l.Debug("sync effect: task=" + taskID + " kind=" + kind)
}

// LogThreatBridgeEvaluated logs one threat-bridge evaluation pass.
func (l *Logger) LogThreatBridgeEvaluated(held, released int, decision bool) {
	l.Infof("threat bridge evaluated: holdDecision=%t held=%d released=%d", decision, held, released)
}

// LogMacroEdgeFinalized logs one macro-edge session's exactly-once
// finalization and the cost update it fed back into the graph.
func (l *Logger) LogMacroEdgeFinalized(edgeID string, success bool, waves int, newCost float64) {
	l.Infof("macro edge finalized: edge=%s success=%t waves=%d newCost=%.3f", edgeID, success, waves, newCost)
}
