package macro

import (
	"testing"
	"time"

	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMacroEdgeSessionSeedsRunningState(t *testing.T) {
	edge := &models.MacroEdge{ID: "edge-1"}
	now := time.Now()
	steps := []models.Step{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}

	f := NewFeedbackStore()
	session := f.CreateMacroEdgeSession(edge, steps, now)
	assert.Equal(t, "edge-1", session.MacroEdgeID)
	assert.Equal(t, 3, session.LeafStepsIssued)
	assert.Equal(t, models.SessionRunning, session.Status)
	assert.False(t, session.OutcomeReported)
	assert.NotEmpty(t, session.SessionID)
}

func TestCreateMacroEdgeSessionIDsAreUniquePerCall(t *testing.T) {
	edge := &models.MacroEdge{ID: "edge-1"}
	now := time.Now()
	steps := []models.Step{{ID: "s1"}}

	f := NewFeedbackStore()
	s1 := f.CreateMacroEdgeSession(edge, steps, now)
	s2 := f.CreateMacroEdgeSession(edge, steps, now)
	assert.NotEqual(t, s1.SessionID, s2.SessionID, "same edge and timestamp must still disambiguate via the store's sequence counter")
}

func TestCreateMacroEdgeSessionAttachesWaveCount(t *testing.T) {
	edge := &models.MacroEdge{ID: "edge-1"}
	now := time.Now()
	steps := []models.Step{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"a"}},
	}

	f := NewFeedbackStore()
	session := f.CreateMacroEdgeSession(edge, steps, now)
	assert.Equal(t, 2, session.LeafStepWaves, "b and c share a wave after a completes")
}

func TestCreateMacroEdgeSessionCyclicStepsYieldZeroWaves(t *testing.T) {
	edge := &models.MacroEdge{ID: "edge-1"}
	now := time.Now()
	steps := []models.Step{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b", DependsOn: []string{"a"}},
	}

	f := NewFeedbackStore()
	session := f.CreateMacroEdgeSession(edge, steps, now)
	assert.Equal(t, 0, session.LeafStepWaves)
}

func TestFinalizeSessionExactlyOnce(t *testing.T) {
	session := &models.MacroEdgeSession{
		MacroEdgeID: "edge-1",
		StartedAt:   time.Now().Add(-time.Second),
		Status:      models.SessionCompleted,
	}

	outcome := FinalizeSession(session, time.Now())
	require.NotNil(t, outcome)
	assert.True(t, outcome.Success)
	assert.True(t, session.OutcomeReported)

	second := FinalizeSession(session, time.Now())
	assert.Nil(t, second, "finalizing an already-reported session must return nil")
}

func TestFinalizeSessionFailureReason(t *testing.T) {
	session := &models.MacroEdgeSession{
		MacroEdgeID: "edge-1",
		StartedAt:   time.Now().Add(-time.Second),
		Status:      models.SessionFailed,
	}

	outcome := FinalizeSession(session, time.Now())
	require.NotNil(t, outcome)
	assert.False(t, outcome.Success)
	assert.Equal(t, "micro_execution_failed", outcome.FailureReason)
}

func TestFinalizeSessionCarriesLeafStepCounts(t *testing.T) {
	session := &models.MacroEdgeSession{
		MacroEdgeID:        "edge-1",
		StartedAt:          time.Now().Add(-time.Second),
		Status:             models.SessionCompleted,
		LeafStepsCompleted: 4,
		LeafStepsFailed:    1,
	}

	outcome := FinalizeSession(session, time.Now())
	require.NotNil(t, outcome)
	assert.Equal(t, 4, outcome.LeafStepsCompleted)
	assert.Equal(t, 1, outcome.LeafStepsFailed)
}
