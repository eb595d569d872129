package reducer

import (
	"testing"

	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectGoalTaskDriftSkipsUnboundAndUnknownGoals(t *testing.T) {
	unbound := &models.Task{ID: "t1"}
	goalID := "missing-goal"
	unknownGoal := &models.Task{ID: "t2", Metadata: models.Metadata{GoalBinding: &models.GoalBinding{GoalID: &goalID}}}

	getStatus := func(string) (GoalStatus, bool) { return "", false }
	reports := DetectGoalTaskDrift([]*models.Task{unbound, unknownGoal}, getStatus)
	assert.Empty(t, reports)
}

func TestDetectGoalTaskDriftReportsMismatch(t *testing.T) {
	goalID := "g1"
	task := &models.Task{
		ID:     "t1",
		Status: models.StatusActive,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{GoalID: &goalID},
		},
	}
	getStatus := func(id string) (GoalStatus, bool) {
		assert.Equal(t, "g1", id)
		return GoalCompleted, true
	}

	reports := DetectGoalTaskDrift([]*models.Task{task}, getStatus)
	require.Len(t, reports, 1)
	assert.Equal(t, "t1", reports[0].TaskID)
	assert.Equal(t, GoalActive, reports[0].TaskMapped)
	assert.Equal(t, GoalCompleted, reports[0].ActualStatus)
}

func TestDetectGoalTaskDriftNoReportWhenConsistent(t *testing.T) {
	goalID := "g1"
	task := &models.Task{
		ID:     "t1",
		Status: models.StatusActive,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{GoalID: &goalID},
		},
	}
	getStatus := func(string) (GoalStatus, bool) { return GoalActive, true }
	assert.Empty(t, DetectGoalTaskDrift([]*models.Task{task}, getStatus))
}

func TestResolveDriftUsesTaskMappedAsCorrective(t *testing.T) {
	reports := []DriftReport{
		{TaskID: "t1", GoalID: "g1", TaskMapped: GoalActive, ActualStatus: GoalCompleted},
	}
	effects := ResolveDrift(reports)
	require.Len(t, effects, 1)
	assert.Equal(t, UpdateGoalStatus, effects[0].Kind)
	assert.Equal(t, "t1", effects[0].TaskID)
	assert.Equal(t, GoalActive, effects[0].GoalStatus)
}

func TestResolveDriftEmptyInputEmptyOutput(t *testing.T) {
	assert.Empty(t, ResolveDrift(nil))
}
