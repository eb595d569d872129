package reducer

import (
	"testing"
	"time"

	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatusToGoalStatus(t *testing.T) {
	cases := map[models.TaskStatus]GoalStatus{
		models.StatusPending:         GoalPending,
		models.StatusPendingPlanning: GoalPending,
		models.StatusActive:          GoalActive,
		models.StatusCompleted:       GoalCompleted,
		models.StatusFailed:          GoalFailed,
		models.StatusUnplannable:     GoalFailed,
		models.StatusPaused:          GoalSuspended,
	}
	for status, want := range cases {
		assert.Equal(t, want, TaskStatusToGoalStatus(status), "status=%s", status)
	}
}

func TestReduceTaskEventNoBoundGoalIsNoop(t *testing.T) {
	task := &models.Task{ID: "t1"}
	effects := ReduceTaskEvent(TaskEvent{Type: TaskStatusChanged, Task: task})
	require.Len(t, effects, 1)
	assert.Equal(t, Noop, effects[0].Kind)
}

func TestReduceTaskEventStatusChangedEmitsUpdateGoalStatus(t *testing.T) {
	goalID := "goal-1"
	task := &models.Task{
		ID:     "t1",
		Status: models.StatusActive,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{GoalID: &goalID},
		},
	}
	effects := ReduceTaskEvent(TaskEvent{Type: TaskStatusChanged, Task: task})
	require.Len(t, effects, 1)
	assert.Equal(t, UpdateGoalStatus, effects[0].Kind)
	assert.Equal(t, goalID, effects[0].GoalID)
	assert.Equal(t, GoalActive, effects[0].GoalStatus)
}

func TestReduceTaskEventProgressUpdatedIsNoop(t *testing.T) {
	effects := ReduceTaskEvent(TaskEvent{Type: TaskProgressUpdated, Task: &models.Task{}})
	require.Len(t, effects, 1)
	assert.Equal(t, Noop, effects[0].Kind)
}

func TestReduceTaskEventDoesNotMutateTask(t *testing.T) {
	goalID := "goal-1"
	task := &models.Task{
		ID:     "t1",
		Status: models.StatusActive,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{GoalID: &goalID},
		},
	}
	before := task.Clone()
	ReduceTaskEvent(TaskEvent{Type: TaskStatusChanged, Task: task})
	assert.Equal(t, before.Status, task.Status)
	assert.Equal(t, *before.Metadata.GoalBinding.GoalID, *task.Metadata.GoalBinding.GoalID)
}

func TestReduceGoalEventPausedSkipsTerminalAndAlreadyPaused(t *testing.T) {
	terminal := &models.Task{ID: "terminal", Status: models.StatusCompleted}
	alreadyPaused := &models.Task{ID: "paused", Status: models.StatusPaused}
	active := &models.Task{ID: "active", Status: models.StatusActive}

	now := time.Now()
	effects := ReduceGoalEvent(GoalEvent{Type: GoalPaused, Reason: "preempted", Now: now}, []*models.Task{terminal, alreadyPaused, active})

	require.Len(t, effects, 2)
	assert.Equal(t, ApplyHoldEffect, effects[0].Kind)
	assert.Equal(t, "active", effects[0].TaskID)
	assert.Equal(t, UpdateTaskStatus, effects[1].Kind)
	assert.Equal(t, models.StatusPaused, effects[1].TaskStatus)
}

func TestReduceGoalEventResumedBlockedByManualPause(t *testing.T) {
	task := &models.Task{
		ID:     "t1",
		Status: models.StatusPaused,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{Hold: &models.GoalHold{Reason: models.HoldManualPause}},
		},
	}
	effects := ReduceGoalEvent(GoalEvent{Type: GoalResumed}, []*models.Task{task})
	require.Len(t, effects, 1)
	assert.Equal(t, Noop, effects[0].Kind)
}

func TestReduceGoalEventResumedClearsNonManualHold(t *testing.T) {
	task := &models.Task{
		ID:     "t1",
		Status: models.StatusPaused,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{Hold: &models.GoalHold{Reason: models.HoldUnsafe}},
		},
	}
	effects := ReduceGoalEvent(GoalEvent{Type: GoalResumed}, []*models.Task{task})
	require.Len(t, effects, 2)
	assert.Equal(t, ClearHoldEffect, effects[0].Kind)
	assert.Equal(t, UpdateTaskStatus, effects[1].Kind)
	assert.Equal(t, models.StatusPending, effects[1].TaskStatus)
}

func TestReduceGoalEventCancelledFailsNonTerminalAndClearsHolds(t *testing.T) {
	withHold := &models.Task{
		ID:     "t1",
		Status: models.StatusActive,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{Hold: &models.GoalHold{Reason: models.HoldPreempted}},
		},
	}
	terminal := &models.Task{ID: "t2", Status: models.StatusFailed}

	effects := ReduceGoalEvent(GoalEvent{Type: GoalCancelled}, []*models.Task{withHold, terminal})
	require.Len(t, effects, 2)
	assert.Equal(t, ClearHoldEffect, effects[0].Kind)
	assert.Equal(t, UpdateTaskStatus, effects[1].Kind)
	assert.Equal(t, models.StatusFailed, effects[1].TaskStatus)
}

func TestReduceGoalEventReprioritizedIsNoop(t *testing.T) {
	effects := ReduceGoalEvent(GoalEvent{Type: GoalReprioritized, GoalID: "g1"}, nil)
	require.Len(t, effects, 1)
	assert.Equal(t, Noop, effects[0].Kind)
	assert.Equal(t, "g1", effects[0].GoalID)
}
