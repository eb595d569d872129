package hold

import (
	"testing"
	"time"

	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundTask(status models.TaskStatus) *models.Task {
	return &models.Task{
		ID:     "task-1",
		Status: status,
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{GoalKey: "key-1", GoalType: "mine_ore"},
		},
	}
}

func TestRequestHoldNotGoalBound(t *testing.T) {
	task := &models.Task{Status: models.StatusActive}
	result := RequestHold(task, models.HoldUnsafe, RequestOptions{})
	assert.Equal(t, NotGoalBound, result.Outcome)
}

func TestRequestHoldRejectsTerminalTask(t *testing.T) {
	task := boundTask(models.StatusCompleted)
	result := RequestHold(task, models.HoldUnsafe, RequestOptions{})
	assert.Equal(t, Rejected, result.Outcome)
}

func TestRequestHoldAlreadyHeldReturnsExistingReason(t *testing.T) {
	task := boundTask(models.StatusPaused)
	task.Metadata.GoalBinding.Hold = &models.GoalHold{Reason: models.HoldPreempted}

	result := RequestHold(task, models.HoldUnsafe, RequestOptions{})
	assert.Equal(t, AlreadyHeld, result.Outcome)
	assert.Equal(t, models.HoldPreempted, result.Reason)
}

func TestRequestHoldAppliesDefaultReviewInterval(t *testing.T) {
	task := boundTask(models.StatusActive)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	result := RequestHold(task, models.HoldMaterialsMissing, RequestOptions{Now: now})
	require.Equal(t, Applied, result.Outcome)

	h := task.Metadata.GoalBinding.Hold
	require.NotNil(t, h)
	assert.Equal(t, now.Add(DefaultReviewInterval), h.NextReviewAt)
	assert.True(t, now.Equal(h.HeldAt))
}

func TestRequestHoldManualPauseGetsFarFutureReview(t *testing.T) {
	task := boundTask(models.StatusActive)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	result := RequestHold(task, models.HoldManualPause, RequestOptions{Now: now})
	require.Equal(t, Applied, result.Outcome)

	h := task.Metadata.GoalBinding.Hold
	require.NotNil(t, h)
	assert.True(t, h.NextReviewAt.Sub(now) > 365*24*time.Hour)
}

func TestRequestHoldMirrorsTaskFields(t *testing.T) {
	task := boundTask(models.StatusActive)
	RequestHold(task, models.HoldUnsafe, RequestOptions{Now: time.Now()})

	require.NotNil(t, task.Metadata.BlockedReason)
	assert.Equal(t, string(models.HoldUnsafe), *task.Metadata.BlockedReason)
}

func TestRequestClearHoldNotGoalBound(t *testing.T) {
	task := &models.Task{}
	assert.Equal(t, ClearNotGoalBound, RequestClearHold(task, ClearOptions{}))
}

func TestRequestClearHoldNoHold(t *testing.T) {
	task := boundTask(models.StatusActive)
	assert.Equal(t, NoHold, RequestClearHold(task, ClearOptions{}))
}

func TestRequestClearHoldManualPauseHardWall(t *testing.T) {
	task := boundTask(models.StatusPaused)
	RequestHold(task, models.HoldManualPause, RequestOptions{Now: time.Now()})

	outcome := RequestClearHold(task, ClearOptions{})
	assert.Equal(t, BlockedManualPause, outcome)
	assert.NotNil(t, task.Metadata.GoalBinding.Hold, "manual_pause hold must survive an unforced clear attempt")
}

func TestRequestClearHoldManualPauseForceOverride(t *testing.T) {
	task := boundTask(models.StatusPaused)
	RequestHold(task, models.HoldManualPause, RequestOptions{Now: time.Now()})

	outcome := RequestClearHold(task, ClearOptions{ForceManual: true})
	assert.Equal(t, Cleared, outcome)
	assert.Nil(t, task.Metadata.GoalBinding.Hold)
}

func TestRequestClearHoldClearsNonManualHold(t *testing.T) {
	task := boundTask(models.StatusPaused)
	RequestHold(task, models.HoldPreempted, RequestOptions{Now: time.Now()})

	outcome := RequestClearHold(task, ClearOptions{})
	assert.Equal(t, Cleared, outcome)
	assert.Nil(t, task.Metadata.GoalBinding.Hold)
	assert.Nil(t, task.Metadata.BlockedReason)
}

func TestExtendHoldReviewSnoozesDeadline(t *testing.T) {
	task := boundTask(models.StatusPaused)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	RequestHold(task, models.HoldUnsafe, RequestOptions{Now: now})
	before := task.Metadata.GoalBinding.Hold.NextReviewAt

	ExtendHoldReview(task, time.Hour)
	assert.Equal(t, before.Add(time.Hour), task.Metadata.GoalBinding.Hold.NextReviewAt)
	assert.True(t, task.Metadata.NextEligibleAt.Equal(task.Metadata.GoalBinding.Hold.NextReviewAt))
}

func TestExtendHoldReviewNoHoldIsNoop(t *testing.T) {
	task := boundTask(models.StatusActive)
	ExtendHoldReview(task, time.Hour) // must not panic
}

func TestIsHoldDueForReview(t *testing.T) {
	task := boundTask(models.StatusPaused)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	RequestHold(task, models.HoldUnsafe, RequestOptions{Now: now})

	assert.False(t, IsHoldDueForReview(task, now))
	assert.True(t, IsHoldDueForReview(task, now.Add(DefaultReviewInterval+time.Second)))
}

func TestIsHoldDueForReviewNoHold(t *testing.T) {
	task := boundTask(models.StatusActive)
	assert.False(t, IsHoldDueForReview(task, time.Now()))
}

func TestIsManuallyPaused(t *testing.T) {
	task := boundTask(models.StatusPaused)
	RequestHold(task, models.HoldManualPause, RequestOptions{Now: time.Now()})
	assert.True(t, IsManuallyPaused(task))

	other := boundTask(models.StatusPaused)
	RequestHold(other, models.HoldUnsafe, RequestOptions{Now: time.Now()})
	assert.False(t, IsManuallyPaused(other))
}

func TestIsKnownHoldReason(t *testing.T) {
	assert.True(t, IsKnownHoldReason(models.HoldManualPause))
	assert.False(t, IsKnownHoldReason(models.GoalHoldReason("mystery")))
}
