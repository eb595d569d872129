package verifier

import (
	"testing"
	"time"

	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("always-done", func(*models.Task, interface{}) models.VerificationResult {
		return models.VerificationResult{Done: true}
	}))

	err := r.Register("always-done", func(*models.Task, interface{}) models.VerificationResult {
		return models.VerificationResult{Done: false}
	})
	assert.Error(t, err)
}

func TestVerifyUnknownNameReturnsBlockedResult(t *testing.T) {
	r := NewRegistry()
	result := r.Verify("missing", &models.Task{}, nil)
	assert.False(t, result.Done)
	assert.Contains(t, result.Blockers, "verifier not registered")
}

func TestVerifyRecoversFromPanic(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("panics", func(*models.Task, interface{}) models.VerificationResult {
		panic("boom")
	}))

	result := r.Verify("panics", &models.Task{}, nil)
	assert.False(t, result.Done)
	require.Len(t, result.Blockers, 1)
	assert.Contains(t, result.Blockers[0], "boom")
}

func TestVerifyExceedsTimeBudget(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("slow", func(*models.Task, interface{}) models.VerificationResult {
		time.Sleep(TimeBudget + 20*time.Millisecond)
		return models.VerificationResult{Done: true}
	}))

	result := r.Verify("slow", &models.Task{}, nil)
	assert.False(t, result.Done)
	assert.Contains(t, result.Blockers, "verifier exceeded time budget")
}

func TestVerifyReturnsUnderlyingResultWithinBudget(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fast", func(*models.Task, interface{}) models.VerificationResult {
		return models.VerificationResult{Done: true, Evidence: []string{"ok"}}
	}))

	result := r.Verify("fast", &models.Task{}, nil)
	assert.True(t, result.Done)
	assert.Equal(t, []string{"ok"}, result.Evidence)
}

func boundVerifierTask(verifierName string) *models.Task {
	return &models.Task{
		ID: "task-1",
		Metadata: models.Metadata{
			GoalBinding: &models.GoalBinding{
				GoalKey:    "key-1",
				GoalType:   "mine_ore",
				Completion: models.CompletionRecord{VerifierName: verifierName},
			},
		},
	}
}

func TestCheckCompletionRequiresBinding(t *testing.T) {
	r := NewRegistry()
	_, err := CheckCompletion(r, &models.Task{}, nil, time.Now())
	assert.ErrorIs(t, err, coreerrors.ErrNoBinding)
}

func TestCheckCompletionProgressingBeforeStabilityThreshold(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("passer", func(*models.Task, interface{}) models.VerificationResult {
		return models.VerificationResult{Done: true}
	}))
	task := boundVerifierTask("passer")

	outcome, err := CheckCompletion(r, task, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, Progressing, outcome)
	assert.NotEqual(t, models.StatusCompleted, task.Status)
}

func TestCheckCompletionCompletesAfterStabilityWindow(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("passer", func(*models.Task, interface{}) models.VerificationResult {
		return models.VerificationResult{Done: true}
	}))
	task := boundVerifierTask("passer")
	now := time.Now()

	outcome, err := CheckCompletion(r, task, nil, now)
	require.NoError(t, err)
	assert.Equal(t, Progressing, outcome)

	outcome, err = CheckCompletion(r, task, nil, now)
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Equal(t, models.StatusCompleted, task.Status)
	require.NotNil(t, task.Metadata.CompletedAt)
}

func TestCheckCompletionFailedWhenNotPreviouslyCompleted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("failer", func(*models.Task, interface{}) models.VerificationResult {
		return models.VerificationResult{Done: false, Blockers: []string{"missing ore"}}
	}))
	task := boundVerifierTask("failer")

	outcome, err := CheckCompletion(r, task, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, Failed, outcome)
}

func TestCheckCompletionRegressesFromCompleted(t *testing.T) {
	r := NewRegistry()
	task := boundVerifierTask("")
	task.Status = models.StatusCompleted
	completedAt := time.Now().Add(-time.Hour)
	task.Metadata.CompletedAt = &completedAt

	require.NoError(t, r.Register("regressor", func(*models.Task, interface{}) models.VerificationResult {
		return models.VerificationResult{Done: false}
	}))
	task.Metadata.GoalBinding.Completion.VerifierName = "regressor"

	outcome, err := CheckCompletion(r, task, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, Regression, outcome)
	assert.Equal(t, models.StatusActive, task.Status)
	assert.Nil(t, task.Metadata.CompletedAt)
}
