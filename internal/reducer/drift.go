package reducer

import "github.com/kestrelbot/agentcore/internal/models"

// DriftReport names one task whose mapped goal status disagrees with the
// goal's actual recorded status.
type DriftReport struct {
	TaskID       string
	GoalID       string
	TaskMapped   GoalStatus
	ActualStatus GoalStatus
}

// GetGoalStatusFunc looks up a goal's current recorded status. The bool
// reports whether the goal exists at all.
type GetGoalStatusFunc func(goalID string) (GoalStatus, bool)

// DetectGoalTaskDrift reports every bound task whose mapped status
// disagrees with its goal's recorded status, for goals that exist.
func DetectGoalTaskDrift(tasks []*models.Task, getGoalStatus GetGoalStatusFunc) []DriftReport {
	var reports []DriftReport
	for _, t := range tasks {
		b := t.Metadata.GoalBinding
		if b == nil || b.GoalID == nil {
			continue
		}
		actual, exists := getGoalStatus(*b.GoalID)
		if !exists {
			continue
		}
		mapped := TaskStatusToGoalStatus(t.Status)
		if mapped != actual {
			reports = append(reports, DriftReport{
				TaskID:       t.ID,
				GoalID:       *b.GoalID,
				TaskMapped:   mapped,
				ActualStatus: actual,
			})
		}
	}
	return reports
}

// ResolveDrift produces one update_goal_status effect per report, using
// the task's mapped status as the corrective value (the task is
// canonical).
func ResolveDrift(reports []DriftReport) []Effect {
	effects := make([]Effect, 0, len(reports))
	for _, r := range reports {
		effects = append(effects, Effect{
			Kind:       UpdateGoalStatus,
			TaskID:     r.TaskID,
			GoalID:     r.GoalID,
			GoalStatus: r.TaskMapped,
		})
	}
	return effects
}
