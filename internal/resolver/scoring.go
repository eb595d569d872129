// Package resolver implements C5: candidate scoring and the
// resolve-or-create entry point. Grounded on the teacher's
// internal/pattern similarity scoring (weighted-component aggregation
// over a bounded [0,1] range), generalized from task-text similarity to
// goal-candidate ranking.
package resolver

import (
	"math"
	"sort"
	"time"

	"github.com/kestrelbot/agentcore/internal/identity"
	"github.com/kestrelbot/agentcore/internal/models"
)

const (
	// ProximityMaxDistance is the distance beyond which proximity
	// contributes nothing.
	ProximityMaxDistance = 128.0
	// ProvisionalScopeRadius bounds Phase-A satisfaction scope.
	ProvisionalScopeRadius = 32.0
	// RecencyWindow is how recently a task must have started/been created
	// to earn the recency bonus.
	RecencyWindow = 30 * time.Minute
	// RecencyBonus is the flat addition within RecencyWindow.
	RecencyBonus = 0.1
	// ContinueThreshold is the minimum score for a non-terminal candidate
	// to win "continue".
	ContinueThreshold = 0.6
	// SatisfactionCheckThreshold is the minimum score for a completed
	// candidate to be considered for "already_satisfied".
	SatisfactionCheckThreshold = 0.3
	// SatisfactionScopeMargin expands footprint bounds for the anchored
	// satisfaction-scope check.
	SatisfactionScopeMargin = 8.0

	weightKeyMatch    = 0.65
	weightAnchorMatch = 0.15
	weightProximity   = 0.10
	weightProgress    = 0.05
)

// ResolveInput is the request shape scoring and resolution operate on.
type ResolveInput struct {
	GoalType     string
	IntentParams map[string]interface{}
	BotPosition  models.Point3
	Now          time.Time
	GoalID       *string
}

// euclidean computes 3-D Euclidean distance between two points.
func euclidean(a, b models.Point3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// keyMatch is 1.0 if the input's computed provisional key equals the
// binding's current key or one of its aliases.
func keyMatch(binding *models.GoalBinding, provisionalKey string) float64 {
	if binding.GoalKey == provisionalKey {
		return 1.0
	}
	for _, alias := range binding.GoalKeyAliases {
		if alias == provisionalKey {
			return 1.0
		}
	}
	return 0.0
}

// anchorMatch is 1.0 on an exact refCorner match, 0.3 if a siteSignature
// exists but doesn't match, 0 otherwise.
func anchorMatch(binding *models.GoalBinding, pos models.Point3) float64 {
	sig := binding.Anchors.SiteSignature
	if sig == nil {
		return 0.0
	}
	if sig.RefCorner == pos {
		return 1.0
	}
	return 0.3
}

// proximity returns max(0, 1 - d/ProximityMaxDistance) to the nearest
// known anchor (siteSignature.position in Phase B, regionHint.position in
// Phase A); 0 if there are no anchors at all.
func proximity(binding *models.GoalBinding, pos models.Point3) float64 {
	var target *models.Point3
	if binding.Anchors.SiteSignature != nil {
		p := binding.Anchors.SiteSignature.Position
		target = &p
	} else if binding.Anchors.RegionHint != nil {
		p := binding.Anchors.RegionHint.Position
		target = &p
	}
	if target == nil {
		return 0.0
	}
	d := euclidean(*target, pos)
	v := 1.0 - d/ProximityMaxDistance
	if v < 0 {
		return 0.0
	}
	return v
}

// progress returns moduleCursor/totalModules when build metadata exists,
// otherwise the task's own progress field.
func progress(task *models.Task) float64 {
	if task.Metadata.Build != nil && task.Metadata.Build.TotalModules > 0 {
		return float64(task.Metadata.Build.ModuleCursor) / float64(task.Metadata.Build.TotalModules)
	}
	return task.Progress
}

// recency returns RecencyBonus if the task started (or was created) less
// than RecencyWindow ago, else 0.
func recency(task *models.Task, now time.Time) float64 {
	ref := task.Metadata.CreatedAt
	if task.Metadata.StartedAt != nil {
		ref = *task.Metadata.StartedAt
	}
	if now.Sub(ref) < RecencyWindow {
		return RecencyBonus
	}
	return 0.0
}

// ScoreCandidate computes the weighted candidate score for task against
// input, given its already-computed provisional key.
func ScoreCandidate(task *models.Task, provisionalKey string, input ResolveInput) float64 {
	b := task.Metadata.GoalBinding
	if b == nil {
		return 0.0
	}
	return weightKeyMatch*keyMatch(b, provisionalKey) +
		weightAnchorMatch*anchorMatch(b, input.BotPosition) +
		weightProximity*proximity(b, input.BotPosition) +
		weightProgress*progress(task) +
		recency(task, input.Now)
}

// Candidate pairs a task with its computed score.
type Candidate struct {
	Task  *models.Task
	Score float64
}

// FindCandidates filters allTasks by matching goalType and returns them
// sorted by score descending (ties broken by original order, per Go's
// stable sort).
func FindCandidates(allTasks []*models.Task, input ResolveInput) []Candidate {
	provisionalKey := identity.ComputeProvisionalKey(input.GoalType, input.IntentParams, input.BotPosition)

	var candidates []Candidate
	for _, t := range allTasks {
		b := t.Metadata.GoalBinding
		if b == nil || b.GoalType != input.GoalType {
			continue
		}
		candidates = append(candidates, Candidate{Task: t, Score: ScoreCandidate(t, provisionalKey, input)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}

// IsWithinSatisfactionScope reports whether botPosition lies within a
// binding's satisfaction scope: inside the (margin-expanded) footprint
// bounds if anchored, or within ProvisionalScopeRadius of the region hint
// if provisional.
func IsWithinSatisfactionScope(binding *models.GoalBinding, botPosition models.Point3) bool {
	if binding.Anchors.SiteSignature != nil {
		expanded := binding.Anchors.SiteSignature.FootprintBounds.Expand(SatisfactionScopeMargin)
		return expanded.Contains(botPosition)
	}
	if binding.Anchors.RegionHint != nil {
		return euclidean(binding.Anchors.RegionHint.Position, botPosition) <= ProvisionalScopeRadius
	}
	return false
}
