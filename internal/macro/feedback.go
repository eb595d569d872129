package macro

import (
	"sort"
	"time"

	"github.com/kestrelbot/agentcore/internal/models"
)

// CostLearningRate (alpha) weights new observations against history.
const CostLearningRate = 0.3

// FailurePenalty multiplies cost on a failed outcome.
const FailurePenalty = 1.5

// DefaultReplanThreshold is the consecutive-failure count at which
// ShouldReplan fires.
const DefaultReplanThreshold = 3

// Outcome is one micro-execution result feeding back into an edge's cost.
type Outcome struct {
	MacroEdgeID string
	Success     bool
	DurationMs  int64
}

// PlanningViolation records an out-of-band feedback call made while
// planning is in progress (depth > 0): the outcome is deferred rather
// than applied immediately.
type PlanningViolation struct {
	EdgeID       string
	PlannerPhase int
	Depth        int
	Callsite     string
	Timestamp    time.Time
}

// CostUpdate is the result of an immediately-applied feedback outcome.
type CostUpdate struct {
	EdgeID              string
	PreviousCost        float64
	NewCost             float64
	ConsecutiveFailures int
}

// deferredOutcome is a queued outcome awaiting the planning-phase flush,
// plus its original enqueue sequence for deterministic ordering.
type deferredOutcome struct {
	outcome    Outcome
	enqueuedAt time.Time
	seq        int
}

// FeedbackStore owns the re-entrant planning-phase depth counter and the
// queue of outcomes deferred while planning was in progress. Its only
// permitted mutations to the graph are an edge's learnedCost and
// consecutiveFailures.
type FeedbackStore struct {
	depth        int
	violations   []PlanningViolation
	deferred     []deferredOutcome
	enqueueSeq   int
	topologySnap []string
	sessionSeq   int
}

// NewFeedbackStore constructs an empty store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

// EnterPlanningPhase increments the depth counter.
func (f *FeedbackStore) EnterPlanningPhase() {
	f.depth++
}

// ExitPlanningPhase decrements the depth counter, clamped at 0, and when
// it returns to 0 flushes every deferred outcome against graph.
func (f *FeedbackStore) ExitPlanningPhase(graph *Graph, now time.Time) []CostUpdate {
	if f.depth > 0 {
		f.depth--
	}
	if f.depth != 0 {
		return nil
	}
	return f.flush(graph, now)
}

// Violations returns every recorded planning violation.
func (f *FeedbackStore) Violations() []PlanningViolation {
	return f.violations
}

// DeferredCount reports how many outcomes are currently queued.
func (f *FeedbackStore) DeferredCount() int {
	return len(f.deferred)
}

// RecordOutcome applies outcome immediately if no planning phase is
// active (depth == 0), returning its CostUpdate. If a planning phase is
// active, it records a PlanningViolation, enqueues the outcome for the
// next flush, and returns nil — no cost mutation occurs.
func (f *FeedbackStore) RecordOutcome(graph *Graph, outcome Outcome, callsite string, now time.Time) *CostUpdate {
	if f.depth > 0 {
		f.violations = append(f.violations, PlanningViolation{
			EdgeID:       outcome.MacroEdgeID,
			PlannerPhase: f.depth,
			Depth:        f.depth,
			Callsite:     callsite,
			Timestamp:    now,
		})
		f.enqueueSeq++
		f.deferred = append(f.deferred, deferredOutcome{outcome: outcome, enqueuedAt: now, seq: f.enqueueSeq})
		return nil
	}

	return f.apply(graph, outcome)
}

// apply mutates the edge's learnedCost/consecutiveFailures per the cost
// update policy and returns the resulting CostUpdate. A nil return means
// the referenced edge no longer exists.
func (f *FeedbackStore) apply(graph *Graph, outcome Outcome) *CostUpdate {
	edge, ok := graph.Edge(outcome.MacroEdgeID)
	if !ok {
		return nil
	}

	prev := edge.LearnedCost
	if outcome.Success {
		edge.LearnedCost = (1-CostLearningRate)*prev + CostLearningRate*(float64(outcome.DurationMs)/1000.0)
		edge.ConsecutiveFailures = 0
	} else {
		edge.LearnedCost = prev * FailurePenalty
		edge.ConsecutiveFailures++
	}

	return &CostUpdate{
		EdgeID:              edge.ID,
		PreviousCost:        prev,
		NewCost:             edge.LearnedCost,
		ConsecutiveFailures: edge.ConsecutiveFailures,
	}
}

// flush sorts the deferred queue by (macroEdgeId ASC, enqueuedAt ASC),
// clears the queue first to prevent re-entrant growth during apply, then
// applies each outcome in order.
func (f *FeedbackStore) flush(graph *Graph, now time.Time) []CostUpdate {
	queued := f.deferred
	f.deferred = nil

	sort.SliceStable(queued, func(i, j int) bool {
		if queued[i].outcome.MacroEdgeID != queued[j].outcome.MacroEdgeID {
			return queued[i].outcome.MacroEdgeID < queued[j].outcome.MacroEdgeID
		}
		if !queued[i].enqueuedAt.Equal(queued[j].enqueuedAt) {
			return queued[i].enqueuedAt.Before(queued[j].enqueuedAt)
		}
		return queued[i].seq < queued[j].seq
	})

	var updates []CostUpdate
	for _, d := range queued {
		if u := f.apply(graph, d.outcome); u != nil {
			updates = append(updates, *u)
		}
	}
	return updates
}

// ShouldReplan reports whether edge's consecutive-failure count has
// reached the replan threshold.
func ShouldReplan(edge *models.MacroEdge, replanThreshold int) bool {
	if replanThreshold <= 0 {
		replanThreshold = DefaultReplanThreshold
	}
	return edge.ConsecutiveFailures >= replanThreshold
}

// CaptureTopology snapshots the graph's current sorted edge-id set.
func (f *FeedbackStore) CaptureTopology(graph *Graph) {
	f.topologySnap = graph.AllEdgeIDs()
}

// GetTopologyChanged reports whether the graph's current sorted edge-id
// set differs from the last captured snapshot.
func (f *FeedbackStore) GetTopologyChanged(graph *Graph) bool {
	current := graph.AllEdgeIDs()
	if len(current) != len(f.topologySnap) {
		return true
	}
	for i, id := range current {
		if id != f.topologySnap[i] {
			return true
		}
	}
	return false
}
