package models

import "time"

// GoalHoldReason is an open set: the validated members below are
// recognized by name; any other string is still accepted (C4
// isKnownHoldReason flags it rather than rejecting it).
type GoalHoldReason string

const (
	HoldPreempted        GoalHoldReason = "preempted"
	HoldUnsafe           GoalHoldReason = "unsafe"
	HoldMaterialsMissing GoalHoldReason = "materials_missing"
	HoldManualPause      GoalHoldReason = "manual_pause"
)

// KnownHoldReasons is the validated subset of GoalHoldReason.
var KnownHoldReasons = map[GoalHoldReason]bool{
	HoldPreempted:        true,
	HoldUnsafe:           true,
	HoldMaterialsMissing: true,
	HoldManualPause:      true,
}

// Facing is one of the four cardinal build-site orientations.
type Facing string

const (
	FacingNorth Facing = "N"
	FacingSouth Facing = "S"
	FacingEast  Facing = "E"
	FacingWest  Facing = "W"
)

// Point3 is a hashable 3-D anchor; the only geometry the core touches.
type Point3 struct {
	X, Y, Z float64
}

// Bounds is an axis-aligned footprint.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Expand returns bounds grown uniformly by margin in every direction.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinX: b.MinX - margin, MinY: b.MinY - margin, MinZ: b.MinZ - margin,
		MaxX: b.MaxX + margin, MaxY: b.MaxY + margin, MaxZ: b.MaxZ + margin,
	}
}

// Contains reports whether p lies within the bounds (inclusive).
func (b Bounds) Contains(p Point3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY &&
		p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// SiteSignature is the Phase-B anchor: a concrete, oriented build site.
type SiteSignature struct {
	Position        Point3
	RefCorner       Point3
	Facing          Facing
	FootprintBounds Bounds
}

// RegionHint is the Phase-A coarse locality a provisional goal scopes to.
type RegionHint struct {
	Position Point3
	Radius   float64
}

// Anchors bundles the Phase-A/Phase-B positional identity of a goal.
type Anchors struct {
	SiteSignature *SiteSignature
	RegionHint    *RegionHint
}

// VerificationResult is the outcome of one verifier invocation (C6).
type VerificationResult struct {
	Done     bool
	Score    *float64
	Blockers []string
	Evidence []string
}

// CompletionRecord tracks the stability window a goal must pass through
// before being declared completed.
type CompletionRecord struct {
	VerifierName      string
	DefinitionVersion string
	ConsecutivePasses int
	LastVerifiedAt    *time.Time
	LastResult        *VerificationResult
}

// HoldWitness is optional supporting evidence captured when a hold is applied.
type HoldWitness struct {
	Source string
	Detail string
}

// GoalHold is a structured reason for a task being paused, carrying a
// review deadline.
type GoalHold struct {
	Reason       GoalHoldReason
	HeldAt       time.Time
	ResumeHints  []string
	NextReviewAt time.Time
	HoldWitness  *HoldWitness
}

// GoalBinding is attached to a Task's metadata when the task represents a
// goal. It is an owned sub-record: tasks never hold pointers to other
// tasks, only opaque ids.
type GoalBinding struct {
	GoalInstanceID string // immutable, caller-generated
	GoalKey        string // current 16-hex content address
	GoalKeyAliases []string
	GoalType       string
	GoalID         *string // optional upstream goal id

	Anchors    Anchors
	Completion CompletionRecord

	Hold *GoalHold

	CombatExempt bool
}

// Clone returns a deep copy of the binding.
func (b GoalBinding) Clone() GoalBinding {
	clone := b
	clone.GoalKeyAliases = append([]string(nil), b.GoalKeyAliases...)
	if b.GoalID != nil {
		v := *b.GoalID
		clone.GoalID = &v
	}
	if b.Anchors.SiteSignature != nil {
		s := *b.Anchors.SiteSignature
		clone.Anchors.SiteSignature = &s
	}
	if b.Anchors.RegionHint != nil {
		r := *b.Anchors.RegionHint
		clone.Anchors.RegionHint = &r
	}
	if b.Completion.LastVerifiedAt != nil {
		t := *b.Completion.LastVerifiedAt
		clone.Completion.LastVerifiedAt = &t
	}
	if b.Completion.LastResult != nil {
		r := *b.Completion.LastResult
		r.Blockers = append([]string(nil), b.Completion.LastResult.Blockers...)
		r.Evidence = append([]string(nil), b.Completion.LastResult.Evidence...)
		clone.Completion.LastResult = &r
	}
	if b.Hold != nil {
		h := *b.Hold
		h.ResumeHints = append([]string(nil), b.Hold.ResumeHints...)
		if b.Hold.HoldWitness != nil {
			w := *b.Hold.HoldWitness
			h.HoldWitness = &w
		}
		clone.Hold = &h
	}
	return clone
}

// IsGoalBound reports whether the task carries a goal binding.
func (t Task) IsGoalBound() bool {
	return t.Metadata.GoalBinding != nil
}
