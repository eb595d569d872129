// Package identity implements C1: the content-addressed identity scheme
// for goal-bound tasks, plus the one-way Phase A -> Phase B anchor
// transition. Grounded on the teacher's internal/pattern hashing
// utilities (SHA-256 hex digests over canonicalized input), generalized
// from task-description dedup to goal-key content addressing.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/models"
)

// regionBucketSize is the coarse-region bucket width (§4.1).
const regionBucketSize = 16

// TemplateIdentityTypes is the set of goal types whose anchored key
// incorporates a template digest.
var TemplateIdentityTypes = map[string]bool{
	"build_structure": true,
}

// hashParts joins parts with NUL separators, SHA-256 hashes the result,
// and truncates to 16 hex characters.
func hashParts(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:])[:16]
}

// HashGoalKey is the general-purpose content-address primitive other
// components may reuse (edge ids, plan digests) for the same hashing
// discipline.
func HashGoalKey(parts ...string) string {
	return hashParts(parts...)
}

// floorDiv performs Euclidean floor division, required so negative
// coordinates bucket consistently (e.g. -1 buckets with -16..-1, not 0).
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CoarseRegion buckets a position into a "cx:cz" cell of regionBucketSize.
func CoarseRegion(x, _, z float64) string {
	cx := floorDiv(int(x), regionBucketSize)
	cz := floorDiv(int(z), regionBucketSize)
	return fmt.Sprintf("%d:%d", cx, cz)
}

// sortedParamsString canonicalizes a param map into a deterministic string
// so that key order never affects the hash.
func sortedParamsString(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v;", k, params[k])
	}
	return b.String()
}

// ComputeProvisionalKey computes the Phase-A goal key: a hash of
// (goalType, intentParams, coarseRegion(botPosition)).
func ComputeProvisionalKey(goalType string, intentParams map[string]interface{}, botPosition models.Point3) string {
	region := CoarseRegion(botPosition.X, botPosition.Y, botPosition.Z)
	return hashParts(goalType, sortedParamsString(intentParams), region)
}

// ComputeAnchoredKey computes the Phase-B goal key: a hash of
// (goalType, "x:y:z", facing, templateDigest iff goalType needs template
// identity).
func ComputeAnchoredKey(goalType string, refCorner models.Point3, facing models.Facing, templateDigest string) string {
	posStr := fmt.Sprintf("%g:%g:%g", refCorner.X, refCorner.Y, refCorner.Z)
	if TemplateIdentityTypes[goalType] {
		return hashParts(goalType, posStr, string(facing), templateDigest)
	}
	return hashParts(goalType, posStr, string(facing))
}

// AnchorInput supplies the data needed to commit a goal to a concrete
// build site.
type AnchorInput struct {
	GoalType       string
	RefCorner      models.Point3
	Facing         models.Facing
	TemplateDigest string
	Position       models.Point3
	FootprintBounds models.Bounds
}

// AnchorGoalIdentity performs the one-way Phase A -> Phase B transition as
// a synchronous critical section, in this exact order:
//  1. push the current key into aliases
//  2. compute and assign the new (anchored) key
//  3. set anchors.siteSignature
//
// Fails with ErrAlreadyAnchored if siteSignature is already set.
func AnchorGoalIdentity(binding *models.GoalBinding, input AnchorInput) error {
	if binding.Anchors.SiteSignature != nil {
		return coreerrors.ErrAlreadyAnchored
	}

	binding.GoalKeyAliases = append(binding.GoalKeyAliases, binding.GoalKey)

	newKey := ComputeAnchoredKey(input.GoalType, input.RefCorner, input.Facing, input.TemplateDigest)
	binding.GoalKey = newKey

	binding.Anchors.SiteSignature = &models.SiteSignature{
		Position:        input.Position,
		RefCorner:       input.RefCorner,
		Facing:          input.Facing,
		FootprintBounds: input.FootprintBounds,
	}

	return nil
}

// IsAnchored reports whether the binding has completed Phase A -> B.
func IsAnchored(binding *models.GoalBinding) bool {
	return binding.Anchors.SiteSignature != nil
}
