package identity

import (
	"testing"

	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashGoalKeyDeterministic(t *testing.T) {
	a := HashGoalKey("x", "y", "z")
	b := HashGoalKey("x", "y", "z")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestHashGoalKeyPartsNotConcatenable(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must hash differently: the NUL separator
	// prevents part-boundary collisions.
	a := HashGoalKey("ab", "c")
	b := HashGoalKey("a", "bc")
	assert.NotEqual(t, a, b)
}

func TestCoarseRegionBucketsNegativeCoordinatesConsistently(t *testing.T) {
	assert.Equal(t, "-1:0", CoarseRegion(-1, 0, 0))
	assert.Equal(t, "-1:0", CoarseRegion(-16, 0, 0))
	assert.Equal(t, "0:0", CoarseRegion(0, 0, 0))
	assert.Equal(t, "0:0", CoarseRegion(15, 0, 0))
	assert.Equal(t, "1:0", CoarseRegion(16, 0, 0))
}

func TestComputeProvisionalKeySameRegionSameKey(t *testing.T) {
	params := map[string]interface{}{"item": "oak_log", "qty": 4}
	k1 := ComputeProvisionalKey("collect", params, models.Point3{X: 1, Y: 64, Z: 1})
	k2 := ComputeProvisionalKey("collect", params, models.Point3{X: 2, Y: 70, Z: 3})
	assert.Equal(t, k1, k2, "same region, same params must yield the same provisional key")
}

func TestComputeProvisionalKeyParamOrderIndependent(t *testing.T) {
	pos := models.Point3{X: 0, Y: 0, Z: 0}
	k1 := ComputeProvisionalKey("collect", map[string]interface{}{"a": 1, "b": 2}, pos)
	k2 := ComputeProvisionalKey("collect", map[string]interface{}{"b": 2, "a": 1}, pos)
	assert.Equal(t, k1, k2)
}

func TestComputeAnchoredKeyIncludesTemplateDigestOnlyForTemplateTypes(t *testing.T) {
	corner := models.Point3{X: 10, Y: 64, Z: 10}
	withDigest := ComputeAnchoredKey("build_structure", corner, models.FacingNorth, "digest-a")
	withOtherDigest := ComputeAnchoredKey("build_structure", corner, models.FacingNorth, "digest-b")
	assert.NotEqual(t, withDigest, withOtherDigest)

	nonTemplate1 := ComputeAnchoredKey("mine_ore", corner, models.FacingNorth, "digest-a")
	nonTemplate2 := ComputeAnchoredKey("mine_ore", corner, models.FacingNorth, "digest-b")
	assert.Equal(t, nonTemplate1, nonTemplate2, "non-template goal types must ignore the template digest")
}

func TestAnchorGoalIdentityOneWayTransition(t *testing.T) {
	binding := &models.GoalBinding{GoalKey: "provisional-key", GoalType: "mine_ore"}

	err := AnchorGoalIdentity(binding, AnchorInput{
		GoalType:  "mine_ore",
		RefCorner: models.Point3{X: 1, Y: 2, Z: 3},
		Facing:    models.FacingEast,
		Position:  models.Point3{X: 1, Y: 2, Z: 3},
	})
	require.NoError(t, err)

	assert.True(t, IsAnchored(binding))
	assert.Equal(t, []string{"provisional-key"}, binding.GoalKeyAliases)
	assert.NotEqual(t, "provisional-key", binding.GoalKey)
	assert.NotNil(t, binding.Anchors.SiteSignature)

	err = AnchorGoalIdentity(binding, AnchorInput{GoalType: "mine_ore"})
	assert.ErrorIs(t, err, coreerrors.ErrAlreadyAnchored)
}
