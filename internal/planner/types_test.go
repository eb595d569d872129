package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquivalentRequiresSameKind(t *testing.T) {
	a := TaskRequirement{Kind: KindCollect, Patterns: []string{"oak_log"}}
	b := TaskRequirement{Kind: KindMine, Patterns: []string{"oak_log"}}
	assert.False(t, Equivalent(a, b))
}

func TestEquivalentCollectPatternsAreOrderIndependentSets(t *testing.T) {
	a := TaskRequirement{Kind: KindCollect, Patterns: []string{"oak_log", "birch_log"}}
	b := TaskRequirement{Kind: KindCollect, Patterns: []string{"birch_log", "oak_log"}}
	c := TaskRequirement{Kind: KindCollect, Patterns: []string{"oak_log"}}
	assert.True(t, Equivalent(a, b))
	assert.False(t, Equivalent(a, c))
}

func TestEquivalentCraftComparesOutputPattern(t *testing.T) {
	a := TaskRequirement{Kind: KindCraft, OutputPattern: "pickaxe"}
	b := TaskRequirement{Kind: KindCraft, OutputPattern: "pickaxe"}
	c := TaskRequirement{Kind: KindCraft, OutputPattern: "axe"}
	assert.True(t, Equivalent(a, b))
	assert.False(t, Equivalent(a, c))
}

func TestEquivalentToolProgressionComparesTargetTool(t *testing.T) {
	a := TaskRequirement{Kind: KindToolProgression, TargetTool: "diamond_pickaxe"}
	b := TaskRequirement{Kind: KindToolProgression, TargetTool: "diamond_pickaxe"}
	assert.True(t, Equivalent(a, b))
}

func TestEquivalentBuildComparesStructure(t *testing.T) {
	a := TaskRequirement{Kind: KindBuild, Structure: "house"}
	b := TaskRequirement{Kind: KindBuild, Structure: "tower"}
	assert.False(t, Equivalent(a, b))
}

func TestEquivalentNavigateComparesDestination(t *testing.T) {
	a := TaskRequirement{Kind: KindNavigate, Destination: "base"}
	b := TaskRequirement{Kind: KindNavigate, Destination: "base"}
	assert.True(t, Equivalent(a, b))
}

func TestEquivalentExploreAndFindCompareTarget(t *testing.T) {
	a := TaskRequirement{Kind: KindExplore, Target: "village"}
	b := TaskRequirement{Kind: KindFind, Target: "village"}
	assert.False(t, Equivalent(a, b), "different kinds are never equivalent even with matching target")

	c := TaskRequirement{Kind: KindExplore, Target: "village"}
	assert.True(t, Equivalent(a, c))
}
