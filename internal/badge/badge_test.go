package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spookTrailsAPI/internal/progress"
)

func TestEligibleReturnsAllClearedThresholds(t *testing.T) {
	p := progress.Progress{DestinationsVisited: 3}

	got := Eligible(p, nil)

	// Thresholds 1 and 3 clear, 5 and above do not. All that clear are
	// returned, not just the highest.
	assert.Contains(t, got, "first-haunt")
	assert.Contains(t, got, "grave-wanderer")
	assert.NotContains(t, got, "spirit-cartographer")
	assert.NotContains(t, got, "midnight-pilgrim")

	// Quest and token badges stay locked at zero.
	assert.NotContains(t, got, "quest-initiate")
	assert.NotContains(t, got, "pumpkin-purse")
}

func TestEligibleSkipsAlreadyUnlocked(t *testing.T) {
	p := progress.Progress{DestinationsVisited: 3}
	already := map[string]bool{"first-haunt": true}

	got := Eligible(p, already)

	assert.NotContains(t, got, "first-haunt")
	assert.Contains(t, got, "grave-wanderer")
}

func TestEligibleIsDeterministic(t *testing.T) {
	p := progress.Progress{DestinationsVisited: 5, QuestsCompleted: 4, TokensEarnedInSeason: 150}

	first := Eligible(p, nil)
	second := Eligible(p, nil)

	assert.Equal(t, first, second)
}

func TestEligibleGrowsMonotonically(t *testing.T) {
	smaller := progress.Progress{DestinationsVisited: 2, TokensEarnedInSeason: 50}
	larger := progress.Progress{DestinationsVisited: 6, TokensEarnedInSeason: 350}

	before := Eligible(smaller, nil)
	after := Eligible(larger, nil)

	for _, id := range before {
		assert.Contains(t, after, id, "growing progress must never shrink the eligible set")
	}
	assert.Greater(t, len(after), len(before))
}

func TestEligibleTokenThresholds(t *testing.T) {
	p := progress.Progress{TokensEarnedInSeason: 300}

	got := Eligible(p, nil)

	assert.Contains(t, got, "pumpkin-purse")
	assert.Contains(t, got, "cauldron-of-coin")
	assert.NotContains(t, got, "hoard-of-the-barrow")
}

func TestEligibleEmptyProgress(t *testing.T) {
	assert.Empty(t, Eligible(progress.Progress{}, nil))
}

func TestCatalogRequirementsAreSane(t *testing.T) {
	seen := make(map[string]bool)
	for _, b := range Catalog {
		require.False(t, seen[b.ID], "duplicate badge id %s", b.ID)
		seen[b.ID] = true
		require.Positive(t, b.Requirement.Threshold, "badge %s", b.ID)
		require.NotEmpty(t, b.Name, "badge %s", b.ID)
	}
}

func TestByID(t *testing.T) {
	b, ok := ByID("first-haunt")
	require.True(t, ok)
	assert.Equal(t, RarityCommon, b.Rarity)

	_, ok = ByID("no-such-badge")
	assert.False(t, ok)
}
