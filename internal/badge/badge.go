package badge

import (
	"time"

	"spookTrailsAPI/internal/progress"
)

type RequirementKind string

const (
	KindDestinationsVisited RequirementKind = "destinations_visited"
	KindQuestsCompleted     RequirementKind = "quests_completed"
	KindTokensEarned        RequirementKind = "tokens_earned"
)

// Rarity is purely cosmetic; it never gates an unlock.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

type Requirement struct {
	Kind      RequirementKind `json:"kind"`
	Threshold int             `json:"threshold"`
}

type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Rarity      Rarity      `json:"rarity"`
	Requirement Requirement `json:"requirement"`
}

// UnlockedBadge is the persisted ledger entry. Created exactly once per
// (identity, badge) pair; re-unlocking keeps the original timestamp.
type UnlockedBadge struct {
	BadgeID    string    `json:"badge_id" db:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type WithStatus struct {
	Badge
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// counterFor selects the progress field a requirement kind evaluates against.
func counterFor(kind RequirementKind, p progress.Progress) float64 {
	switch kind {
	case KindDestinationsVisited:
		return float64(p.DestinationsVisited)
	case KindQuestsCompleted:
		return float64(p.QuestsCompleted)
	case KindTokensEarned:
		return p.TokensEarnedInSeason
	}
	return 0
}

// Eligible returns the ids of every catalog badge whose threshold is met by
// p and which is not already unlocked. It is pure: same inputs, same output,
// and a progress snapshot that only grew can only grow the result set.
// Badges sharing a requirement kind all qualify independently, not just the
// highest threshold cleared.
func Eligible(p progress.Progress, alreadyUnlocked map[string]bool) []string {
	var eligible []string
	for _, b := range Catalog {
		if alreadyUnlocked[b.ID] {
			continue
		}
		if counterFor(b.Requirement.Kind, p) >= float64(b.Requirement.Threshold) {
			eligible = append(eligible, b.ID)
		}
	}
	return eligible
}

// ByID looks a badge up in the static catalog.
func ByID(id string) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
