package progress

import "time"

// Progress holds the three seasonal counters for one identity partition.
// Counters only ever move up: the store exposes increments, never sets.
type Progress struct {
	Identity             string    `json:"identity" db:"identity"`
	DestinationsVisited  int       `json:"destinations_visited" db:"destinations_visited"`
	QuestsCompleted      int       `json:"quests_completed" db:"quests_completed"`
	TokensEarnedInSeason float64   `json:"tokens_earned_in_season" db:"tokens_earned_in_season"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// Update carries a partial overwrite used only by reconciliation, where the
// remote aggregates are authoritative. Nil fields are left untouched.
type Update struct {
	DestinationsVisited  *int
	QuestsCompleted      *int
	TokensEarnedInSeason *float64
}

// Apply merges u into p, field by field.
func (p Progress) Apply(u Update) Progress {
	if u.DestinationsVisited != nil {
		p.DestinationsVisited = *u.DestinationsVisited
	}
	if u.QuestsCompleted != nil {
		p.QuestsCompleted = *u.QuestsCompleted
	}
	if u.TokensEarnedInSeason != nil {
		p.TokensEarnedInSeason = *u.TokensEarnedInSeason
	}
	return p
}
