package services

import (
	"context"
	"time"

	"spookTrailsAPI/internal/badge"
	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/progress"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/internal/reward"
)

// ProgressStore is the local persisted copy of the three seasonal counters
// and the unlocked-badge ledger, partitioned per identity.
//
// Every method is fail-soft: a storage error is logged and the caller gets
// a zero value or a no-op, never a failure. Counters only move up through
// the increment methods; SetCounters exists solely for reconciliation,
// where the remote aggregates are authoritative.
type ProgressStore interface {
	Get(ctx context.Context, id identity.ID) progress.Progress
	IncrementVisited(ctx context.Context, id identity.ID, delta int)
	IncrementCompleted(ctx context.Context, id identity.ID, delta int)
	AddTokensEarned(ctx context.Context, id identity.ID, amount float64)
	SetCounters(ctx context.Context, id identity.ID, u progress.Update)

	// UnlockBadges inserts ledger entries for the given badge ids and
	// returns the ids actually inserted. Already-unlocked ids are skipped
	// and keep their original timestamp.
	UnlockBadges(ctx context.Context, id identity.ID, badgeIDs []string, now time.Time) []string
	UnlockedBadges(ctx context.Context, id identity.ID) []badge.UnlockedBadge
}

// QuestStore persists quest records and claim attempts per identity. Reads
// are fail-soft like ProgressStore; SaveQuest is an unconditional upsert by
// quest id and exists for reconciliation, where remote wins wholesale.
type QuestStore interface {
	GetQuests(ctx context.Context, id identity.ID) []quest.Quest
	GetQuest(ctx context.Context, id identity.ID, questID string) (quest.Quest, bool)
	SaveQuest(ctx context.Context, id identity.ID, q quest.Quest)

	// TransitionQuest persists q only while the stored record (or the
	// catalog default, when no row exists yet) is still in the from
	// status, and reports whether the write won. A false return means a
	// concurrent writer performed the transition first; the caller must
	// surface the precondition failure instead of overwriting.
	TransitionQuest(ctx context.Context, id identity.ID, q quest.Quest, from quest.Status) bool

	GetClaimAttempt(ctx context.Context, id identity.ID, questID string) (reward.ClaimAttempt, bool)
	SaveClaimAttempt(ctx context.Context, id identity.ID, a reward.ClaimAttempt)
}
