package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"spookTrailsAPI/internal/badge"
	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/progress"
)

// ProgressService is the pgx-backed ProgressStore. Storage faults are
// absorbed here so that a flaky database never blocks badge or quest
// browsing: reads fall back to zero values, writes log and move on.
type ProgressService struct {
	db *pgxpool.Pool
}

func NewProgressService(db *pgxpool.Pool) *ProgressService {
	return &ProgressService{db: db}
}

func (s *ProgressService) Get(ctx context.Context, id identity.ID) progress.Progress {
	p := progress.Progress{Identity: id.String()}

	query := `
	SELECT destinations_visited, quests_completed, tokens_earned_in_season, updated_at
	FROM season_progress
	WHERE identity = $1
	`

	err := s.db.QueryRow(ctx, query, id.String()).Scan(
		&p.DestinationsVisited,
		&p.QuestsCompleted,
		&p.TokensEarnedInSeason,
		&p.UpdatedAt,
	)
	if err != nil {
		// No row yet or a storage fault: either way the caller gets the
		// zero counters and browsing continues.
		return progress.Progress{Identity: id.String()}
	}

	return p
}

func (s *ProgressService) IncrementVisited(ctx context.Context, id identity.ID, delta int) {
	if delta <= 0 {
		return
	}
	s.bump(ctx, id, delta, 0, 0)
}

func (s *ProgressService) IncrementCompleted(ctx context.Context, id identity.ID, delta int) {
	if delta <= 0 {
		return
	}
	s.bump(ctx, id, 0, delta, 0)
}

func (s *ProgressService) AddTokensEarned(ctx context.Context, id identity.ID, amount float64) {
	if amount <= 0 {
		return
	}
	s.bump(ctx, id, 0, 0, amount)
}

// bump is the single write path for counter increments, so monotonicity is
// enforced in exactly one place.
func (s *ProgressService) bump(ctx context.Context, id identity.ID, visited, completed int, tokens float64) {
	query := `
	INSERT INTO season_progress (identity, destinations_visited, quests_completed, tokens_earned_in_season, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (identity)
	DO UPDATE SET
		destinations_visited = season_progress.destinations_visited + $2,
		quests_completed = season_progress.quests_completed + $3,
		tokens_earned_in_season = season_progress.tokens_earned_in_season + $4,
		updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, id.String(), visited, completed, tokens); err != nil {
		log.Printf("progress: failed to bump counters for %s: %v", id, err)
	}
}

// SetCounters overwrites counters from remote aggregates. Only the
// reconciliation layer calls this; everything else goes through increments.
func (s *ProgressService) SetCounters(ctx context.Context, id identity.ID, u progress.Update) {
	current := s.Get(ctx, id)
	next := current.Apply(u)

	query := `
	INSERT INTO season_progress (identity, destinations_visited, quests_completed, tokens_earned_in_season, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (identity)
	DO UPDATE SET
		destinations_visited = $2,
		quests_completed = $3,
		tokens_earned_in_season = $4,
		updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query, id.String(), next.DestinationsVisited, next.QuestsCompleted, next.TokensEarnedInSeason)
	if err != nil {
		log.Printf("progress: failed to set counters for %s: %v", id, err)
	}
}

func (s *ProgressService) UnlockBadges(ctx context.Context, id identity.ID, badgeIDs []string, now time.Time) []string {
	var unlocked []string

	query := `
	INSERT INTO unlocked_badges (id, identity, badge_id, unlocked_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (identity, badge_id) DO NOTHING
	`

	for _, badgeID := range badgeIDs {
		tag, err := s.db.Exec(ctx, query, uuid.New(), id.String(), badgeID, now)
		if err != nil {
			log.Printf("progress: failed to unlock badge %s for %s: %v", badgeID, id, err)
			continue
		}
		if tag.RowsAffected() > 0 {
			unlocked = append(unlocked, badgeID)
		}
	}

	return unlocked
}

func (s *ProgressService) UnlockedBadges(ctx context.Context, id identity.ID) []badge.UnlockedBadge {
	query := `
	SELECT badge_id, unlocked_at
	FROM unlocked_badges
	WHERE identity = $1
	ORDER BY unlocked_at ASC
	`

	rows, err := s.db.Query(ctx, query, id.String())
	if err != nil {
		log.Printf("progress: failed to fetch unlocked badges for %s: %v", id, err)
		return nil
	}
	defer rows.Close()

	var ledger []badge.UnlockedBadge
	for rows.Next() {
		var ub badge.UnlockedBadge
		if err := rows.Scan(&ub.BadgeID, &ub.UnlockedAt); err != nil {
			log.Printf("progress: failed to scan unlocked badge: %v", err)
			continue
		}
		ledger = append(ledger, ub)
	}

	return ledger
}
