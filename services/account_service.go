package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"spookTrailsAPI/internal/identity"
)

// AccountService handles identity lifecycle events coming from Clerk.
type AccountService struct {
	db *pgxpool.Pool
}

func NewAccountService(db *pgxpool.Pool) *AccountService {
	return &AccountService{db: db}
}

// DeleteIdentityData removes every partition an identity owns. Runs in one
// transaction so a deleted account never leaves a half-purged state.
func (s *AccountService) DeleteIdentityData(ctx context.Context, id identity.ID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"season_progress",
		"season_quests",
		"unlocked_badges",
		"claim_attempts",
		"notifications",
		"device_tokens",
		"wallets",
	}

	for _, table := range tables {
		query := fmt.Sprintf("DELETE FROM %s WHERE identity = $1", table)
		if _, err := tx.Exec(ctx, query, id.String()); err != nil {
			return fmt.Errorf("failed to purge %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}
	return nil
}
