package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spookTrailsAPI/internal/identity"
)

// WalletService maps identities to their on-chain destination address.
// Wallets are registered at session sync (wallet connect) and looked up by
// the claim orchestrator.
type WalletService struct {
	db *pgxpool.Pool
}

func NewWalletService(db *pgxpool.Pool) *WalletService {
	return &WalletService{db: db}
}

func (s *WalletService) Register(ctx context.Context, id identity.ID, address string) error {
	if address == "" {
		return fmt.Errorf("wallet address required")
	}

	query := `
	INSERT INTO wallets (identity, address, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (identity)
	DO UPDATE SET address = $2, updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, id.String(), address); err != nil {
		return fmt.Errorf("failed to register wallet: %w", err)
	}
	return nil
}

func (s *WalletService) WalletAddress(ctx context.Context, id identity.ID) (string, bool) {
	var address string
	query := `SELECT address FROM wallets WHERE identity = $1`

	err := s.db.QueryRow(ctx, query, id.String()).Scan(&address)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("wallets: failed to fetch address for %s: %v", id, err)
		}
		return "", false
	}
	return address, true
}
