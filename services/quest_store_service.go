package services

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spookTrailsAPI/internal/destination"
	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/internal/reward"
)

// QuestStoreService is the pgx-backed QuestStore. Quests are lazily
// materialized: a row only exists once a quest moved away from available,
// so reads overlay persisted rows onto the static catalog templates.
type QuestStoreService struct {
	db *pgxpool.Pool
}

func NewQuestStoreService(db *pgxpool.Pool) *QuestStoreService {
	return &QuestStoreService{db: db}
}

const questColumns = `id, identity, destination_id, title, status, xp_reward, tpx_reward, nft_reward, photo_ref, completed_at, claimed_at, updated_at`

func scanQuest(row pgx.Row) (quest.Quest, error) {
	var q quest.Quest
	err := row.Scan(
		&q.ID,
		&q.Identity,
		&q.DestinationID,
		&q.Title,
		&q.Status,
		&q.XPReward,
		&q.TPXReward,
		&q.NFTReward,
		&q.PhotoRef,
		&q.CompletedAt,
		&q.ClaimedAt,
		&q.UpdatedAt,
	)
	return q, err
}

// GetQuests returns one quest per catalog destination: the persisted record
// where one exists, the deterministic template otherwise.
func (s *QuestStoreService) GetQuests(ctx context.Context, id identity.ID) []quest.Quest {
	persisted := make(map[string]quest.Quest)

	query := `SELECT ` + questColumns + ` FROM season_quests WHERE identity = $1`
	rows, err := s.db.Query(ctx, query, id.String())
	if err != nil {
		log.Printf("quests: failed to fetch quests for %s: %v", id, err)
	} else {
		defer rows.Close()
		for rows.Next() {
			q, err := scanQuest(rows)
			if err != nil {
				log.Printf("quests: failed to scan quest: %v", err)
				continue
			}
			persisted[q.ID] = q
		}
	}

	quests := make([]quest.Quest, 0, len(destination.Catalog))
	for _, d := range destination.Catalog {
		if q, ok := persisted[d.ID]; ok {
			quests = append(quests, q)
			continue
		}
		quests = append(quests, quest.FromTemplate(id.String(), d))
	}

	return quests
}

func (s *QuestStoreService) GetQuest(ctx context.Context, id identity.ID, questID string) (quest.Quest, bool) {
	query := `SELECT ` + questColumns + ` FROM season_quests WHERE identity = $1 AND id = $2`

	q, err := scanQuest(s.db.QueryRow(ctx, query, id.String(), questID))
	if err == nil {
		return q, true
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("quests: failed to fetch quest %s for %s: %v", questID, id, err)
	}

	// No record yet: the quest still conceptually exists if the catalog
	// knows the destination.
	d, ok := destination.ByID(questID)
	if !ok {
		return quest.Quest{}, false
	}
	return quest.FromTemplate(id.String(), d), true
}

func (s *QuestStoreService) SaveQuest(ctx context.Context, id identity.ID, q quest.Quest) {
	query := `
	INSERT INTO season_quests (id, identity, destination_id, title, status, xp_reward, tpx_reward, nft_reward, photo_ref, completed_at, claimed_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	ON CONFLICT (identity, id)
	DO UPDATE SET
		status = $5,
		xp_reward = $6,
		tpx_reward = $7,
		nft_reward = $8,
		photo_ref = $9,
		completed_at = $10,
		claimed_at = $11,
		updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query,
		q.ID, id.String(), q.DestinationID, q.Title, q.Status,
		q.XPReward, q.TPXReward, q.NFTReward, q.PhotoRef,
		q.CompletedAt, q.ClaimedAt,
	)
	if err != nil {
		log.Printf("quests: failed to save quest %s for %s: %v", q.ID, id, err)
	}
}

// TransitionQuest is the guarded write behind every lifecycle transition.
// The status check and the write happen in one statement, so two requests
// racing the same transition cannot both win: the loser's write matches
// zero rows. A storage fault also loses the write; transitions are the one
// place a storage problem surfaces to the caller, as a precondition failure.
func (s *QuestStoreService) TransitionQuest(ctx context.Context, id identity.ID, q quest.Quest, from quest.Status) bool {
	// No row yet means the quest is still in its catalog-default available
	// state, so only the first transition may insert.
	if from == quest.StatusAvailable {
		query := `
		INSERT INTO season_quests (id, identity, destination_id, title, status, xp_reward, tpx_reward, nft_reward, photo_ref, completed_at, claimed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (identity, id)
		DO UPDATE SET
			status = $5,
			photo_ref = $9,
			completed_at = $10,
			claimed_at = $11,
			updated_at = NOW()
		WHERE season_quests.status = $12
		`
		tag, err := s.db.Exec(ctx, query,
			q.ID, id.String(), q.DestinationID, q.Title, q.Status,
			q.XPReward, q.TPXReward, q.NFTReward, q.PhotoRef,
			q.CompletedAt, q.ClaimedAt, from,
		)
		if err != nil {
			log.Printf("quests: failed to transition quest %s for %s: %v", q.ID, id, err)
			return false
		}
		return tag.RowsAffected() > 0
	}

	query := `
	UPDATE season_quests
	SET status = $4, photo_ref = $5, completed_at = $6, claimed_at = $7, updated_at = NOW()
	WHERE identity = $1 AND id = $2 AND status = $3
	`
	tag, err := s.db.Exec(ctx, query,
		id.String(), q.ID, from,
		q.Status, q.PhotoRef, q.CompletedAt, q.ClaimedAt,
	)
	if err != nil {
		log.Printf("quests: failed to transition quest %s for %s: %v", q.ID, id, err)
		return false
	}
	return tag.RowsAffected() > 0
}

func (s *QuestStoreService) GetClaimAttempt(ctx context.Context, id identity.ID, questID string) (reward.ClaimAttempt, bool) {
	query := `
	SELECT quest_id, identity, tpx_sent_at, tpx_tx_ref, nft_minted_at, nft_tx_ref, nft_reward_id, created_at, updated_at
	FROM claim_attempts
	WHERE identity = $1 AND quest_id = $2
	`

	var a reward.ClaimAttempt
	err := s.db.QueryRow(ctx, query, id.String(), questID).Scan(
		&a.QuestID,
		&a.Identity,
		&a.TPXSentAt,
		&a.TPXTxRef,
		&a.NFTMintedAt,
		&a.NFTTxRef,
		&a.NFTRewardID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("quests: failed to fetch claim attempt %s for %s: %v", questID, id, err)
		}
		return reward.ClaimAttempt{}, false
	}

	return a, true
}

func (s *QuestStoreService) SaveClaimAttempt(ctx context.Context, id identity.ID, a reward.ClaimAttempt) {
	query := `
	INSERT INTO claim_attempts (quest_id, identity, tpx_sent_at, tpx_tx_ref, nft_minted_at, nft_tx_ref, nft_reward_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	ON CONFLICT (identity, quest_id)
	DO UPDATE SET
		tpx_sent_at = $3,
		tpx_tx_ref = $4,
		nft_minted_at = $5,
		nft_tx_ref = $6,
		nft_reward_id = $7,
		updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query,
		a.QuestID, id.String(), a.TPXSentAt, a.TPXTxRef,
		a.NFTMintedAt, a.NFTTxRef, a.NFTRewardID,
	)
	if err != nil {
		log.Printf("quests: failed to save claim attempt %s for %s: %v", a.QuestID, id, err)
	}
}
