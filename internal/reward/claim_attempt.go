package reward

import "time"

// ClaimAttempt is the exactly-once ledger for a quest's reward claim. Each
// component is marked the moment its submission is accepted, before any
// confirmation waiting, so a retried claim never re-sends a component that
// already left the building.
type ClaimAttempt struct {
	QuestID     string     `json:"quest_id" db:"quest_id"`
	Identity    string     `json:"identity" db:"identity"`
	TPXSentAt   *time.Time `json:"tpx_sent_at,omitempty" db:"tpx_sent_at"`
	TPXTxRef    string     `json:"tpx_tx_ref,omitempty" db:"tpx_tx_ref"`
	NFTMintedAt *time.Time `json:"nft_minted_at,omitempty" db:"nft_minted_at"`
	NFTTxRef    string     `json:"nft_tx_ref,omitempty" db:"nft_tx_ref"`
	NFTRewardID string     `json:"nft_reward_id,omitempty" db:"nft_reward_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func (a ClaimAttempt) TPXSent() bool   { return a.TPXSentAt != nil }
func (a ClaimAttempt) NFTMinted() bool { return a.NFTMintedAt != nil }
