package reward

// TransferResult is the relayer's answer to a TPX transfer submission.
// Success means accepted, not confirmed.
type TransferResult struct {
	TxRef string `json:"tx_ref"`
}

// MintResult is the relayer's answer to an NFT mint submission. The reward
// id is provisional until the confirmation watcher observes the transaction.
type MintResult struct {
	TxRef               string `json:"tx_ref"`
	ProvisionalRewardID string `json:"provisional_reward_id"`
}

// ConfirmationResult is what the watcher resolves to within its bound.
// Found=false is the timeout outcome, not an error.
type ConfirmationResult struct {
	Found            bool   `json:"found"`
	TxRef            string `json:"tx_ref,omitempty"`
	ResolvedRewardID string `json:"resolved_reward_id,omitempty"`
}

// TxFilter narrows which transactions the watcher matches.
type TxFilter string

const (
	FilterTransfer TxFilter = "transfer"
	FilterMint     TxFilter = "mint"
)

// ComponentOutcome describes one reward component of a claim.
type ComponentOutcome struct {
	Attempted bool   `json:"attempted"`
	Succeeded bool   `json:"succeeded"`
	TxRef     string `json:"tx_ref,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ClaimOutcome is the orchestrator's terminal report for one claim run.
// Partial success (tokens sent, NFT missing or vice versa) is a valid
// terminal state; no compensating action is ever taken.
type ClaimOutcome struct {
	QuestID             string           `json:"quest_id"`
	TPX                 ComponentOutcome `json:"tpx"`
	NFT                 ComponentOutcome `json:"nft"`
	NFTRewardID         string           `json:"nft_reward_id,omitempty"`
	PendingConfirmation bool             `json:"pending_confirmation"`
	TokensClaimed       int              `json:"tokens_claimed"`
}

// Succeeded reports whether at least one attempted component went through.
func (o ClaimOutcome) Succeeded() bool {
	return o.TPX.Succeeded || o.NFT.Succeeded
}
