package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/internal/reward"
)

var (
	questClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quest_claims_total",
			Help: "Reward claim runs, by terminal outcome",
		},
		[]string{"outcome"},
	)
	confirmationWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reward_confirmation_wait_seconds",
			Help:    "Time spent waiting for on-chain confirmation",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// ErrNoWallet is returned when a claim runs for an identity that never
// registered a wallet address.
var ErrNoWallet = errors.New("no wallet address registered")

// ErrClaimFailed is the total-failure outcome: every attempted component's
// submission was rejected. The quest stays completed so the claim can be
// retried.
var ErrClaimFailed = errors.New("reward claim failed")

// WalletDirectory resolves the on-chain destination address for an identity.
type WalletDirectory interface {
	WalletAddress(ctx context.Context, id identity.ID) (string, bool)
}

// ClaimService sequences the multi-step, partially-failable reward claim:
// ledger reference point, TPX transfer, confirmation wait, NFT mint,
// confirmation wait, remote persistence. Token transfer and mint are
// independent; a partial success is a valid terminal state and nothing is
// ever rolled back.
type ClaimService struct {
	chain   ChainBackend
	mirror  Mirror
	quests  QuestStore
	wallets WalletDirectory
}

func NewClaimService(chain ChainBackend, mirror Mirror, quests QuestStore, wallets WalletDirectory) *ClaimService {
	return &ClaimService{chain: chain, mirror: mirror, quests: quests, wallets: wallets}
}

// Claim runs one claim attempt for a completed quest. The claim-attempt
// ledger makes retries exactly-once per component: a component marked sent
// on a previous run is treated as already succeeded and skipped.
func (s *ClaimService) Claim(ctx context.Context, id identity.ID, q quest.Quest) (reward.ClaimOutcome, error) {
	outcome := reward.ClaimOutcome{QuestID: q.ID}

	addr, ok := s.wallets.WalletAddress(ctx, id)
	if !ok {
		questClaimsTotal.WithLabelValues("no_wallet").Inc()
		return outcome, ErrNoWallet
	}

	attempt, found := s.quests.GetClaimAttempt(ctx, id, q.ID)
	if !found {
		attempt = reward.ClaimAttempt{QuestID: q.ID, Identity: id.String(), CreatedAt: time.Now().UTC()}
		s.quests.SaveClaimAttempt(ctx, id, attempt)
	}

	// Reference point scopes confirmation watching to transactions
	// submitted from here on.
	sinceHeight, err := s.chain.LedgerHeight(ctx)
	if err != nil {
		log.Printf("claim: failed to read ledger height for %s: %v", q.ID, err)
		sinceHeight = 0
	}

	if q.TPXReward > 0 {
		s.claimTPX(ctx, id, q, addr, sinceHeight, &attempt, &outcome)
	}
	if q.NFTReward {
		s.claimNFT(ctx, id, q, addr, sinceHeight, &attempt, &outcome)
	}

	attempted := outcome.TPX.Attempted || outcome.NFT.Attempted
	if attempted && !outcome.Succeeded() {
		questClaimsTotal.WithLabelValues("failed").Inc()
		return outcome, fmt.Errorf("%w: quest %s", ErrClaimFailed, q.ID)
	}

	// Rewards are issued; persist the claim to the mirror before reporting
	// success so other devices observe it. Mirror trouble is logged, not
	// fatal: the chain already settled.
	claimed := q
	if err := claimed.MarkClaimed(time.Now().UTC()); err == nil {
		if err := s.mirror.Upsert(ctx, id, claimed); err != nil {
			log.Printf("claim: failed to persist claim %s to mirror: %v", q.ID, err)
		}
	}

	if outcome.PendingConfirmation {
		questClaimsTotal.WithLabelValues("pending_confirmation").Inc()
	} else if outcome.TPX.Succeeded && (!q.NFTReward || outcome.NFT.Succeeded) {
		questClaimsTotal.WithLabelValues("success").Inc()
	} else {
		questClaimsTotal.WithLabelValues("partial").Inc()
	}

	return outcome, nil
}

func (s *ClaimService) claimTPX(ctx context.Context, id identity.ID, q quest.Quest, addr string, sinceHeight int64, attempt *reward.ClaimAttempt, outcome *reward.ClaimOutcome) {
	outcome.TPX.Attempted = true

	if attempt.TPXSent() {
		// A previous run already submitted the transfer; never re-send.
		outcome.TPX.Succeeded = true
		outcome.TPX.TxRef = attempt.TPXTxRef
		outcome.TokensClaimed = q.TPXReward
		return
	}

	res, err := s.chain.Transfer(ctx, addr, q.TPXReward)
	if err != nil {
		log.Printf("claim: TPX transfer for %s failed: %v", q.ID, err)
		outcome.TPX.Error = err.Error()
		return
	}

	now := time.Now().UTC()
	attempt.TPXSentAt = &now
	attempt.TPXTxRef = res.TxRef
	s.quests.SaveClaimAttempt(ctx, id, *attempt)

	outcome.TPX.Succeeded = true
	outcome.TPX.TxRef = res.TxRef
	outcome.TokensClaimed = q.TPXReward

	start := time.Now()
	conf := s.chain.AwaitConfirmation(ctx, addr, sinceHeight, reward.FilterTransfer)
	confirmationWaitSeconds.Observe(time.Since(start).Seconds())
	if !conf.Found {
		log.Printf("claim: TPX transfer %s for %s not confirmed within bound", res.TxRef, q.ID)
	}
}

func (s *ClaimService) claimNFT(ctx context.Context, id identity.ID, q quest.Quest, addr string, sinceHeight int64, attempt *reward.ClaimAttempt, outcome *reward.ClaimOutcome) {
	outcome.NFT.Attempted = true

	if attempt.NFTMinted() {
		outcome.NFT.Succeeded = true
		outcome.NFT.TxRef = attempt.NFTTxRef
		outcome.NFTRewardID = attempt.NFTRewardID
		return
	}

	res, err := s.chain.Mint(ctx, addr)
	if err != nil {
		// Prior steps' effects stand; the caller can re-attempt just the
		// mint on the next claim.
		log.Printf("claim: NFT mint for %s failed: %v", q.ID, err)
		outcome.NFT.Error = err.Error()
		return
	}

	now := time.Now().UTC()
	attempt.NFTMintedAt = &now
	attempt.NFTTxRef = res.TxRef
	attempt.NFTRewardID = res.ProvisionalRewardID

	outcome.NFT.Succeeded = true
	outcome.NFT.TxRef = res.TxRef

	start := time.Now()
	conf := s.chain.AwaitConfirmation(ctx, addr, sinceHeight, reward.FilterMint)
	confirmationWaitSeconds.Observe(time.Since(start).Seconds())

	if conf.Found && conf.ResolvedRewardID != "" {
		attempt.NFTRewardID = conf.ResolvedRewardID
		outcome.NFTRewardID = conf.ResolvedRewardID
	} else {
		// Watcher bound exhausted: proceed with the mint response's
		// provisional id and surface the pending state to the caller.
		outcome.NFTRewardID = res.ProvisionalRewardID
		outcome.PendingConfirmation = true
	}

	s.quests.SaveClaimAttempt(ctx, id, *attempt)
}
