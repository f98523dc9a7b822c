package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/internal/reward"
)

func completedQuest(id identity.ID) quest.Quest {
	now := time.Now().UTC()
	completed := now
	return quest.Quest{
		ID:            "bran-castle",
		Identity:      id.String(),
		DestinationID: "bran-castle",
		Title:         "Survive the night at Bran Castle",
		Status:        quest.StatusCompleted,
		XPReward:      300,
		TPXReward:     120,
		NFTReward:     true,
		PhotoRef:      "uploads/bran.jpg",
		CompletedAt:   &completed,
		UpdatedAt:     now,
	}
}

func newClaimFixture(id identity.ID) (*ClaimService, *fakeChain, *fakeMirror, *memQuestStore) {
	chain := &fakeChain{height: 100, confirmFound: true, resolvedID: "nft-42"}
	mirror := &fakeMirror{}
	quests := newMemQuestStore()
	wallets := &fakeWallets{addrs: map[identity.ID]string{id: "0xabc"}}
	return NewClaimService(chain, mirror, quests, wallets), chain, mirror, quests
}

func TestClaimFullSuccess(t *testing.T) {
	id := identity.ID("user_claim_full")
	svc, chain, mirror, quests := newClaimFixture(id)

	outcome, err := svc.Claim(context.Background(), id, completedQuest(id))
	require.NoError(t, err)

	assert.True(t, outcome.TPX.Succeeded)
	assert.True(t, outcome.NFT.Succeeded)
	assert.Equal(t, 120, outcome.TokensClaimed)
	assert.Equal(t, "nft-42", outcome.NFTRewardID, "confirmed id replaces the provisional one")
	assert.False(t, outcome.PendingConfirmation)
	assert.Equal(t, 1, chain.transfers)
	assert.Equal(t, 1, chain.mints)

	attempt, found := quests.GetClaimAttempt(context.Background(), id, "bran-castle")
	require.True(t, found)
	assert.True(t, attempt.TPXSent())
	assert.True(t, attempt.NFTMinted())
	assert.Equal(t, "nft-42", attempt.NFTRewardID)

	require.Len(t, mirror.upserts, 1)
	assert.Equal(t, quest.StatusClaimed, mirror.upserts[0].Status)
}

func TestClaimWithoutWallet(t *testing.T) {
	id := identity.ID("user_no_wallet")
	chain := &fakeChain{height: 100}
	svc := NewClaimService(chain, &fakeMirror{}, newMemQuestStore(), &fakeWallets{addrs: map[identity.ID]string{}})

	_, err := svc.Claim(context.Background(), id, completedQuest(id))
	require.ErrorIs(t, err, ErrNoWallet)
	assert.Zero(t, chain.transfers, "no submission before the wallet check passes")
	assert.Zero(t, chain.mints)
}

func TestClaimPartialSuccessIsTerminal(t *testing.T) {
	id := identity.ID("user_partial")
	svc, chain, _, quests := newClaimFixture(id)
	chain.mintErr = errUnavailable

	outcome, err := svc.Claim(context.Background(), id, completedQuest(id))
	require.NoError(t, err, "one component landing is success, not failure")

	assert.True(t, outcome.TPX.Succeeded)
	assert.False(t, outcome.NFT.Succeeded)
	assert.NotEmpty(t, outcome.NFT.Error)
	assert.Equal(t, 120, outcome.TokensClaimed, "token transfer is never rolled back")

	attempt, found := quests.GetClaimAttempt(context.Background(), id, "bran-castle")
	require.True(t, found)
	assert.True(t, attempt.TPXSent())
	assert.False(t, attempt.NFTMinted(), "failed mint leaves the component retryable")
}

func TestClaimTotalFailure(t *testing.T) {
	id := identity.ID("user_total_failure")
	svc, chain, mirror, quests := newClaimFixture(id)
	chain.transferErr = errUnavailable
	chain.mintErr = errUnavailable

	outcome, err := svc.Claim(context.Background(), id, completedQuest(id))
	require.ErrorIs(t, err, ErrClaimFailed)
	assert.False(t, outcome.Succeeded())
	assert.Empty(t, mirror.upserts, "nothing persisted remotely on total failure")

	attempt, found := quests.GetClaimAttempt(context.Background(), id, "bran-castle")
	require.True(t, found, "the attempt record itself is created up front")
	assert.False(t, attempt.TPXSent())
	assert.False(t, attempt.NFTMinted())
}

func TestClaimUnconfirmedMintIsPending(t *testing.T) {
	id := identity.ID("user_pending")
	svc, chain, _, _ := newClaimFixture(id)
	chain.confirmFound = false

	outcome, err := svc.Claim(context.Background(), id, completedQuest(id))
	require.NoError(t, err, "watcher exhaustion is a resolved outcome, not an error")

	assert.True(t, outcome.NFT.Succeeded)
	assert.True(t, outcome.PendingConfirmation)
	assert.Equal(t, "provisional-1", outcome.NFTRewardID, "provisional id stands until confirmation")
}

func TestClaimRetrySkipsSentComponents(t *testing.T) {
	id := identity.ID("user_retry")
	svc, chain, _, quests := newClaimFixture(id)

	sent := time.Now().UTC().Add(-time.Minute)
	quests.SaveClaimAttempt(context.Background(), id, reward.ClaimAttempt{
		QuestID:   "bran-castle",
		Identity:  id.String(),
		TPXSentAt: &sent,
		TPXTxRef:  "tx-prior",
		CreatedAt: sent,
	})

	// If the retry re-submitted the transfer this would fail the claim.
	chain.transferErr = errUnavailable

	outcome, err := svc.Claim(context.Background(), id, completedQuest(id))
	require.NoError(t, err)

	assert.True(t, outcome.TPX.Succeeded)
	assert.Equal(t, "tx-prior", outcome.TPX.TxRef)
	assert.Equal(t, 120, outcome.TokensClaimed)
	assert.Zero(t, chain.transfers, "tokens are never sent twice for one quest")
	assert.Equal(t, 1, chain.mints, "the missing component still runs")
}

func TestClaimToleratesLedgerHeightFailure(t *testing.T) {
	id := identity.ID("user_height_down")
	svc, chain, _, _ := newClaimFixture(id)
	chain.heightErr = errors.New("relayer timeout")

	outcome, err := svc.Claim(context.Background(), id, completedQuest(id))
	require.NoError(t, err)
	assert.True(t, outcome.TPX.Succeeded)
	assert.True(t, outcome.NFT.Succeeded)
}

func TestClaimTPXOnlyQuestSkipsMint(t *testing.T) {
	id := identity.ID("user_tpx_only")
	svc, chain, _, _ := newClaimFixture(id)

	q := completedQuest(id)
	q.NFTReward = false

	outcome, err := svc.Claim(context.Background(), id, q)
	require.NoError(t, err)
	assert.True(t, outcome.TPX.Attempted)
	assert.False(t, outcome.NFT.Attempted)
	assert.Zero(t, chain.mints)
}
