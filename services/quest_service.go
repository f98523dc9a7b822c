package services

import (
	"context"
	"fmt"
	"time"

	"spookTrailsAPI/internal/events"
	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/internal/reward"
)

// QuestService is the lifecycle controller: it owns every transition a
// quest record can make and the progress side effects each transition
// triggers. Precondition violations surface the quest sentinel errors;
// storage faults beneath browsing stay fail-soft in the stores.
type QuestService struct {
	quests   QuestStore
	progress ProgressStore
	badges   *BadgeService
	claims   *ClaimService
	verifier quest.Verifier
	events   events.Publisher
	notifs   *NotificationService
}

func NewQuestService(quests QuestStore, progress ProgressStore, badges *BadgeService, claims *ClaimService, verifier quest.Verifier, pub events.Publisher, notifs *NotificationService) *QuestService {
	if verifier == nil {
		verifier = quest.AcceptAllVerifier{}
	}
	return &QuestService{
		quests:   quests,
		progress: progress,
		badges:   badges,
		claims:   claims,
		verifier: verifier,
		events:   pub,
		notifs:   notifs,
	}
}

func (s *QuestService) GetQuests(ctx context.Context, id identity.ID) []quest.Quest {
	return s.quests.GetQuests(ctx, id)
}

// Start moves a quest from available to in_progress. This is the first
// transition, so it is also the moment the record starts being persisted.
func (s *QuestService) Start(ctx context.Context, id identity.ID, questID string) (quest.Quest, error) {
	q, ok := s.quests.GetQuest(ctx, id, questID)
	if !ok {
		return quest.Quest{}, fmt.Errorf("quest %s not found", questID)
	}

	if err := q.Start(time.Now().UTC()); err != nil {
		return quest.Quest{}, err
	}

	if !s.quests.TransitionQuest(ctx, id, q, quest.StatusAvailable) {
		return quest.Quest{}, quest.ErrInvalidStateTransition
	}
	return q, nil
}

// Complete verifies the proof payload, stamps completion and applies the
// two progress increments the transition owns. Badge eligibility is
// re-evaluated immediately so threshold badges unlock in the same call.
func (s *QuestService) Complete(ctx context.Context, id identity.ID, questID string, v quest.Verification) (quest.Quest, error) {
	q, ok := s.quests.GetQuest(ctx, id, questID)
	if !ok {
		return quest.Quest{}, fmt.Errorf("quest %s not found", questID)
	}

	if err := s.verifier.Verify(q, v); err != nil {
		return quest.Quest{}, err
	}

	if err := q.Complete(v, time.Now().UTC()); err != nil {
		return quest.Quest{}, err
	}

	// The guarded write is what makes the transition race-safe: two
	// requests can both read in_progress, but only one write matches it.
	// The loser fails like any other precondition violation, and the
	// progress increments below run exactly once per completion.
	if !s.quests.TransitionQuest(ctx, id, q, quest.StatusInProgress) {
		return quest.Quest{}, quest.ErrAlreadyCompleted
	}
	s.progress.IncrementVisited(ctx, id, 1)
	s.progress.IncrementCompleted(ctx, id, 1)
	s.badges.EvaluateAndUnlock(ctx, id)

	if s.notifs != nil {
		s.notifs.NotifyQuestCompleted(ctx, id, q)
	}
	if s.events != nil {
		s.events.BroadcastUserDataUpdated(id.String())
	}

	return q, nil
}

// ClaimRewards delegates to the claim orchestrator and only on success
// moves the quest to claimed and credits the tokens-earned counter. On
// partial failure the orchestrator still reports success and the missing
// component is retried on the next claim; on total failure the quest stays
// completed and the error propagates.
func (s *QuestService) ClaimRewards(ctx context.Context, id identity.ID, questID string) (quest.Quest, reward.ClaimOutcome, error) {
	q, ok := s.quests.GetQuest(ctx, id, questID)
	if !ok {
		return quest.Quest{}, reward.ClaimOutcome{}, fmt.Errorf("quest %s not found", questID)
	}

	if q.Status != quest.StatusCompleted {
		return quest.Quest{}, reward.ClaimOutcome{}, quest.ErrQuestNotCompleted
	}

	outcome, err := s.claims.Claim(ctx, id, q)
	if err != nil {
		return q, outcome, err
	}

	if err := q.MarkClaimed(time.Now().UTC()); err != nil {
		return q, outcome, err
	}

	if !s.quests.TransitionQuest(ctx, id, q, quest.StatusCompleted) {
		// A concurrent claim already moved the record; its run owns the
		// token credit, and the claim-attempt ledger kept the chain side
		// exactly-once.
		return q, outcome, quest.ErrQuestNotCompleted
	}
	if outcome.TokensClaimed > 0 {
		s.progress.AddTokensEarned(ctx, id, float64(outcome.TokensClaimed))
	}
	s.badges.EvaluateAndUnlock(ctx, id)

	if s.notifs != nil {
		s.notifs.NotifyRewardsClaimed(ctx, id, q, outcome)
	}
	if s.events != nil {
		s.events.BroadcastUserDataUpdated(id.String())
	}

	return q, outcome, nil
}
