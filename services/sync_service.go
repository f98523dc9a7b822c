package services

import (
	"context"
	"log"

	"spookTrailsAPI/internal/events"
	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/progress"
)

// SyncService is the reconciliation layer. It runs once when an identity
// becomes active (login or wallet connect) and is the only synchronization
// point with the remote mirror: remote wins wholesale per quest record and
// for the aggregate counters, then local wins for every write until the
// next reconciliation.
type SyncService struct {
	mirror   Mirror
	quests   QuestStore
	progress ProgressStore
	badges   *BadgeService
	events   events.Publisher
}

func NewSyncService(mirror Mirror, quests QuestStore, progress ProgressStore, badges *BadgeService, pub events.Publisher) *SyncService {
	return &SyncService{mirror: mirror, quests: quests, progress: progress, badges: badges, events: pub}
}

// Reconcile merges the remote mirror into the local store and re-evaluates
// badge eligibility, so progress made through any channel unlocks badges
// retroactively. A dead mirror is recoverable: local state stands.
func (s *SyncService) Reconcile(ctx context.Context, id identity.ID) {
	remote, err := s.mirror.FetchAll(ctx, id)
	if err != nil {
		log.Printf("sync: mirror unavailable for %s, keeping local state: %v", id, err)
	} else if len(remote) > 0 {
		// Remote values overwrite local for any quest id present remotely;
		// local-only records are untouched because SaveQuest upserts by id.
		for _, q := range remote {
			q.Identity = id.String()
			s.quests.SaveQuest(ctx, id, q)
		}
	}

	s.reconcileCounters(ctx, id)

	newly := s.badges.EvaluateAndUnlock(ctx, id)
	if len(newly) > 0 {
		log.Printf("sync: retroactively unlocked %d badge(s) for %s", len(newly), id)
	}

	if s.events != nil {
		s.events.BroadcastUserDataUpdated(id.String())
	}
}

// reconcileCounters recomputes the three counters from the authoritative
// remote aggregates rather than merging field by field.
func (s *SyncService) reconcileCounters(ctx context.Context, id identity.ID) {
	agg, err := s.mirror.FetchAggregates(ctx, id)
	if err != nil {
		log.Printf("sync: aggregates unavailable for %s, keeping local counters: %v", id, err)
		return
	}

	s.progress.SetCounters(ctx, id, progress.Update{
		DestinationsVisited:  &agg.VisitedCount,
		QuestsCompleted:      &agg.CompletedQuestCount,
		TokensEarnedInSeason: &agg.LifetimeTokens,
	})
}
