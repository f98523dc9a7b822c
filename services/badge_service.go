package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"spookTrailsAPI/internal/badge"
	"spookTrailsAPI/internal/identity"
)

var badgeUnlocksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "badge_unlocks_total",
		Help: "Badges unlocked, by rarity",
	},
	[]string{"rarity"},
)

// BadgeService applies the pure eligibility evaluator to the store: it is
// the only code path that creates unlock ledger entries.
type BadgeService struct {
	store  ProgressStore
	notifs *NotificationService
}

func NewBadgeService(store ProgressStore, notifs *NotificationService) *BadgeService {
	return &BadgeService{store: store, notifs: notifs}
}

// EvaluateAndUnlock runs the evaluator against the identity's current
// progress and records any newly eligible badges. Safe to call after every
// transition and after reconciliation: unlocking is idempotent per badge id.
func (s *BadgeService) EvaluateAndUnlock(ctx context.Context, id identity.ID) []string {
	p := s.store.Get(ctx, id)

	alreadyUnlocked := make(map[string]bool)
	for _, ub := range s.store.UnlockedBadges(ctx, id) {
		alreadyUnlocked[ub.BadgeID] = true
	}

	eligible := badge.Eligible(p, alreadyUnlocked)
	if len(eligible) == 0 {
		return nil
	}

	unlocked := s.store.UnlockBadges(ctx, id, eligible, time.Now().UTC())

	for _, badgeID := range unlocked {
		if b, ok := badge.ByID(badgeID); ok {
			badgeUnlocksTotal.WithLabelValues(string(b.Rarity)).Inc()
			if s.notifs != nil {
				s.notifs.NotifyBadgeUnlocked(ctx, id, b)
			}
		}
	}

	return unlocked
}

// List returns the full catalog annotated with the identity's unlock state,
// unlocked first the way the clients render it.
func (s *BadgeService) List(ctx context.Context, id identity.ID) []badge.WithStatus {
	unlockedAt := make(map[string]time.Time)
	for _, ub := range s.store.UnlockedBadges(ctx, id) {
		unlockedAt[ub.BadgeID] = ub.UnlockedAt
	}

	var unlocked, locked []badge.WithStatus
	for _, b := range badge.Catalog {
		ws := badge.WithStatus{Badge: b}
		if at, ok := unlockedAt[b.ID]; ok {
			ws.Unlocked = true
			t := at
			ws.UnlockedAt = &t
			unlocked = append(unlocked, ws)
			continue
		}
		locked = append(locked, ws)
	}

	return append(unlocked, locked...)
}
