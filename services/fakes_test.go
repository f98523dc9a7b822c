package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"spookTrailsAPI/internal/badge"
	"spookTrailsAPI/internal/destination"
	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/progress"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/internal/reward"
)

// In-memory store and backend fakes. They implement the same fail-soft
// contracts as the pgx implementations so the orchestration services can be
// exercised without a database or a live relayer.

type memProgressStore struct {
	mu       sync.Mutex
	progress map[identity.ID]progress.Progress
	unlocked map[identity.ID][]badge.UnlockedBadge
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{
		progress: make(map[identity.ID]progress.Progress),
		unlocked: make(map[identity.ID][]badge.UnlockedBadge),
	}
}

func (s *memProgressStore) Get(_ context.Context, id identity.ID) progress.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress[id]
	p.Identity = id.String()
	return p
}

func (s *memProgressStore) IncrementVisited(_ context.Context, id identity.ID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress[id]
	p.DestinationsVisited += delta
	s.progress[id] = p
}

func (s *memProgressStore) IncrementCompleted(_ context.Context, id identity.ID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress[id]
	p.QuestsCompleted += delta
	s.progress[id] = p
}

func (s *memProgressStore) AddTokensEarned(_ context.Context, id identity.ID, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress[id]
	p.TokensEarnedInSeason += amount
	s.progress[id] = p
}

func (s *memProgressStore) SetCounters(_ context.Context, id identity.ID, u progress.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[id] = s.progress[id].Apply(u)
}

func (s *memProgressStore) UnlockBadges(_ context.Context, id identity.ID, badgeIDs []string, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	have := make(map[string]bool)
	for _, ub := range s.unlocked[id] {
		have[ub.BadgeID] = true
	}
	var inserted []string
	for _, bid := range badgeIDs {
		if have[bid] {
			continue
		}
		s.unlocked[id] = append(s.unlocked[id], badge.UnlockedBadge{BadgeID: bid, UnlockedAt: now})
		inserted = append(inserted, bid)
	}
	return inserted
}

func (s *memProgressStore) UnlockedBadges(_ context.Context, id identity.ID) []badge.UnlockedBadge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]badge.UnlockedBadge, len(s.unlocked[id]))
	copy(out, s.unlocked[id])
	return out
}

type memQuestStore struct {
	mu       sync.Mutex
	quests   map[identity.ID]map[string]quest.Quest
	attempts map[identity.ID]map[string]reward.ClaimAttempt
}

func newMemQuestStore() *memQuestStore {
	return &memQuestStore{
		quests:   make(map[identity.ID]map[string]quest.Quest),
		attempts: make(map[identity.ID]map[string]reward.ClaimAttempt),
	}
}

func (s *memQuestStore) GetQuests(_ context.Context, id identity.ID) []quest.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quest.Quest
	for _, d := range destination.Catalog {
		if q, ok := s.quests[id][d.ID]; ok {
			out = append(out, q)
			continue
		}
		out = append(out, quest.FromTemplate(id.String(), d))
	}
	return out
}

func (s *memQuestStore) GetQuest(_ context.Context, id identity.ID, questID string) (quest.Quest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.quests[id][questID]; ok {
		return q, true
	}
	d, ok := destination.ByID(questID)
	if !ok {
		return quest.Quest{}, false
	}
	return quest.FromTemplate(id.String(), d), true
}

func (s *memQuestStore) SaveQuest(_ context.Context, id identity.ID, q quest.Quest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quests[id] == nil {
		s.quests[id] = make(map[string]quest.Quest)
	}
	s.quests[id][q.ID] = q
}

func (s *memQuestStore) TransitionQuest(_ context.Context, id identity.ID, q quest.Quest, from quest.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.quests[id][q.ID]
	if !ok {
		if from != quest.StatusAvailable {
			return false
		}
	} else if current.Status != from {
		return false
	}
	if s.quests[id] == nil {
		s.quests[id] = make(map[string]quest.Quest)
	}
	s.quests[id][q.ID] = q
	return true
}

func (s *memQuestStore) GetClaimAttempt(_ context.Context, id identity.ID, questID string) (reward.ClaimAttempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id][questID]
	return a, ok
}

func (s *memQuestStore) SaveClaimAttempt(_ context.Context, id identity.ID, a reward.ClaimAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempts[id] == nil {
		s.attempts[id] = make(map[string]reward.ClaimAttempt)
	}
	s.attempts[id][a.QuestID] = a
}

// fakeMirror serves canned records and captures upserts. Setting err makes
// every call fail, simulating a dead mirror; aggErr fails only the
// aggregates RPC, simulating a project that has quests but no aggregates
// function yet.
type fakeMirror struct {
	mu         sync.Mutex
	records    []quest.Quest
	aggregates Aggregates
	err        error
	aggErr     error

	upserts []quest.Quest
}

func (m *fakeMirror) FetchAll(_ context.Context, _ identity.ID) ([]quest.Quest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *fakeMirror) Upsert(_ context.Context, _ identity.ID, q quest.Quest) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, q)
	return nil
}

func (m *fakeMirror) FetchAggregates(_ context.Context, _ identity.ID) (Aggregates, error) {
	if m.err != nil {
		return Aggregates{}, m.err
	}
	if m.aggErr != nil {
		return Aggregates{}, m.aggErr
	}
	return m.aggregates, nil
}

// fakeChain lets each step be failed independently and counts submissions so
// exactly-once behavior is observable.
type fakeChain struct {
	mu sync.Mutex

	height       int64
	heightErr    error
	transferErr  error
	mintErr      error
	confirmFound bool
	resolvedID   string

	transfers int
	mints     int
	awaits    int
}

func (c *fakeChain) LedgerHeight(_ context.Context) (int64, error) {
	if c.heightErr != nil {
		return 0, c.heightErr
	}
	return c.height, nil
}

func (c *fakeChain) Transfer(_ context.Context, _ string, _ int) (reward.TransferResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transferErr != nil {
		return reward.TransferResult{}, c.transferErr
	}
	c.transfers++
	return reward.TransferResult{TxRef: "tx-transfer-1"}, nil
}

func (c *fakeChain) Mint(_ context.Context, _ string) (reward.MintResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mintErr != nil {
		return reward.MintResult{}, c.mintErr
	}
	c.mints++
	return reward.MintResult{TxRef: "tx-mint-1", ProvisionalRewardID: "provisional-1"}, nil
}

func (c *fakeChain) AwaitConfirmation(_ context.Context, _ string, _ int64, filter reward.TxFilter) reward.ConfirmationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaits++
	if !c.confirmFound {
		return reward.ConfirmationResult{Found: false}
	}
	res := reward.ConfirmationResult{Found: true, TxRef: "tx-confirmed"}
	if filter == reward.FilterMint {
		res.ResolvedRewardID = c.resolvedID
	}
	return res
}

type fakeWallets struct {
	addrs map[identity.ID]string
}

func (w *fakeWallets) WalletAddress(_ context.Context, id identity.ID) (string, bool) {
	addr, ok := w.addrs[id]
	return addr, ok
}

type recordingPublisher struct {
	mu         sync.Mutex
	identities []string
}

func (p *recordingPublisher) BroadcastUserDataUpdated(identity string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identities = append(p.identities, identity)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.identities)
}

var errUnavailable = errors.New("service unavailable")
