package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spookTrailsAPI/internal/identity"
)

func TestMirrorAbsentTableIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	m := NewSupabaseMirror(srv.URL, "test-key", srv.Client())

	quests, err := m.FetchAll(context.Background(), identity.ID("user_mirror_404"))
	require.NoError(t, err, "a project without the table yet is a new-user condition")
	assert.Empty(t, quests)
}

func TestMirrorAbsentAggregatesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	m := NewSupabaseMirror(srv.URL, "test-key", srv.Client())

	_, err := m.FetchAggregates(context.Background(), identity.ID("user_mirror_404"))
	require.Error(t, err, "zero aggregates look like real data, so absence must not decode to zeros")
}

func TestMirrorAggregatesDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"visited_count": 4, "completed_quest_count": 2, "lifetime_tokens": 180}`))
	}))
	defer srv.Close()

	m := NewSupabaseMirror(srv.URL, "test-key", srv.Client())

	agg, err := m.FetchAggregates(context.Background(), identity.ID("user_mirror_ok"))
	require.NoError(t, err)
	assert.Equal(t, 4, agg.VisitedCount)
	assert.Equal(t, 2, agg.CompletedQuestCount)
	assert.Equal(t, 180.0, agg.LifetimeTokens)
}

// The full path the 404 used to break: a mirror whose endpoints are all
// absent must leave the local counters exactly as they were.
func TestReconcileAgainstAbsentMirrorEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	id := identity.ID("user_mirror_sync")
	mirror := NewSupabaseMirror(srv.URL, "test-key", srv.Client())
	quests := newMemQuestStore()
	prog := newMemProgressStore()
	svc := NewSyncService(mirror, quests, prog, NewBadgeService(prog, nil), nil)

	prog.IncrementVisited(context.Background(), id, 3)
	prog.AddTokensEarned(context.Background(), id, 200)

	svc.Reconcile(context.Background(), id)

	p := prog.Get(context.Background(), id)
	assert.Equal(t, 3, p.DestinationsVisited)
	assert.Equal(t, 200.0, p.TokensEarnedInSeason)
}
