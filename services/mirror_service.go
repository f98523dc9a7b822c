package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/quest"
)

// Aggregates are the remote source of truth for the seasonal counters,
// covering progress made through any channel, not just this API.
type Aggregates struct {
	VisitedCount        int     `json:"visited_count"`
	CompletedQuestCount int     `json:"completed_quest_count"`
	LifetimeTokens      float64 `json:"lifetime_tokens"`
}

// Mirror is the remote quest mirror shared across a user's devices. The
// spookTrails clients write to the same hosted project, so reconciliation
// treats it as authoritative. Absence of the backing table is a recoverable
// condition: FetchAll surfaces it as an empty result (merging nothing),
// FetchAggregates as an error (keeping local counters).
type Mirror interface {
	FetchAll(ctx context.Context, id identity.ID) ([]quest.Quest, error)
	Upsert(ctx context.Context, id identity.ID, q quest.Quest) error
	FetchAggregates(ctx context.Context, id identity.ID) (Aggregates, error)
}

// SupabaseMirror reads and writes the hosted project over its REST surface.
type SupabaseMirror struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSupabaseMirror(baseURL, apiKey string, client *http.Client) *SupabaseMirror {
	if client == nil {
		client = http.DefaultClient
	}
	return &SupabaseMirror{baseURL: baseURL, apiKey: apiKey, client: client}
}

func (m *SupabaseMirror) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, m.baseURL+path, bytes.NewReader(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, m.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", m.apiKey)
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (m *SupabaseMirror) FetchAll(ctx context.Context, id identity.ID) ([]quest.Quest, error) {
	path := "/rest/v1/season_quests?select=*&identity=eq." + url.QueryEscape(id.String())
	req, err := m.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build mirror request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror fetch failed: %w", err)
	}
	defer resp.Body.Close()

	// A project without the table yet is a new-user condition, not a fault.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror returned %d", resp.StatusCode)
	}

	var quests []quest.Quest
	if err := json.NewDecoder(resp.Body).Decode(&quests); err != nil {
		return nil, fmt.Errorf("failed to decode mirror response: %w", err)
	}
	return quests, nil
}

func (m *SupabaseMirror) Upsert(ctx context.Context, id identity.ID, q quest.Quest) error {
	q.Identity = id.String()
	body, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode quest record: %w", err)
	}

	req, err := m.newRequest(ctx, http.MethodPost, "/rest/v1/season_quests", body)
	if err != nil {
		return fmt.Errorf("failed to build mirror request: %w", err)
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mirror upsert failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mirror upsert returned %d", resp.StatusCode)
	}
	return nil
}

func (m *SupabaseMirror) FetchAggregates(ctx context.Context, id identity.ID) (Aggregates, error) {
	body, err := json.Marshal(map[string]string{"p_identity": id.String()})
	if err != nil {
		return Aggregates{}, fmt.Errorf("failed to encode aggregates request: %w", err)
	}

	req, err := m.newRequest(ctx, http.MethodPost, "/rest/v1/rpc/season_aggregates", body)
	if err != nil {
		return Aggregates{}, fmt.Errorf("failed to build mirror request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return Aggregates{}, fmt.Errorf("aggregates fetch failed: %w", err)
	}
	defer resp.Body.Close()

	// An absent RPC gives us nothing authoritative to apply. Unlike an
	// empty quest list, zero aggregates are indistinguishable from real
	// data, so this surfaces as unavailable and local counters stand.
	if resp.StatusCode == http.StatusNotFound {
		return Aggregates{}, fmt.Errorf("aggregates rpc not found")
	}
	if resp.StatusCode != http.StatusOK {
		return Aggregates{}, fmt.Errorf("aggregates returned %d", resp.StatusCode)
	}

	var agg Aggregates
	if err := json.NewDecoder(resp.Body).Decode(&agg); err != nil {
		return Aggregates{}, fmt.Errorf("failed to decode aggregates: %w", err)
	}
	return agg, nil
}
