package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"spookTrailsAPI/internal/reward"
)

// ChainBackend abstracts the hosted reward relayer fronting the TPX token
// contract and the NFT mint program. Submissions report acceptance, never
// confirmation; AwaitConfirmation is the only confirmation path and it is
// bounded, resolving Found=false on exhaustion instead of erroring.
type ChainBackend interface {
	LedgerHeight(ctx context.Context) (int64, error)
	Transfer(ctx context.Context, to string, amount int) (reward.TransferResult, error)
	Mint(ctx context.Context, to string) (reward.MintResult, error)
	AwaitConfirmation(ctx context.Context, addr string, sinceHeight int64, filter reward.TxFilter) reward.ConfirmationResult
}

// RelayerChain talks to the relayer's REST API.
type RelayerChain struct {
	baseURL string
	apiKey  string
	client  *http.Client

	pollAttempts int
	pollInterval time.Duration
}

func NewRelayerChain(baseURL, apiKey string, pollAttempts int, pollInterval time.Duration) *RelayerChain {
	if pollAttempts <= 0 {
		pollAttempts = 10
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &RelayerChain{
		baseURL:      baseURL,
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 15 * time.Second},
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
	}
}

func (c *RelayerChain) do(ctx context.Context, method, path string, body, out any) error {
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("relayer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("relayer returned %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode relayer response: %w", err)
		}
	}
	return nil
}

// LedgerHeight captures the reference point used to scope confirmation
// watching to transactions submitted from now on.
func (c *RelayerChain) LedgerHeight(ctx context.Context) (int64, error) {
	var out struct {
		Height int64 `json:"height"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/height", nil, &out); err != nil {
		return 0, err
	}
	return out.Height, nil
}

func (c *RelayerChain) Transfer(ctx context.Context, to string, amount int) (reward.TransferResult, error) {
	body := map[string]any{"to": to, "amount": amount, "token": "TPX"}
	var out reward.TransferResult
	if err := c.do(ctx, http.MethodPost, "/v1/transfer", body, &out); err != nil {
		return reward.TransferResult{}, err
	}
	return out, nil
}

func (c *RelayerChain) Mint(ctx context.Context, to string) (reward.MintResult, error) {
	body := map[string]any{"to": to}
	var out reward.MintResult
	if err := c.do(ctx, http.MethodPost, "/v1/mint", body, &out); err != nil {
		return reward.MintResult{}, err
	}
	return out, nil
}

// AwaitConfirmation polls the relayer's transaction feed for addr until a
// matching transaction at or above sinceHeight shows up, bounded by both
// the attempt budget and the caller's context. Exhaustion is the degraded
// "not found" outcome, never an error.
func (c *RelayerChain) AwaitConfirmation(ctx context.Context, addr string, sinceHeight int64, filter reward.TxFilter) reward.ConfirmationResult {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return reward.ConfirmationResult{Found: false}
			case <-time.After(c.pollInterval):
			}
		}

		var out struct {
			Transactions []struct {
				TxRef    string `json:"tx_ref"`
				Kind     string `json:"kind"`
				RewardID string `json:"reward_id"`
			} `json:"transactions"`
		}
		path := fmt.Sprintf("/v1/transactions?address=%s&since_height=%d", addr, sinceHeight)
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			log.Printf("chain: confirmation poll %d failed: %v", attempt+1, err)
			continue
		}

		for _, tx := range out.Transactions {
			if tx.Kind != string(filter) {
				continue
			}
			return reward.ConfirmationResult{
				Found:            true,
				TxRef:            tx.TxRef,
				ResolvedRewardID: tx.RewardID,
			}
		}
	}

	return reward.ConfirmationResult{Found: false}
}
