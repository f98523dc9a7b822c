package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"spookTrailsAPI/services"
)

type SessionHandler struct {
	syncService   *services.SyncService
	walletService *services.WalletService
}

func NewSessionHandler(syncService *services.SyncService, walletService *services.WalletService) *SessionHandler {
	return &SessionHandler{
		syncService:   syncService,
		walletService: walletService,
	}
}

type syncSessionRequest struct {
	WalletAddress string `json:"wallet_address,omitempty"`
}

// POST /api/v1/session/sync
//
// Called once when an identity becomes active (login or wallet connect).
// Registers the wallet if one came along and reconciles local state against
// the remote mirror before the client does anything else.
func (h *SessionHandler) SyncSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	id, ok := authedIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req syncSessionRequest
	if r.Body != nil {
		// An empty body is fine; wallet registration is optional.
		json.NewDecoder(r.Body).Decode(&req)
	}

	if req.WalletAddress != "" {
		if err := h.walletService.Register(ctx, id, req.WalletAddress); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to register wallet")
			return
		}
	}

	h.syncService.Reconcile(ctx, id)

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "synced"})
}
