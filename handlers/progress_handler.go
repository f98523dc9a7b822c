package handlers

import (
	"context"
	"net/http"
	"time"

	"spookTrailsAPI/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

// GET /api/v1/progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := requestIdentity(ctx)
	p := h.progressService.Get(ctx, id)
	unlocked := h.progressService.UnlockedBadges(ctx, id)

	respondWithJSON(w, http.StatusOK, map[string]any{
		"progress":        p,
		"unlocked_badges": unlocked,
	})
}
