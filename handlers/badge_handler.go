package handlers

import (
	"context"
	"net/http"
	"time"

	"spookTrailsAPI/services"
)

type BadgeHandler struct {
	badgeService *services.BadgeService
}

func NewBadgeHandler(badgeService *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{
		badgeService: badgeService,
	}
}

// GET /api/v1/badges
func (h *BadgeHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := requestIdentity(ctx)
	badges := h.badgeService.List(ctx, id)

	respondWithJSON(w, http.StatusOK, badges)
}
