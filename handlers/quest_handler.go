package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/middleware"
	"spookTrailsAPI/services"
)

type QuestHandler struct {
	questService *services.QuestService
}

func NewQuestHandler(questService *services.QuestService) *QuestHandler {
	return &QuestHandler{
		questService: questService,
	}
}

// GET /api/v1/quests
func (h *QuestHandler) GetQuests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := requestIdentity(ctx)
	quests := h.questService.GetQuests(ctx, id)

	respondWithJSON(w, http.StatusOK, quests)
}

// POST /api/v1/quests/{questId}/start
func (h *QuestHandler) StartQuest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, ok := authedIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	questID := mux.Vars(r)["questId"]
	q, err := h.questService.Start(ctx, id, questID)
	if err != nil {
		respondQuestError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, q)
}

// POST /api/v1/quests/{questId}/complete
func (h *QuestHandler) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, ok := authedIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var v quest.Verification
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	questID := mux.Vars(r)["questId"]
	q, err := h.questService.Complete(ctx, id, questID, v)
	if err != nil {
		respondQuestError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, q)
}

// POST /api/v1/quests/{questId}/claim
//
// Claims run longer than the default budget because of confirmation
// polling; the timeout covers the full bounded claim sequence.
func (h *QuestHandler) ClaimQuest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	id, ok := authedIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	questID := mux.Vars(r)["questId"]
	q, outcome, err := h.questService.ClaimRewards(ctx, id, questID)
	if err != nil {
		if errors.Is(err, services.ErrNoWallet) {
			respondWithError(w, http.StatusPreconditionFailed, "No wallet connected")
			return
		}
		if errors.Is(err, services.ErrClaimFailed) {
			respondWithError(w, http.StatusBadGateway, "Reward claim failed, try again")
			return
		}
		respondQuestError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"quest":   q,
		"outcome": outcome,
	})
}

// respondQuestError maps state-machine precondition failures to 409 so the
// client can show a corrective message instead of a generic failure.
func respondQuestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quest.ErrInvalidStateTransition),
		errors.Is(err, quest.ErrAlreadyCompleted),
		errors.Is(err, quest.ErrQuestNotCompleted):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, quest.ErrVerificationRejected):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "Server error")
	}
}

// requestIdentity resolves the partition for browse endpoints: the clerk
// subject when authenticated, the anonymous partition otherwise.
func requestIdentity(ctx context.Context) identity.ID {
	clerkID, _ := middleware.GetClerkID(ctx)
	return identity.FromClerkID(clerkID)
}

// authedIdentity is requestIdentity for endpoints that require a real user.
func authedIdentity(ctx context.Context) (identity.ID, bool) {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		return identity.Anonymous, false
	}
	return identity.FromClerkID(clerkID), true
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
