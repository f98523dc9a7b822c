package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/services"
)

type WebhookHandler struct {
	accountService *services.AccountService
}

func NewWebhookHandler(accountService *services.AccountService) *WebhookHandler {
	return &WebhookHandler{
		accountService: accountService,
	}
}

type clerkWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// POST /webhooks/clerk
//
// Only user.deleted carries an action here: the user's partitions are
// purged. Creation needs no setup because partitions materialize lazily on
// first write.
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading body", http.StatusBadRequest)
		return
	}

	if !verifyClerkSignature(r, body) {
		log.Println("Invalid webhook signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Error parsing webhook", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "user.deleted":
		var userData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data, &userData); err != nil || userData.ID == "" {
			http.Error(w, "Error parsing user data", http.StatusBadRequest)
			return
		}
		if err := h.accountService.DeleteIdentityData(r.Context(), identity.FromClerkID(userData.ID)); err != nil {
			log.Printf("Error purging data for deleted user %s: %v", userData.ID, err)
			http.Error(w, "Error processing webhook", http.StatusInternalServerError)
			return
		}
		log.Printf("Purged data for deleted user %s", userData.ID)

	default:
		log.Printf("Unhandled webhook event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success": true}`))
}

// verifyClerkSignature checks the svix v1 HMAC. With no secret configured
// (local development) verification is skipped.
func verifyClerkSignature(r *http.Request, body []byte) bool {
	webhookSecret := os.Getenv("CLERK_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Println("CLERK_WEBHOOK_SECRET not set, skipping signature verification")
		return true
	}

	svixID := r.Header.Get("svix-id")
	svixTimestamp := r.Header.Get("svix-timestamp")
	svixSignature := r.Header.Get("svix-signature")
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		return false
	}

	signedContent := fmt.Sprintf("%s.%s.%s", svixID, svixTimestamp, string(body))
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(signedContent))
	expected := hex.EncodeToString(mac.Sum(nil))

	provided := ""
	if bytes.HasPrefix([]byte(svixSignature), []byte("v1,")) {
		provided = svixSignature[3:]
	}

	return hmac.Equal([]byte(expected), []byte(provided))
}
