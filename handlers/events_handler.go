package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"spookTrailsAPI/internal/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced at the router level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type EventsHandler struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// GET /api/v1/events/ws
//
// Presentation layers subscribe here and refresh on "user_data_updated"
// instead of polling.
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := authedIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("events: websocket upgrade failed: %v", err)
		return
	}

	h.hub.Serve(conn, id.String())
}
