package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"spookTrailsAPI/internal/destination"
)

// DestinationHandler serves the static trail catalog. No service behind it:
// the catalog is configuration data, readable without authentication.
type DestinationHandler struct{}

func NewDestinationHandler() *DestinationHandler {
	return &DestinationHandler{}
}

// GET /api/v1/destinations
func (h *DestinationHandler) GetDestinations(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, destination.Catalog)
}

// GET /api/v1/destinations/{destinationId}
func (h *DestinationHandler) GetDestination(w http.ResponseWriter, r *http.Request) {
	d, ok := destination.ByID(mux.Vars(r)["destinationId"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Destination not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"destination":   d,
		"default_quest": destination.QuestTemplate(d),
	})
}
