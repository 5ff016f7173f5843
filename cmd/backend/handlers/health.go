package handlers

import (
	"net/http"

	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// HealthResponse reports liveness plus the loaded collection size.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Verses  int    `json:"verses"`
}

// HealthHandler serves /health.
type HealthHandler struct {
	verseStore  verse.Store
	storageType string
}

// NewHealthHandler creates a health handler for the given store.
func NewHealthHandler(store verse.Store, storageType string) *HealthHandler {
	return &HealthHandler{verseStore: store, storageType: storageType}
}

// Get handles GET /health.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Storage: h.storageType,
		Verses:  len(h.verseStore.List(r.Context())),
	})
}
