package handlers

import (
	"net/http"
	"strconv"

	"github.com/hairizuan-noorazman/bible-memo/review"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// ReviewHandler serves flashcard decks.
type ReviewHandler struct {
	verseStore  verse.Store
	defaultSeed uint64
}

// NewReviewHandler creates a new review handler. A non-zero defaultSeed
// is used when the request does not name one.
func NewReviewHandler(verseStore verse.Store, defaultSeed uint64) *ReviewHandler {
	return &ReviewHandler{
		verseStore:  verseStore,
		defaultSeed: defaultSeed,
	}
}

// DeckResponse is a snapshot of the collection in review order.
type DeckResponse struct {
	Shuffled bool          `json:"shuffled"`
	Seed     uint64        `json:"seed,omitempty"`
	Items    []verse.Verse `json:"items"`
	Total    int           `json:"total"`
}

// Deck handles GET /api/v1/review?shuffle=true&seed=N.
func (h *ReviewHandler) Deck(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	shuffle := false
	if s := q.Get("shuffle"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "shuffle must be a boolean")
			return
		}
		shuffle = b
	}

	seed := h.defaultSeed
	if s := q.Get("seed"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "seed must be a non-negative integer")
			return
		}
		seed = n
	}

	verses := h.verseStore.List(r.Context())
	var session *review.Session
	if seed != 0 {
		session = review.NewSeeded(verses, seed)
	} else {
		session = review.New(verses, nil)
	}
	if shuffle {
		session.Shuffle()
	}

	resp := DeckResponse{
		Shuffled: session.Shuffled(),
		Items:    session.Order(),
		Total:    session.Len(),
	}
	if shuffle {
		resp.Seed = seed
	}
	respondJSON(w, http.StatusOK, resp)
}
