package handlers

import (
	"errors"
	"net/http"

	"github.com/hairizuan-noorazman/bible-memo/book"
	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// VerseHandler handles verse collection requests.
type VerseHandler struct {
	verseStore verse.Store
	logger     logger.Logger
}

// NewVerseHandler creates a new verse handler.
func NewVerseHandler(verseStore verse.Store, log logger.Logger) *VerseHandler {
	return &VerseHandler{
		verseStore: verseStore,
		logger:     log,
	}
}

// VerseRequest is the body of create and full-update requests. Book may be
// any spelling book.Resolve accepts.
type VerseRequest struct {
	Book        string `json:"book"`
	Chapter     int    `json:"chapter"`
	VerseStart  int    `json:"verseStart"`
	VerseEnd    int    `json:"verseEnd"`
	Translation string `json:"translation,omitempty"`
	Text        string `json:"text"`
}

// PatchVerseRequest carries the fields to change.
type PatchVerseRequest struct {
	Book        *string `json:"book,omitempty"`
	Chapter     *int    `json:"chapter,omitempty"`
	VerseStart  *int    `json:"verseStart,omitempty"`
	VerseEnd    *int    `json:"verseEnd,omitempty"`
	Translation *string `json:"translation,omitempty"`
	Text        *string `json:"text,omitempty"`
}

func (req VerseRequest) draft() verse.Draft {
	d := verse.Draft{
		Book:        req.Book,
		Chapter:     req.Chapter,
		VerseStart:  req.VerseStart,
		VerseEnd:    req.VerseEnd,
		Translation: verse.Translation(req.Translation),
		Text:        req.Text,
	}
	if b, err := book.Resolve(req.Book); err == nil {
		d.Book = b.Name
	}
	if t, err := verse.ParseTranslation(req.Translation); err == nil {
		d.Translation = t
	}
	// A missing end means a single verse.
	if d.VerseEnd == 0 {
		d.VerseEnd = d.VerseStart
	}
	return d
}

// List handles listing all verses in canonical order.
func (h *VerseHandler) List(w http.ResponseWriter, r *http.Request) {
	verses := h.verseStore.List(r.Context())
	respondJSON(w, http.StatusOK, ListResponse{Items: verses, Total: len(verses)})
}

// Create handles adding a verse.
func (h *VerseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req VerseRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.verseStore.Add(r.Context(), req.draft())
	if err != nil {
		h.respondStoreError(w, r, err, "failed to create verse")
		return
	}

	respondJSON(w, http.StatusCreated, v)
}

// GetByID handles getting a single verse.
func (h *VerseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "verse")
	if !ok {
		return
	}

	v, err := h.verseStore.Get(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, "failed to get verse")
		return
	}

	respondJSON(w, http.StatusOK, v)
}

// Update handles replacing every editable field of a verse.
func (h *VerseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "verse")
	if !ok {
		return
	}

	var req VerseRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.verseStore.Update(r.Context(), id, req.draft())
	if err != nil {
		h.respondStoreError(w, r, err, "failed to update verse")
		return
	}

	respondJSON(w, http.StatusOK, v)
}

// Patch handles changing some fields of a verse.
func (h *VerseHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "verse")
	if !ok {
		return
	}

	var req PatchVerseRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := h.verseStore.Get(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, "failed to get verse")
		return
	}

	// Build setters
	var setters []verse.DraftSetter
	if req.Book != nil {
		setters = append(setters, verse.SetBook(*req.Book))
	}
	if req.Chapter != nil {
		setters = append(setters, verse.SetChapter(*req.Chapter))
	}
	if req.VerseStart != nil || req.VerseEnd != nil {
		start, end := current.VerseStart, current.VerseEnd
		if req.VerseStart != nil {
			start = *req.VerseStart
			if req.VerseEnd == nil {
				end = start
			}
		}
		if req.VerseEnd != nil {
			end = *req.VerseEnd
		}
		setters = append(setters, verse.SetRange(start, end))
	}
	if req.Translation != nil {
		setters = append(setters, verse.SetTranslation(*req.Translation))
	}
	if req.Text != nil {
		setters = append(setters, verse.SetText(*req.Text))
	}

	if len(setters) == 0 {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	d := verse.DraftFrom(current)
	if err := d.Apply(setters...); err != nil {
		h.respondStoreError(w, r, err, "failed to update verse")
		return
	}

	v, err := h.verseStore.Update(r.Context(), id, d)
	if err != nil {
		h.respondStoreError(w, r, err, "failed to update verse")
		return
	}

	respondJSON(w, http.StatusOK, v)
}

// Delete handles removing a verse. Unknown IDs succeed.
func (h *VerseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "verse")
	if !ok {
		return
	}

	if err := h.verseStore.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, r, err, "failed to delete verse")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *VerseHandler) respondStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *verse.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]string, len(verr.Errs))
		for i, e := range verr.Errs {
			details[i] = e.Error()
		}
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid verse", Details: details})
	case errors.Is(err, verse.ErrVerseNotFound):
		respondError(w, http.StatusNotFound, "verse not found")
	default:
		h.logger.Error(r.Context(), msg, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, msg)
	}
}
