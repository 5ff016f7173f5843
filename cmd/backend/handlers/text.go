package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/hairizuan-noorazman/bible-memo/bibleapi"
	"github.com/hairizuan-noorazman/bible-memo/book"
	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// TextFetcher retrieves verse text from the remote API.
type TextFetcher interface {
	FetchText(ctx context.Context, translation verse.Translation, bookName string, chapter, verseStart, verseEnd int, token string) (string, error)
}

// TokenSource returns the configured API token.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// TextHandler proxies verse text lookups using the stored token.
type TextHandler struct {
	fetcher TextFetcher
	tokens  TokenSource
	logger  logger.Logger
}

// NewTextHandler creates a new text handler.
func NewTextHandler(fetcher TextFetcher, tokens TokenSource, log logger.Logger) *TextHandler {
	return &TextHandler{
		fetcher: fetcher,
		tokens:  tokens,
		logger:  log,
	}
}

// TextResponse is the fetched passage.
type TextResponse struct {
	Reference   string            `json:"reference"`
	Translation verse.Translation `json:"translation"`
	Text        string            `json:"text"`
}

// Get handles GET /api/v1/text?translation=&book=&chapter=&start=&end=.
func (h *TextHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	translation, err := verse.ParseTranslation(q.Get("translation"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := book.Resolve(q.Get("book"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown book")
		return
	}

	chapter, errChapter := strconv.Atoi(q.Get("chapter"))
	start, errStart := strconv.Atoi(q.Get("start"))
	if errChapter != nil || errStart != nil {
		respondError(w, http.StatusBadRequest, "chapter and start must be integers")
		return
	}
	end := start
	if s := q.Get("end"); s != "" {
		if end, err = strconv.Atoi(s); err != nil {
			respondError(w, http.StatusBadRequest, "end must be an integer")
			return
		}
	}

	token, err := h.tokens.Get(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "failed to read api token", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to read api token")
		return
	}

	text, err := h.fetcher.FetchText(r.Context(), translation, b.Name, chapter, start, end, token)
	if err != nil {
		var fetchErr *bibleapi.FetchError
		switch {
		case errors.Is(err, bibleapi.ErrMissingToken):
			respondError(w, http.StatusPreconditionFailed, "api token is not configured")
		case errors.Is(err, bibleapi.ErrInvalidRange), errors.Is(err, bibleapi.ErrUnknownBook):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &fetchErr):
			h.logger.Warn(r.Context(), "verse text fetch failed", map[string]interface{}{
				"verse":  fetchErr.Verse,
				"status": fetchErr.Status,
				"error":  fetchErr.Message,
			})
			respondError(w, http.StatusBadGateway, fetchErr.Message)
		default:
			h.logger.Error(r.Context(), "failed to fetch verse text", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "failed to fetch verse text")
		}
		return
	}

	ref := verse.Draft{Book: b.Name, Chapter: chapter, VerseStart: start, VerseEnd: end}.Reference()
	respondJSON(w, http.StatusOK, TextResponse{Reference: ref, Translation: translation, Text: text})
}
