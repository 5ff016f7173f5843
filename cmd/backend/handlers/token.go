package handlers

import (
	"context"
	"net/http"

	"github.com/hairizuan-noorazman/bible-memo/credential"
	"github.com/hairizuan-noorazman/bible-memo/logger"
)

// TokenStore holds the remote API token.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenHandler manages the stored API token.
type TokenHandler struct {
	tokens TokenStore
	logger logger.Logger
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(tokens TokenStore, log logger.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		logger: log,
	}
}

// SetTokenRequest represents a token update request.
type SetTokenRequest struct {
	Token string `json:"token"`
}

// TokenStatusResponse never contains the token itself.
type TokenStatusResponse struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked"`
}

// Get reports whether a token is configured.
func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Get(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "failed to read api token", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to read api token")
		return
	}

	respondJSON(w, http.StatusOK, TokenStatusResponse{Configured: token != "", Masked: credential.Mask(token)})
}

// Set stores a new token. A blank token clears it.
func (h *TokenHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetTokenRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tokens.Set(r.Context(), req.Token); err != nil {
		h.logger.Error(r.Context(), "failed to save api token", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to save api token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear removes the token.
func (h *TokenHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Clear(r.Context()); err != nil {
		h.logger.Error(r.Context(), "failed to clear api token", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to clear api token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
