// Package credential holds the bearer token for the remote Bible API.
package credential

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/securecookie"

	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/storage"
)

// TokenKey is the storage key of the API token.
const TokenKey = "bible-memo-api-token"

// ErrUnreadable is returned when a sealed token cannot be opened, usually
// because the secret changed or the value was edited.
var ErrUnreadable = errors.New("credential: stored token cannot be read")

// Store reads and writes the token. With a secret the value is sealed
// (encrypted and authenticated) before it reaches the backend; without one
// it is stored as plain text.
type Store struct {
	kv     storage.Store
	codec  *securecookie.SecureCookie
	logger logger.Logger
}

// NewStore creates a Store. An empty secret stores the token unsealed.
func NewStore(kv storage.Store, secret string, log logger.Logger) *Store {
	s := &Store{kv: kv, logger: log}
	if secret != "" {
		sum := sha512.Sum512([]byte(secret))
		codec := securecookie.New(sum[:32], sum[32:])
		codec.MaxAge(0)
		s.codec = codec
	}
	return s
}

// Sealed reports whether tokens are encrypted at rest.
func (s *Store) Sealed() bool {
	return s.codec != nil
}

// Get returns the stored token, or "" when none is set.
func (s *Store) Get(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("credential: failed to read token: %w", err)
	}

	if s.codec == nil {
		return string(data), nil
	}

	var token string
	if err := s.codec.Decode(TokenKey, string(data), &token); err != nil {
		s.logger.Warn(ctx, "stored api token could not be unsealed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", ErrUnreadable
	}
	return token, nil
}

// Set stores token after trimming it. A blank token clears the stored one.
func (s *Store) Set(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.Clear(ctx)
	}

	value := []byte(token)
	if s.codec != nil {
		sealed, err := s.codec.Encode(TokenKey, token)
		if err != nil {
			return fmt.Errorf("credential: failed to seal token: %w", err)
		}
		value = []byte(sealed)
	}

	if err := s.kv.Put(ctx, TokenKey, value); err != nil {
		return fmt.Errorf("credential: failed to write token: %w", err)
	}

	s.logger.Info(ctx, "api token saved", map[string]interface{}{
		"token":  Mask(token),
		"sealed": s.codec != nil,
	})
	return nil
}

// Clear removes the stored token. Clearing an absent token succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("credential: failed to delete token: %w", err)
	}
	s.logger.Info(ctx, "api token cleared", nil)
	return nil
}

// Mask hides all but the first and last four characters of long tokens.
func Mask(token string) string {
	switch {
	case token == "":
		return "(not set)"
	case len(token) > 8:
		return token[:4] + "..." + token[len(token)-4:]
	default:
		return "****"
	}
}
