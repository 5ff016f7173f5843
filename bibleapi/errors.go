package bibleapi

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch matches every *FetchError.
	ErrFetch = errors.New("bibleapi: fetch failed")

	// ErrUnknownBook is returned when the book has no API abbreviation.
	ErrUnknownBook = errors.New("bibleapi: unknown book")

	// ErrInvalidRange is returned for a chapter or verse range that cannot
	// be requested.
	ErrInvalidRange = errors.New("bibleapi: invalid verse range")

	// ErrMissingToken is returned when no API token is configured.
	ErrMissingToken = errors.New("bibleapi: api token is required")
)

// FetchError describes the first verse request that failed.
type FetchError struct {
	Verse   int
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("bibleapi: verse %d: %s", e.Verse, e.Message)
}

// Is makes errors.Is(err, ErrFetch) match.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// statusMessage prefers the API's own msg field.
func statusMessage(status int, msg string) string {
	if msg != "" {
		return msg
	}
	return fmt.Sprintf("status %d", status)
}
