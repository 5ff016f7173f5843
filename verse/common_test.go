package verse

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/storage"
)

// setupTestStore creates a store over an in-memory key/value backend with
// a fixed clock and sequential IDs.
func setupTestStore(t *testing.T) (*storage.MemoryStore, *SlotStore, *logger.TestLogger) {
	t.Helper()

	kv := storage.NewMemoryStore()
	log := logger.NewTestLogger()
	store := NewSlotStore(NewSlotPersister(kv, VersesKey), log,
		WithClock(fixedClock()),
		WithIDGenerator(sequentialIDs()),
	)
	return kv, store, log
}

func fixedClock() func() time.Time {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("verse-%03d", n)
	}
}

// createTestDraft returns a valid single-verse draft.
func createTestDraft(bookName string, chapter, verse int) Draft {
	return Draft{
		Book:       bookName,
		Chapter:    chapter,
		VerseStart: verse,
		VerseEnd:   verse,
		Text:       fmt.Sprintf("%s %d:%d text", bookName, chapter, verse),
	}
}

// failingPersister wraps a persister and fails every Save once armed.
type failingPersister struct {
	Persister
	fail bool
}

var errDiskFull = errors.New("disk full")

func (p *failingPersister) Save(ctx context.Context, data []byte) error {
	if p.fail {
		return errDiskFull
	}
	return p.Persister.Save(ctx, data)
}

// brokenPersister fails every Load.
type brokenPersister struct{}

var errBackendDown = errors.New("backend down")

func (brokenPersister) Load(ctx context.Context) ([]byte, error) { return nil, errBackendDown }
func (brokenPersister) Save(ctx context.Context, data []byte) error {
	return errBackendDown
}
