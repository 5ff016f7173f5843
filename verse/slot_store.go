package verse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/bible-memo/book"
	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/metrics"
)

// SlotStore implements Store on top of a Persister. The collection is held
// in memory and written back in full, synchronously, on every mutation. A
// failed write leaves the in-memory collection untouched.
type SlotStore struct {
	mu        sync.Mutex
	verses    []Verse
	persister Persister
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() string
}

// Option configures a SlotStore.
type Option func(*SlotStore)

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *SlotStore) { s.now = now }
}

// WithIDGenerator overrides the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *SlotStore) { s.newID = newID }
}

// WithMetrics records store operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SlotStore) { s.metrics = m }
}

// NewSlotStore creates an empty store. Call Load to read persisted data.
func NewSlotStore(p Persister, log logger.Logger, opts ...Option) *SlotStore {
	s := &SlotStore{
		verses:    []Verse{},
		persister: p,
		logger:    log,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection. Missing data and data that does not
// decode both produce an empty collection; only a failing backend is
// reported as an error.
func (s *SlotStore) Load(ctx context.Context) ([]Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.persister.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to load verses", map[string]interface{}{
			"error": err.Error(),
		})
		s.verses = []Verse{}
		s.metrics.StoreOp("load", err)
		return []Verse{}, err
	}

	verses := []Verse{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &verses); err != nil {
			s.logger.Warn(ctx, "persisted verses are corrupt, starting empty", map[string]interface{}{
				"error": err.Error(),
				"bytes": len(data),
			})
			verses = []Verse{}
		}
	}
	if verses == nil {
		verses = []Verse{}
	}

	for _, v := range verses {
		if _, err := book.Lookup(v.Book); err != nil {
			s.logger.Warn(ctx, "persisted verse has unknown book", map[string]interface{}{
				"verse_id": v.ID,
				"book":     v.Book,
			})
		}
	}

	Sort(verses)
	s.verses = verses
	s.metrics.StoreOp("load", nil)
	s.metrics.SetVerses(len(verses))

	s.logger.Debug(ctx, "verses loaded", map[string]interface{}{
		"count": len(verses),
	})

	return clone(verses), nil
}

// List returns a copy of the collection.
func (s *SlotStore) List(ctx context.Context) []Verse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.verses)
}

// Get returns the verse with the given ID.
func (s *SlotStore) Get(ctx context.Context, id string) (Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Verse{}, ErrVerseNotFound
	}
	return s.verses[i], nil
}

// Add validates draft, assigns an ID and timestamp, and persists.
func (s *SlotStore) Add(ctx context.Context, draft Draft) (Verse, error) {
	if err := draft.Validate(); err != nil {
		s.metrics.StoreOp("add", err)
		return Verse{}, err
	}
	d := draft.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	v := Verse{
		ID:          s.newID(),
		Book:        d.Book,
		Chapter:     d.Chapter,
		VerseStart:  d.VerseStart,
		VerseEnd:    d.VerseEnd,
		Translation: d.Translation,
		Text:        d.Text,
		CreatedAt:   s.now().UnixMilli(),
	}

	next := make([]Verse, 0, len(s.verses)+1)
	next = append(next, s.verses...)
	next = append(next, v)

	if err := s.commit(ctx, next); err != nil {
		s.logger.Error(ctx, "failed to add verse", map[string]interface{}{
			"error":     err.Error(),
			"reference": v.Reference(),
		})
		s.metrics.StoreOp("add", err)
		return Verse{}, err
	}

	s.logger.Info(ctx, "verse added", map[string]interface{}{
		"verse_id":  v.ID,
		"reference": v.Reference(),
	})
	s.metrics.StoreOp("add", nil)

	return v, nil
}

// Update replaces the editable fields of an existing verse.
func (s *SlotStore) Update(ctx context.Context, id string, draft Draft) (Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.metrics.StoreOp("update", ErrVerseNotFound)
		return Verse{}, ErrVerseNotFound
	}
	if err := draft.Validate(); err != nil {
		s.metrics.StoreOp("update", err)
		return Verse{}, err
	}
	d := draft.normalized()

	old := s.verses[i]
	updated := Verse{
		ID:          old.ID,
		Book:        d.Book,
		Chapter:     d.Chapter,
		VerseStart:  d.VerseStart,
		VerseEnd:    d.VerseEnd,
		Translation: d.Translation,
		Text:        d.Text,
		CreatedAt:   old.CreatedAt,
	}

	next := clone(s.verses)
	next[i] = updated

	if err := s.commit(ctx, next); err != nil {
		s.logger.Error(ctx, "failed to update verse", map[string]interface{}{
			"error":    err.Error(),
			"verse_id": id,
		})
		s.metrics.StoreOp("update", err)
		return Verse{}, err
	}

	s.logger.Info(ctx, "verse updated", map[string]interface{}{
		"verse_id":  id,
		"reference": updated.Reference(),
	})
	s.metrics.StoreOp("update", nil)

	return updated, nil
}

// Delete removes the verse if present. A missing ID is a successful no-op
// and does not touch persisted data.
func (s *SlotStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug(ctx, "delete of unknown verse ignored", map[string]interface{}{
			"verse_id": id,
		})
		s.metrics.StoreOp("delete", nil)
		return nil
	}

	next := make([]Verse, 0, len(s.verses)-1)
	next = append(next, s.verses[:i]...)
	next = append(next, s.verses[i+1:]...)

	if err := s.commit(ctx, next); err != nil {
		s.logger.Error(ctx, "failed to delete verse", map[string]interface{}{
			"error":    err.Error(),
			"verse_id": id,
		})
		s.metrics.StoreOp("delete", err)
		return err
	}

	s.logger.Info(ctx, "verse deleted", map[string]interface{}{
		"verse_id": id,
	})
	s.metrics.StoreOp("delete", nil)

	return nil
}

// commit sorts next, persists it, and only then makes it current.
// Callers hold s.mu.
func (s *SlotStore) commit(ctx context.Context, next []Verse) error {
	Sort(next)

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.persister.Save(ctx, data); err != nil {
		return err
	}

	s.verses = next
	s.metrics.SetVerses(len(next))
	return nil
}

func (s *SlotStore) indexOf(id string) int {
	for i, v := range s.verses {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func clone(verses []Verse) []Verse {
	out := make([]Verse, len(verses))
	copy(out, verses)
	return out
}
