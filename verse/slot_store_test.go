package verse

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/storage"
)

func TestSlotStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamp and persists", func(t *testing.T) {
		kv, store, _ := setupTestStore(t)
		_, err := store.Load(ctx)
		require.NoError(t, err)

		v, err := store.Add(ctx, Draft{Book: "João", Chapter: 3, VerseStart: 16, VerseEnd: 16, Text: "  Porque Deus amou o mundo  "})
		require.NoError(t, err)

		assert.Equal(t, "verse-001", v.ID)
		assert.Equal(t, NVI, v.Translation)
		assert.Equal(t, "Porque Deus amou o mundo", v.Text)
		assert.NotZero(t, v.CreatedAt)

		data, err := kv.Get(ctx, VersesKey)
		require.NoError(t, err)
		var persisted []Verse
		require.NoError(t, json.Unmarshal(data, &persisted))
		assert.Equal(t, []Verse{v}, persisted)
	})

	t.Run("keeps canonical order", func(t *testing.T) {
		_, store, _ := setupTestStore(t)

		_, err := store.Add(ctx, createTestDraft("João", 3, 16))
		require.NoError(t, err)
		_, err = store.Add(ctx, createTestDraft("Gênesis", 1, 1))
		require.NoError(t, err)

		list := store.List(ctx)
		require.Len(t, list, 2)
		assert.Equal(t, "Gênesis", list[0].Book)
		assert.Equal(t, "João", list[1].Book)
	})

	t.Run("rejects invalid draft without writing", func(t *testing.T) {
		kv, store, _ := setupTestStore(t)
		_, err := store.Add(ctx, createTestDraft("Salmos", 23, 1))
		require.NoError(t, err)
		before, err := kv.Get(ctx, VersesKey)
		require.NoError(t, err)

		_, err = store.Add(ctx, Draft{Book: "Salmos", Chapter: 23, VerseStart: 4, VerseEnd: 2, Text: "x"})
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrInvalidRange)

		after, err := kv.Get(ctx, VersesKey)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Len(t, store.List(ctx), 1)
	})
}

func TestSlotStore_OrderInvariant(t *testing.T) {
	ctx := context.Background()
	_, store, _ := setupTestStore(t)

	rng := rand.New(rand.NewPCG(7, 11))
	books := []string{"Gênesis", "Salmos", "Isaías", "Mateus", "João", "Romanos", "Apocalipse"}
	var added []Verse

	for i := 0; i < 60; i++ {
		switch {
		case len(added) > 0 && rng.IntN(4) == 0:
			idx := rng.IntN(len(added))
			require.NoError(t, store.Delete(ctx, added[idx].ID))
			added = append(added[:idx], added[idx+1:]...)
		case len(added) > 0 && rng.IntN(4) == 0:
			idx := rng.IntN(len(added))
			d := createTestDraft(books[rng.IntN(len(books))], 1+rng.IntN(3), 1+rng.IntN(3))
			v, err := store.Update(ctx, added[idx].ID, d)
			require.NoError(t, err)
			added[idx] = v
		default:
			v, err := store.Add(ctx, createTestDraft(books[rng.IntN(len(books))], 1+rng.IntN(3), 1+rng.IntN(3)))
			require.NoError(t, err)
			added = append(added, v)
		}

		list := store.List(ctx)
		require.True(t, IsSorted(list), "collection out of order after step %d", i)
		require.Len(t, list, len(added))
	}
}

func TestSlotStore_EqualKeysKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	_, store, _ := setupTestStore(t)

	first, err := store.Add(ctx, createTestDraft("Romanos", 8, 28))
	require.NoError(t, err)
	second, err := store.Add(ctx, createTestDraft("Romanos", 8, 28))
	require.NoError(t, err)
	_, err = store.Add(ctx, createTestDraft("Gênesis", 1, 1))
	require.NoError(t, err)

	list := store.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, second.ID, list[2].ID)
}

func TestSlotStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, store, _ := setupTestStore(t)

	_, err := store.Add(ctx, createTestDraft("João", 3, 16))
	require.NoError(t, err)
	_, err = store.Add(ctx, Draft{Book: "Salmos", Chapter: 23, VerseStart: 1, VerseEnd: 6, Translation: ACF, Text: "O Senhor é o meu pastor"})
	require.NoError(t, err)
	want := store.List(ctx)

	reopened := NewSlotStore(NewSlotPersister(kv, VersesKey), logger.NewTestLogger())
	got, err := reopened.Load(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reloaded collection mismatch (-want +got):\n%s", diff)
	}
}

func TestSlotStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing data is empty", func(t *testing.T) {
		_, store, _ := setupTestStore(t)
		verses, err := store.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, verses)
		assert.Empty(t, verses)
	})

	t.Run("corrupt data is empty and logged", func(t *testing.T) {
		kv, store, log := setupTestStore(t)
		require.NoError(t, kv.Put(ctx, VersesKey, []byte("{not json")))

		verses, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, verses)
		assert.NotEmpty(t, log.EntriesAt("warn"))
	})

	t.Run("unsorted data is sorted on load", func(t *testing.T) {
		kv, store, _ := setupTestStore(t)
		raw := []Verse{
			{ID: "b", Book: "Apocalipse", Chapter: 1, VerseStart: 1, VerseEnd: 1, Text: "b"},
			{ID: "a", Book: "Gênesis", Chapter: 1, VerseStart: 1, VerseEnd: 1, Text: "a"},
		}
		data, err := json.Marshal(raw)
		require.NoError(t, err)
		require.NoError(t, kv.Put(ctx, VersesKey, data))

		verses, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, verses, 2)
		assert.Equal(t, "a", verses[0].ID)
	})

	t.Run("unknown book is kept last with a warning", func(t *testing.T) {
		kv, store, log := setupTestStore(t)
		data := []byte(`[{"id":"x","book":"Enoque","chapter":1,"verseStart":1,"verseEnd":1,"text":"?","createdAt":1},` +
			`{"id":"y","book":"Judas","chapter":1,"verseStart":1,"verseEnd":1,"text":"j","createdAt":2}]`)
		require.NoError(t, kv.Put(ctx, VersesKey, data))

		verses, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, verses, 2)
		assert.Equal(t, "y", verses[0].ID)
		assert.Equal(t, "x", verses[1].ID)
		assert.NotEmpty(t, log.EntriesAt("warn"))
	})

	t.Run("backend failure is reported", func(t *testing.T) {
		store := NewSlotStore(brokenPersister{}, logger.NewTestLogger())
		verses, err := store.Load(ctx)
		assert.ErrorIs(t, err, errBackendDown)
		assert.Empty(t, verses)
	})
}

func TestSlotStore_Update(t *testing.T) {
	ctx := context.Background()
	_, store, _ := setupTestStore(t)

	original, err := store.Add(ctx, createTestDraft("Mateus", 5, 3))
	require.NoError(t, err)
	_, err = store.Add(ctx, createTestDraft("Marcos", 1, 1))
	require.NoError(t, err)

	t.Run("changes fields and re-sorts", func(t *testing.T) {
		d := DraftFrom(original)
		require.NoError(t, d.Apply(SetBook("Lucas"), SetRange(3, 5), SetText("Bem-aventurados")))

		updated, err := store.Update(ctx, original.ID, d)
		require.NoError(t, err)
		assert.Equal(t, original.ID, updated.ID)
		assert.Equal(t, original.CreatedAt, updated.CreatedAt)
		assert.Equal(t, "Lucas", updated.Book)

		list := store.List(ctx)
		assert.Equal(t, []string{"Marcos", "Lucas"}, []string{list[0].Book, list[1].Book})
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Update(ctx, "missing", createTestDraft("Lucas", 1, 1))
		assert.ErrorIs(t, err, ErrVerseNotFound)
	})

	t.Run("invalid draft leaves verse unchanged", func(t *testing.T) {
		before, err := store.Get(ctx, original.ID)
		require.NoError(t, err)

		_, err = store.Update(ctx, original.ID, Draft{Book: "Lucas", Chapter: 0, VerseStart: 1, VerseEnd: 1, Text: "x"})
		assert.ErrorIs(t, err, ErrInvalidChapter)

		after, err := store.Get(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestSlotStore_Delete(t *testing.T) {
	ctx := context.Background()
	kv, store, _ := setupTestStore(t)

	v, err := store.Add(ctx, createTestDraft("Tiago", 1, 5))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, v.ID))
	_, err = store.Get(ctx, v.ID)
	assert.ErrorIs(t, err, ErrVerseNotFound)

	before, err := kv.Get(ctx, VersesKey)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, v.ID))
	require.NoError(t, store.Delete(ctx, "never-existed"))

	after, err := kv.Get(ctx, VersesKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.JSONEq(t, "[]", string(after))
}

func TestSlotStore_FailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	p := &failingPersister{Persister: NewSlotPersister(kv, VersesKey)}
	store := NewSlotStore(p, logger.NewTestLogger(), WithIDGenerator(sequentialIDs()))

	kept, err := store.Add(ctx, createTestDraft("Efésios", 2, 8))
	require.NoError(t, err)

	p.fail = true

	_, err = store.Add(ctx, createTestDraft("Efésios", 2, 9))
	assert.ErrorIs(t, err, errDiskFull)

	_, err = store.Update(ctx, kept.ID, createTestDraft("Gálatas", 2, 20))
	assert.ErrorIs(t, err, errDiskFull)

	assert.ErrorIs(t, store.Delete(ctx, kept.ID), errDiskFull)

	assert.Equal(t, []Verse{kept}, store.List(ctx))
}

func TestSlotStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	_, store, _ := setupTestStore(t)

	_, err := store.Add(ctx, createTestDraft("Filipenses", 4, 13))
	require.NoError(t, err)

	list := store.List(ctx)
	list[0].Text = "mutated"

	assert.Equal(t, "Filipenses 4:13 text", store.List(ctx)[0].Text)
}
