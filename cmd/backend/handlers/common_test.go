package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/storage"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// setupVerseRouter wires the verse routes over an in-memory store.
func setupVerseRouter(t *testing.T) (*mux.Router, *verse.SlotStore) {
	t.Helper()

	store := verse.NewSlotStore(verse.NewSlotPersister(storage.NewMemoryStore(), verse.VersesKey), logger.NewTestLogger())
	h := NewVerseHandler(store, logger.NewTestLogger())

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/verses", h.List).Methods("GET")
	router.HandleFunc("/api/v1/verses", h.Create).Methods("POST")
	router.HandleFunc("/api/v1/verses/{id}", h.GetByID).Methods("GET")
	router.HandleFunc("/api/v1/verses/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/api/v1/verses/{id}", h.Patch).Methods("PATCH")
	router.HandleFunc("/api/v1/verses/{id}", h.Delete).Methods("DELETE")
	return router, store
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) Get(ctx context.Context) (string, error) { return f.token, f.err }

func (f *fakeTokens) Set(ctx context.Context, token string) error {
	if f.err != nil {
		return f.err
	}
	f.token = token
	return nil
}

func (f *fakeTokens) Clear(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.token = ""
	return nil
}
