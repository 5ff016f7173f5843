package bibleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/metrics"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *metrics.Metrics) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := metrics.New(prometheus.NewRegistry())
	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger.NewTestLogger(), m)
	require.NoError(t, err)
	t.Cleanup(client.httpClient.CloseIdleConnections)
	return client, m
}

// verseNumber extracts the trailing verse number from a request path.
func verseNumber(r *http.Request) int {
	parts := strings.Split(r.URL.Path, "/")
	n, _ := strconv.Atoi(parts[len(parts)-1])
	return n
}

func writeVerse(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"book":    map[string]string{"abbrev": "jo"},
		"chapter": 3,
		"text":    text,
	})
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantURL string
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}, wantURL: DefaultBaseURL},
		{name: "trailing slash trimmed", cfg: Config{BaseURL: "http://localhost:8080/api/"}, wantURL: "http://localhost:8080/api"},
		{name: "relative url", cfg: Config{BaseURL: "api"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg, logger.NewTestLogger(), nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, client.BaseURL())
			assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
		})
	}
}

func TestFetchText_SingleVerse(t *testing.T) {
	var calls atomic.Int32
	client, m := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/verses/nvi/jo/3/16", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeVerse(w, "Porque Deus tanto amou o mundo")
	}))

	text, err := client.FetchText(context.Background(), verse.NVI, "João", 3, 16, 16, "secret")
	require.NoError(t, err)
	assert.Equal(t, "Porque Deus tanto amou o mundo", text)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.FetchRequestsTotal.WithLabelValues(metrics.OutcomeSuccess)))
}

func TestFetchText_AccentedAbbreviation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verses/acf/jó/19/25", r.URL.Path)
		writeVerse(w, "Porque eu sei que o meu Redentor vive")
	}))

	text, err := client.FetchText(context.Background(), verse.ACF, "Jó", 19, 25, 25, "secret")
	require.NoError(t, err)
	assert.Equal(t, "Porque eu sei que o meu Redentor vive", text)
}

func TestFetchText_DefaultTranslation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/verses/nvi/"))
		writeVerse(w, "text")
	}))

	_, err := client.FetchText(context.Background(), "", "Gênesis", 1, 1, 1, "secret")
	require.NoError(t, err)
}

func TestFetchText_RangeJoinsInVerseOrder(t *testing.T) {
	// Responses complete in reverse order: 5 first, then 4, then 3.
	release := map[int]chan struct{}{3: make(chan struct{}), 4: make(chan struct{}), 5: make(chan struct{})}
	close(release[5])

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := verseNumber(r)
		select {
		case <-release[n]:
		case <-time.After(5 * time.Second):
			t.Errorf("verse %d was never released", n)
		}
		writeVerse(w, fmt.Sprintf("v%d", n))
		if next, ok := release[n-1]; ok {
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			close(next)
		}
	}))

	text, err := client.FetchText(context.Background(), verse.NVI, "João", 3, 3, 5, "secret")
	require.NoError(t, err)
	assert.Equal(t, "v3 v4 v5", text)
}

func TestFetchText_FailFast(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if verseNumber(r) == 2 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"msg":"Versículo não encontrado"}`))
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			writeVerse(w, "too late")
		}
	}))

	start := time.Now()
	text, err := client.FetchText(context.Background(), verse.NVI, "Salmos", 23, 1, 3, "secret")
	require.Error(t, err)
	assert.Empty(t, text)
	assert.Less(t, time.Since(start), 4*time.Second)

	assert.ErrorIs(t, err, ErrFetch)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 2, fetchErr.Verse)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
	assert.Equal(t, "Versículo não encontrado", fetchErr.Message)
}

func TestFetchText_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{name: "msg field", status: http.StatusUnauthorized, body: `{"msg":"Not authorized token"}`, wantStatus: 401, wantMessage: "Not authorized token"},
		{name: "no msg field", status: http.StatusInternalServerError, body: `{"error":true}`, wantStatus: 500, wantMessage: "status 500"},
		{name: "non json body", status: http.StatusBadGateway, body: "<html>", wantStatus: 502, wantMessage: "status 502"},
		{name: "missing text", status: http.StatusOK, body: `{"chapter":1}`, wantStatus: 200, wantMessage: "response has no text"},
		{name: "undecodable success", status: http.StatusOK, body: "nope", wantStatus: 200, wantMessage: "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := client.FetchText(context.Background(), verse.NVI, "Romanos", 8, 28, 28, "secret")
			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, tt.wantStatus, fetchErr.Status)
			assert.Equal(t, tt.wantMessage, fetchErr.Message)
			assert.Equal(t, 28, fetchErr.Verse)
		})
	}
}

func TestFetchText_InvalidArguments(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeVerse(w, "x")
	}))
	ctx := context.Background()

	_, err := client.FetchText(ctx, verse.NVI, "Enoque", 1, 1, 1, "secret")
	assert.ErrorIs(t, err, ErrUnknownBook)

	_, err = client.FetchText(ctx, verse.NVI, "João", 0, 1, 1, "secret")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = client.FetchText(ctx, verse.NVI, "João", 3, 18, 16, "secret")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = client.FetchText(ctx, verse.NVI, "João", 3, 16, 16, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = client.FetchText(ctx, verse.NVI, "Salmos", 119, 1, 1+MaxRangeVerses, "secret")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = client.FetchText(ctx, verse.NVI, "João", 3, 1, math.MaxInt, "secret")
	assert.ErrorIs(t, err, ErrInvalidRange)

	assert.Zero(t, calls.Load())
}

func TestFetchText_LongestChapterBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		writeVerse(w, "v"+strconv.Itoa(verseNumber(r)))
	}))

	text, err := client.FetchText(context.Background(), verse.NVI, "Salmos", 119, 1, MaxRangeVerses, "secret")
	require.NoError(t, err)

	words := strings.Fields(text)
	require.Len(t, words, MaxRangeVerses)
	assert.Equal(t, "v1", words[0])
	assert.Equal(t, "v176", words[len(words)-1])
	assert.LessOrEqual(t, peak.Load(), int32(maxConcurrentFetches))
}

func TestFetchText_UndecodableErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	client, err := NewClient(Config{BaseURL: server.URL}, log, nil)
	require.NoError(t, err)
	t.Cleanup(client.httpClient.CloseIdleConnections)

	_, err = client.FetchText(context.Background(), verse.NVI, "João", 3, 16, 16, "secret")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "status 502", fetchErr.Message)

	entries := log.EntriesAt("debug")
	require.Len(t, entries, 1)
	assert.Equal(t, "verse request rejected", entries[0].Message)
	assert.Contains(t, entries[0].Fields, "decode_error")
}

func TestFetchText_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: baseURL}, logger.NewTestLogger(), nil)
	require.NoError(t, err)

	_, err = client.FetchText(context.Background(), verse.NVI, "João", 3, 16, 16, "secret")
	assert.ErrorIs(t, err, ErrFetch)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.Status)
	assert.NotNil(t, fetchErr.Err)
}

func TestFetchText_CallerCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchText(ctx, verse.NVI, "João", 3, 16, 18, "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchDraft(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeVerse(w, fmt.Sprintf("v%d", verseNumber(r)))
	}))

	d := verse.Draft{Book: "Filipenses", Chapter: 4, VerseStart: 6, VerseEnd: 7, Translation: verse.NTLH}
	got, err := client.FetchDraft(context.Background(), d, "secret")
	require.NoError(t, err)
	assert.Equal(t, "v6 v7", got.Text)
	assert.NoError(t, got.Validate())
}

func TestFetchError(t *testing.T) {
	err := &FetchError{Verse: 3, Status: 404, Message: "status 404"}
	assert.Equal(t, "bibleapi: verse 3: status 404", err.Error())
	assert.ErrorIs(t, err, ErrFetch)
	assert.False(t, errors.Is(err, ErrMissingToken))
}
