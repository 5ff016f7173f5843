package bibleapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hairizuan-noorazman/bible-memo/book"
	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/metrics"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// DefaultBaseURL is the public abibliadigital endpoint.
const DefaultBaseURL = "https://www.abibliadigital.com.br/api"

const defaultTimeout = 30 * time.Second

// MaxRangeVerses is the longest range FetchText accepts. Salmos 119 has
// 176 verses, the most of any chapter.
const MaxRangeVerses = 176

// maxConcurrentFetches bounds in-flight requests for one range.
const maxConcurrentFetches = 8

// maxErrorBody caps how much of a failed response is read for its msg field.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// RateLimit is requests per second across all fetches. Zero or less
	// disables limiting.
	RateLimit float64
	Burst     int

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client retrieves verse text from the remote Bible API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a client. A nil metrics disables instrumentation.
func NewClient(cfg Config, log logger.Logger, m *metrics.Metrics) (*Client, error) {
	baseURL := DefaultBaseURL
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("bibleapi: invalid base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    limiter,
		logger:     log,
		metrics:    m,
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchText returns the text of bookName chapter:verseStart-verseEnd. A
// range issues one request per verse concurrently and joins the texts with
// a single space in verse order. The first failure cancels the remaining
// requests and no partial text is returned.
func (c *Client) FetchText(ctx context.Context, translation verse.Translation, bookName string, chapter, verseStart, verseEnd int, token string) (string, error) {
	abbr, err := book.APIAbbreviation(bookName)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownBook, bookName)
	}
	if chapter < 1 || verseStart < 1 || verseEnd < verseStart {
		return "", fmt.Errorf("%w: %d:%d-%d", ErrInvalidRange, chapter, verseStart, verseEnd)
	}
	if verseEnd-verseStart >= MaxRangeVerses {
		return "", fmt.Errorf("%w: %d:%d-%d spans more than %d verses", ErrInvalidRange, chapter, verseStart, verseEnd, MaxRangeVerses)
	}
	if token == "" {
		return "", ErrMissingToken
	}
	if translation == "" {
		translation = verse.DefaultTranslation
	}
	version := strings.ToLower(string(translation))

	if verseStart == verseEnd {
		return c.fetchVerse(ctx, version, abbr, chapter, verseStart, token)
	}

	texts := make([]string, verseEnd-verseStart+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i := range texts {
		n := verseStart + i
		g.Go(func() error {
			text, err := c.fetchVerse(gctx, version, abbr, chapter, n, token)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Warn(ctx, "verse range fetch failed", map[string]interface{}{
			"book":    bookName,
			"chapter": chapter,
			"start":   verseStart,
			"end":     verseEnd,
			"error":   err.Error(),
		})
		return "", err
	}

	return strings.Join(texts, " "), nil
}

// FetchDraft fills d.Text from the API using the draft's reference.
func (c *Client) FetchDraft(ctx context.Context, d verse.Draft, token string) (verse.Draft, error) {
	text, err := c.FetchText(ctx, d.Translation, d.Book, d.Chapter, d.VerseStart, d.VerseEnd, token)
	if err != nil {
		return d, err
	}
	d.Text = text
	return d, nil
}

type verseResponse struct {
	Text *string `json:"text"`
}

type errorResponse struct {
	Msg string `json:"msg"`
}

func (c *Client) fetchVerse(ctx context.Context, version, abbr string, chapter, number int, token string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &FetchError{Verse: number, Message: err.Error(), Err: err}
	}

	endpoint := fmt.Sprintf("%s/verses/%s/%s/%d/%d",
		c.baseURL, url.PathEscape(version), url.PathEscape(abbr), chapter, number)

	start := time.Now()
	resp, err := c.doRequest(ctx, endpoint, token)
	if err != nil {
		c.metrics.ObserveFetch(metrics.OutcomeTransport, time.Since(start))
		return "", &FetchError{Verse: number, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveFetch(metrics.OutcomeHTTPError, time.Since(start))
		fields := map[string]interface{}{
			"verse":  number,
			"status": resp.StatusCode,
		}

		// The msg field is optional; without it the status code is reported.
		var body errorResponse
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			fields["read_error"] = err.Error()
		} else if err := json.Unmarshal(data, &body); err != nil {
			fields["decode_error"] = err.Error()
		}

		c.logger.Debug(ctx, "verse request rejected", fields)
		return "", &FetchError{Verse: number, Status: resp.StatusCode, Message: statusMessage(resp.StatusCode, body.Msg)}
	}

	var body verseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.metrics.ObserveFetch(metrics.OutcomeDecode, time.Since(start))
		return "", &FetchError{Verse: number, Status: resp.StatusCode, Message: "failed to decode response", Err: err}
	}
	if body.Text == nil {
		c.metrics.ObserveFetch(metrics.OutcomeDecode, time.Since(start))
		return "", &FetchError{Verse: number, Status: resp.StatusCode, Message: "response has no text"}
	}

	c.metrics.ObserveFetch(metrics.OutcomeSuccess, time.Since(start))
	return *body.Text, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("bibleapi: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}
