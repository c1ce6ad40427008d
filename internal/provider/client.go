package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/catalogd/internal/metrics"
	"github.com/vmunix/catalogd/internal/ratelimit"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

const maxAttempts = 6

// Priority selects which of the client's two token buckets a call draws
// from. Interactive read-path calls use Foreground; backfill worker tasks
// use Background, so bulk catch-up traffic never starves page loads.
type Priority int

const (
	Foreground Priority = iota
	Background
)

// Client is the rate-limited Provider HTTP client. Per-attempt timeouts
// and retry/backoff are internal to getJSON; callers see either the
// decoded JSON or an error.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	fg         *ratelimit.TokenBucket
	bg         *ratelimit.TokenBucket
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Provider base URL, for testing against a
// local fixture server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the transport, e.g. to route through
// TMDB_PROXY.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger tagged with this client's component name.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log.With("component", "provider") }
}

// WithMetrics records every request's bucket and outcome against m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// SetMetrics attaches m after construction, for callers that only have a
// metrics registry once other collaborators built from this client (e.g. a
// backfill scheduler's queue-depth gauge) already exist.
func (c *Client) SetMetrics(m *metrics.Metrics) { c.metrics = m }

// New creates a Provider client. fg must be non-nil; bg may be nil when
// the configured total rate leaves nothing for background traffic, in
// which case background calls draw from the foreground bucket too.
func New(apiKey string, fg, bg *ratelimit.TokenBucket, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 12 * time.Second,
		},
		fg: fg,
		bg: bg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// bucket returns the token bucket a call at the given priority should
// acquire from.
func (c *Client) bucket(p Priority) *ratelimit.TokenBucket {
	if p == Background && c.bg != nil {
		return c.bg
	}
	return c.fg
}

// getJSON performs the GET-JSON contract against path (already including
// its query string): up to six attempts, honoring 429 Retry-After,
// exponential backoff on 5xx and transport errors, and requiring a JSON
// object on success. A permanent 4xx returns a StatusError; when the
// attempts run out it returns the last transport error or errNoResult.
// The read path treats any of these as "the Provider has nothing right
// now", so Provider trouble never surfaces as a 5xx to clients.
func (c *Client) getJSON(ctx context.Context, priority Priority, path string, timeout time.Duration, out any) error {
	err := c.doGetJSON(ctx, priority, path, timeout, out)
	if c.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.ProviderRequests.WithLabelValues(priorityLabel(priority), outcome).Inc()
	}
	return err
}

func priorityLabel(p Priority) string {
	if p == Background {
		return "background"
	}
	return "foreground"
}

func (c *Client) doGetJSON(ctx context.Context, priority Priority, path string, timeout time.Duration, out any) error {
	u := c.baseURL + path
	bucket := c.bucket(priority)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := bucket.Acquire(ctx, 1); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		status, retryAfterHeader, body, err := c.doRequest(attemptCtx, u)
		cancel()

		if err != nil {
			lastErr = err
			if c.log != nil {
				c.log.Debug("provider request failed", "url", path, "attempt", attempt, "error", err)
			}
			if !sleep(ctx, backoffDuration(attempt)) {
				return ctx.Err()
			}
			continue
		}

		switch {
		case status == http.StatusOK:
			if len(body) == 0 || body[0] != '{' {
				return fmt.Errorf("provider response is not a JSON object")
			}
			return json.Unmarshal(body, out)
		case status == http.StatusTooManyRequests:
			if !sleep(ctx, retryAfter(retryAfterHeader)) {
				return ctx.Err()
			}
		case status >= 500:
			if !sleep(ctx, backoffDuration(attempt)) {
				return ctx.Err()
			}
		default:
			// Permanent 4xx (other than 429): nothing to retry.
			return &StatusError{Status: status}
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return errNoResult
}

// errNoResult is returned when every attempt was retryable but the
// retry budget ran out without ever reaching a terminal outcome.
var errNoResult = errors.New("provider: exhausted retries without a result")

// StatusError wraps a permanent (non-retryable) HTTP status from the
// Provider.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider: permanent status %d", e.Status)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (status int, retryAfterHeader string, body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, "", nil, fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("api_key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, resp.Header.Get("Retry-After"), body, nil
}

// backoffDuration implements the 0.5 * 2^attempt backoff used for both
// 5xx responses and transport errors.
func backoffDuration(attempt int) time.Duration {
	return time.Duration(0.5*float64(int64(1)<<uint(attempt))*1000) * time.Millisecond
}

// retryAfter parses a numeric Retry-After header value into a duration,
// falling back to the documented default of one second when it's absent
// or not a plain integer.
func retryAfter(header string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return time.Second
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func titleQuery(langTag string) string {
	v := url.Values{}
	v.Set("language", langTag)
	return "?" + v.Encode()
}

// GetTitle fetches /{kind}/{id}?language=langTag (kind is "movie" or
// "tv").
func (c *Client) GetTitle(ctx context.Context, priority Priority, kind string, id int64, langTag string) (*TitleDetail, error) {
	var out TitleDetail
	path := fmt.Sprintf("/%s/%d%s", kind, id, titleQuery(langTag))
	if err := c.getJSON(ctx, priority, path, 10*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSeason fetches /tv/{id}/season/{season}.
func (c *Client) GetSeason(ctx context.Context, priority Priority, seriesID int64, season int) (*SeasonDetail, error) {
	var out SeasonDetail
	path := fmt.Sprintf("/tv/%d/season/%d", seriesID, season)
	if err := c.getJSON(ctx, priority, path, 10*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetImages fetches /{kind}/{id}/images, optionally constraining
// include_image_language. Pass "" for includeLangs to fetch unfiltered.
func (c *Client) GetImages(ctx context.Context, priority Priority, kind string, id int64, includeLangs string) (*ImagesResponse, error) {
	var out ImagesResponse
	q := ""
	if includeLangs != "" {
		v := url.Values{}
		v.Set("include_image_language", includeLangs)
		q = "?" + v.Encode()
	}
	path := fmt.Sprintf("/%s/%d/images%s", kind, id, q)
	if err := c.getJSON(ctx, priority, path, 8*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVideos fetches /{kind}/{id}/videos?language=langTag.
func (c *Client) GetVideos(ctx context.Context, priority Priority, kind string, id int64, langTag string) (*VideosResponse, error) {
	var out VideosResponse
	path := fmt.Sprintf("/%s/%d/videos%s", kind, id, titleQuery(langTag))
	if err := c.getJSON(ctx, priority, path, 8*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCredits fetches /{kind}/{id}/credits.
func (c *Client) GetCredits(ctx context.Context, priority Priority, kind string, id int64) (*CreditsResponse, error) {
	var out CreditsResponse
	path := fmt.Sprintf("/%s/%d/credits", kind, id)
	if err := c.getJSON(ctx, priority, path, 8*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTranslations fetches /{kind}/{id}/translations.
func (c *Client) GetTranslations(ctx context.Context, priority Priority, kind string, id int64) (*TranslationsResponse, error) {
	var out TranslationsResponse
	path := fmt.Sprintf("/%s/%d/translations", kind, id)
	if err := c.getJSON(ctx, priority, path, 8*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSimilar fetches /{kind}/{id}/similar?language=langTag.
func (c *Client) GetSimilar(ctx context.Context, priority Priority, kind string, id int64, langTag string) (*TrendingResponse, error) {
	var out TrendingResponse
	path := fmt.Sprintf("/%s/%d/similar%s", kind, id, titleQuery(langTag))
	if err := c.getJSON(ctx, priority, path, 10*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTrending fetches /trending/all/{window} (window is "day" or "week").
func (c *Client) GetTrending(ctx context.Context, priority Priority, window string) (*TrendingResponse, error) {
	var out TrendingResponse
	path := fmt.Sprintf("/trending/all/%s", window)
	if err := c.getJSON(ctx, priority, path, 12*time.Second, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
