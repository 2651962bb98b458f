package lexicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// errMalformed marks a response body that is not a JSON array.
var errMalformed = errors.New("malformed lookup response")

// TransientError is a single failed attempt: network error, timeout or a
// non-2xx status. It is retried and never escapes Fetch.
type TransientError struct {
	Word       string
	Attempt    int
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lookup %q attempt %d: status %d", e.Word, e.Attempt, e.StatusCode)
	}
	return fmt.Sprintf("lookup %q attempt %d: %v", e.Word, e.Attempt, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Client is a Lookup backed by the HTTP word service.
// It is safe for concurrent use and reuses one http.Client.
type Client struct {
	cfg     Config
	httpc   *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the logger used for retry and exhaustion messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a Client from cfg, filling unset fields with defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	c := &Client{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		logger:  logger.New("lexicon"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Fetch returns up to MaxResults candidates for word. Transient failures are
// retried Retries times with a linear backoff of attempt*BaseDelay; when all
// attempts fail the word gets an empty result and a warning is logged.
func (c *Client) Fetch(ctx context.Context, word string) []string {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}

	attempts := c.cfg.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		words, err := c.fetchOnce(ctx, word, attempt)
		if err == nil {
			return words
		}
		if errors.Is(err, errMalformed) {
			c.logger.Debugf("Skipping malformed response for '%s': %v", word, err)
			return nil
		}
		if ctx.Err() != nil {
			c.logger.Debugf("Lookup for '%s' cancelled: %v", word, ctx.Err())
			return nil
		}
		if attempt == attempts {
			c.logger.Warnf("Failed to fetch candidates for '%s' (attempts: %d): %v", word, attempt, err)
			return nil
		}
		c.logger.Debugf("Retrying '%s' (attempt %d/%d): %v", word, attempt+1, attempts, err)
		if !sleepCtx(ctx, time.Duration(attempt)*c.cfg.BaseDelay) {
			return nil
		}
	}
	return nil
}

// fetchOnce performs one request. Network and status failures come back as
// *TransientError; a body that cannot be decoded wraps errMalformed.
func (c *Client) fetchOnce(ctx context.Context, word string, attempt int) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransientError{Word: word, Attempt: attempt, Err: err}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.requestURL(word), nil)
	if err != nil {
		return nil, &TransientError{Word: word, Attempt: attempt, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &TransientError{Word: word, Attempt: attempt, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &TransientError{Word: word, Attempt: attempt, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransientError{Word: word, Attempt: attempt, Err: err}
	}
	return parseWords(body, c.cfg.MaxResults)
}

func (c *Client) requestURL(word string) string {
	params := url.Values{}
	params.Set(string(c.cfg.Relation), word)
	params.Set("max", strconv.Itoa(c.cfg.MaxResults))
	sep := "?"
	if strings.Contains(c.cfg.BaseURL, "?") {
		sep = "&"
	}
	return c.cfg.BaseURL + sep + params.Encode()
}

// parseWords extracts usable "word" fields. Entries that are not objects,
// lack a string word, hold a phrase, or repeat an earlier word are skipped.
func parseWords(body []byte, limit int) ([]string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	seen := make(map[string]bool, len(entries))
	words := make([]string, 0, min(len(entries), limit))
	for _, raw := range entries {
		if len(words) >= limit {
			break
		}
		var entry struct {
			Word *string `json:"word"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil || entry.Word == nil {
			continue
		}
		w := strings.TrimSpace(*entry.Word)
		if w == "" || strings.IndexFunc(w, unicode.IsSpace) >= 0 || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words, nil
}

// sleepCtx waits for d or until ctx is done; it reports whether the full
// delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
