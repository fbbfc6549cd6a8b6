// Package client is a Go SDK for the battery swap API. It mirrors the
// behavior of the consumer-facing app: credentials live in a session-scoped
// store, the last resolved location in a long-lived one, and read results are
// served from a short-lived local cache until a booking invalidates them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrPrecondition marks a call rejected before any network traffic, such as
// missing coordinates or a zero id.
var ErrPrecondition = errors.New("precondition failed")

// ErrBookingInFlight is returned when a booking is submitted while a previous
// one has not completed yet.
var ErrBookingInFlight = errors.New("a booking request is already in flight")

// APIError carries a server-provided failure message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// HTTPDoer defines the http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Freshness windows for locally cached read results.
const (
	stationsFreshFor = 2 * time.Minute
	stationFreshFor  = 5 * time.Minute
	bookingsFreshFor = time.Minute
)

type freshEntry struct {
	value interface{}
	at    time.Time
}

// Client talks to the battery swap backend.
type Client struct {
	baseURL string
	http    HTTPDoer
	session KeyValue
	store   KeyValue
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	fresh   map[string]freshEntry
	booking bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport used for API calls.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock overrides the time source used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New returns a Client rooted at baseURL. session holds credentials and is
// expected to vanish with the process; store persists the resolved location
// across runs.
func New(baseURL string, session, store KeyValue, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		session: session,
		store:   store,
		logger:  zap.NewNop(),
		now:     time.Now,
		fresh:   make(map[string]freshEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignedIn reports whether an access token is present.
func (c *Client) SignedIn() bool {
	return c.session.Has(KeyAccessToken)
}

func (c *Client) cached(key string, maxAge time.Duration) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.fresh[key]
	if !ok || c.now().Sub(entry.at) >= maxAge {
		return nil, false
	}
	return entry.value, true
}

func (c *Client) remember(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fresh[key] = freshEntry{value: value, at: c.now()}
}

func (c *Client) invalidatePrefix(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.fresh {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(c.fresh, key)
				break
			}
		}
	}
}

// do issues a request and decodes the JSON body into dest. A non-2xx status
// becomes an APIError with the server message when one is present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var token string
	if c.session.Get(KeyAccessToken, &token) && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: failureMessage(raw)}
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// failureMessage extracts the message field from an error body, best effort.
func failureMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
