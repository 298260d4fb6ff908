// Package ethos is a read-only client for the Ethos reputation API.
package ethos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/tierlist/pkg/logger"
)

// DefaultBaseURL is the public Ethos API host.
const DefaultBaseURL = "https://api.ethos.network"

const (
	userByUsernamePath = "/api/v2/user/by/username/"
	maxBodyBytes       = 1 << 20
)

// Profile is the subset of an Ethos user the tier list needs.
type Profile struct {
	Username    string `json:"-"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Score       int    `json:"score"`
}

// Looker resolves a username to a profile.
type Looker interface {
	Lookup(ctx context.Context, username string) (Profile, error)
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at another host (tests, staging).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout bounds each lookup. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client performs single-attempt lookups. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// NewClient creates a client for the public API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup fetches the profile for username.
func (c *Client) Lookup(ctx context.Context, username string) (Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Profile{}, ErrEmptyUsername
	}

	endpoint := c.baseURL + userByUsernamePath + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, username)
	case resp.StatusCode == http.StatusTooManyRequests:
		return Profile{}, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Profile{}, &APIError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: read body: %w", ErrRequestFailed, err)
	}
	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	p.Username = username
	if c.logger != nil {
		c.logger.Debug(ctx, "ethos lookup ok",
			logger.String("username", username),
			logger.Int("score", p.Score),
		)
	}
	return p, nil
}

// Message returns the user-facing text for a lookup error.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNotFound):
		return "User not found"
	case errors.Is(err, ErrRateLimited):
		return "Rate limit exceeded. Please try again later."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("API error: %d", apiErr.Status)
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
