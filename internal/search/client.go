// Package search talks to the remote vet search endpoint.
package search

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

	"github.com/UnknownOlympus/vetscout/internal/models"
	"golang.org/x/time/rate"
)

// SearchPath is the remote endpoint path, relative to the API base URL.
const SearchPath = "/api/vets/search"

// Fixed query parameters sent with every search.
const (
	RadiusKm = 10
	Limit    = 5
)

// MaxErrorBody bounds how much of a non-2xx body is kept in StatusError.
const MaxErrorBody = 4 << 10

// ErrEmptyResult is returned when the service answers with an empty list.
var ErrEmptyResult = errors.New("vet search returned no results")

// StatusError is returned for any non-2xx answer. The body is truncated to MaxErrorBody and never parsed.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vet search returned status %d: %s", e.Code, e.Body)
}

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the remote vet search service.
type Client struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // API base URL, may be empty
	timeout time.Duration // per-request timeout, zero means none
	limiter *rate.Limiter // outgoing request limiter
	log     *slog.Logger  // Logger for logging operations
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) { c.client = client }
}

// WithTimeout bounds every search request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithRateLimit allows at most perSecond requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// NewClient creates a search client for the given API base URL.
func NewClient(baseURL string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		client:  http.DefaultClient,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search asks the service for vets near origin. The result is returned in the
// order the service produced it.
func (c *Client) Search(ctx context.Context, origin models.Coordinates) ([]models.Vet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := c.searchURL(origin)
	c.log.DebugContext(ctx, "Vet search request URL", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var vets []models.Vet
	if err = json.NewDecoder(resp.Body).Decode(&vets); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(vets) == 0 {
		return nil, ErrEmptyResult
	}

	c.log.DebugContext(ctx, "Vet search found results", "count", len(vets))

	return vets, nil
}

func (c *Client) searchURL(origin models.Coordinates) string {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(origin.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(origin.Longitude, 'f', -1, 64))
	query.Set("radius_km", strconv.Itoa(RadiusKm))
	query.Set("limit", strconv.Itoa(Limit))

	return BuildURL(c.baseURL, SearchPath) + "?" + query.Encode()
}
