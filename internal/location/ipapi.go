package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// IPAPIBaseURL is the ip-api.com JSON endpoint. The free tier is HTTP only.
const IPAPIBaseURL = "http://ip-api.com/json/"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// IPAPILocator approximates the caller's position from its public IP address.
type IPAPILocator struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the ip-api endpoint
	log     *slog.Logger // Logger for logging operations
}

// ipapiResponse represents the JSON response from ip-api.com.
type ipapiResponse struct {
	Status  string  `json:"status"`  // "success" or "fail"
	Message string  `json:"message"` // reason when Status is "fail"
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Common errors for the ip-api locator.
var (
	ErrIPAPIFailed      = errors.New("ip-api lookup failed")
	ErrIPAPIRateLimited = errors.New("ip-api rate limit exceeded")
)

// NewIPAPILocator creates a new ip-api locator using the public endpoint.
func NewIPAPILocator(log *slog.Logger) *IPAPILocator {
	const timeout = 10
	return &IPAPILocator{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: IPAPIBaseURL,
		log:     log,
	}
}

// NewIPAPILocatorWithClient creates an ip-api locator with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewIPAPILocatorWithClient(client HTTPClient, log *slog.Logger) *IPAPILocator {
	return &IPAPILocator{
		client:  client,
		baseURL: IPAPIBaseURL,
		log:     log,
	}
}

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 4 << 10

// Locate queries ip-api.com for the position of the client stored in ctx, or of
// the calling host when there is none.
func (il *IPAPILocator) Locate(ctx context.Context, _ Options) (*models.Coordinates, error) {
	reqURL := il.baseURL + url.PathEscape(ClientIP(ctx)) + "?fields=status,message,lat,lon"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := il.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute location request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusTooManyRequests:
		return nil, ErrIPAPIRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		il.log.ErrorContext(ctx, "ip-api error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("ip-api returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	il.log.DebugContext(ctx, "ip-api raw response", "body", string(body))

	var result ipapiResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode ip-api response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrIPAPIFailed, result.Message)
	}

	return &models.Coordinates{Latitude: result.Lat, Longitude: result.Lon}, nil
}
