package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/common"
	"github.com/dmitrijs2005/hydratemate/internal/netx"
)

// HTTPClient talks JSON over HTTP to the HydrateMate backend.
type HTTPClient struct {
	urls     netx.URLBuilder
	fetcher  *netx.Fetcher
	attempts int
	delay    time.Duration
}

// NewHTTPClient returns a client that makes up to attempts tries per call,
// delay apart.
func NewHTTPClient(urls netx.URLBuilder, fetcher *netx.Fetcher, attempts int, delay time.Duration) *HTTPClient {
	return &HTTPClient{
		urls:     urls,
		fetcher:  fetcher,
		attempts: attempts,
		delay:    delay,
	}
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	return c.authenticate(ctx, netx.PathLogin, creds)
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, netx.PathRegister, req)
}

// authenticate retries only transport failures; any HTTP status is final.
func (c *HTTPClient) authenticate(ctx context.Context, path string, payload any) (*models.AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.fetcher.Send(ctx, netx.JSONRequest(http.MethodPost, c.urls.URL(path), body), c.attempts, c.delay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if !success(resp.StatusCode) {
		return nil, newAPIError(resp.StatusCode, netx.DecodeLenient(resp))
	}

	var out models.AuthResponse
	if err := netx.ParseJSONSafely(resp, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if !out.Complete() {
		return nil, fmt.Errorf("%w: token or user missing", ErrMalformedResponse)
	}
	return &out, nil
}

// MigrateGuestData posts the snapshot with the bearer token. The backend
// replies 2xx with no required body.
func (c *HTTPClient) MigrateGuestData(ctx context.Context, token string, snapshot *models.GuestSnapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	req := netx.JSONRequest(http.MethodPost, c.urls.URL(netx.PathMigrateGuestData), body)
	req.Header.Set(common.AuthorizationHeader, common.BearerValue(token))

	resp, err := c.fetcher.Send(ctx, req, c.attempts, c.delay)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if !success(resp.StatusCode) {
		return newAPIError(resp.StatusCode, netx.DecodeLenient(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Me fetches the account behind token. It uses the strict retry policy:
// every attempt must return 2xx JSON.
func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	req := netx.Request{Method: http.MethodGet, URL: c.urls.URL(netx.PathMe), Header: http.Header{}}
	req.Header.Set(common.AuthorizationHeader, common.BearerValue(token))

	resp, err := c.fetcher.FetchWithRetry(ctx, req, c.attempts, c.delay)
	if err != nil {
		var se *netx.StatusError
		switch {
		case errors.As(err, &se):
			return nil, fmt.Errorf("%w: %w", &APIError{StatusCode: se.StatusCode}, err)
		case errors.Is(err, netx.ErrInvalidContentType):
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	var u models.User
	if err := netx.ParseJSONSafely(resp, &u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &u, nil
}

func success(status int) bool {
	return status >= 200 && status <= 299
}
