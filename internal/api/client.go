package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Tired-Fox/rataify-sub001/internal/auth"
	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// BaseURL is the Spotify Web API root.
const BaseURL = "https://api.spotify.com/v1"

// Client issues authenticated requests against the Web API.
//
// Before every request the current token is read from the flow's shared
// slot; if it is expired or missing a required scope the client performs
// exactly one refresh before giving up. Responses are classified into
// the typed errors in this package. The client never retries on
// rate-limiting.
type Client struct {
	flow       auth.Flow
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	Flow       auth.Flow
	HTTPClient *http.Client
	BaseURL    string
	// RateLimit is the request pacing in requests per second.
	// Zero disables pacing.
	RateLimit float64
	Logger    *log.Logger
}

// NewClient creates a Client for the given flow.
func NewClient(opts ClientOpts) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		flow:       opts.Flow,
		httpClient: opts.HTTPClient,
		baseURL:    opts.BaseURL,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// ensureToken returns a token that is unexpired and covers the flow's
// requested scopes, refreshing at most once. A failed refresh surfaces
// [shared.ErrReauthRequired] so the application can restart the
// interactive flow; the client never proceeds with an expired token.
func (c *Client) ensureToken(ctx context.Context) (auth.Token, error) {
	tok := c.flow.Token()
	if tok.Valid(time.Now()) && tok.HasScopes(c.flow.Scopes()...) {
		return tok, nil
	}

	c.logger.Debug("token invalid, refreshing", "flow", c.flow.ID())
	if err := c.flow.Refresh(ctx); err != nil {
		return auth.Token{}, fmt.Errorf("%w: %v", shared.ErrReauthRequired, err)
	}

	tok = c.flow.Token()
	if !tok.Valid(time.Now()) {
		return auth.Token{}, shared.ErrReauthRequired
	}
	return tok, nil
}

// Get performs an authenticated GET and decodes the response into result.
func (c *Client) Get(ctx context.Context, endpoint string, result any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, result)
}

// Put performs an authenticated PUT with an optional JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body, result any) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, result)
}

// Post performs an authenticated POST with an optional JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, result any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, result)
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string, result any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, result)
}

// Do performs an authenticated request. The endpoint may be a path
// relative to the API root or an absolute URL, as replayed by the Pager
// from server-supplied continuation links.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	tok, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = c.baseURL + endpoint
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", method, "url", apiURL, "status", resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	return classify(resp.StatusCode, respBody, result)
}

// classify maps a response status and body into a decoded result or a
// typed error per the response taxonomy.
func classify(status int, body []byte, result any) error {
	switch {
	case status == http.StatusNoContent:
		return ErrNoContent
	case status >= 200 && status < 300:
		trimmed := bytes.TrimSpace(body)
		if result == nil || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return nil
		}
		if err := json.Unmarshal(trimmed, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case status == http.StatusUnauthorized:
		return ErrInvalidToken
	case status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusTooManyRequests:
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
			if envelope.Error.Status == 0 {
				envelope.Error.Status = status
			}
			return &ResponseError{Status: envelope.Error.Status, Message: envelope.Error.Message}
		}
		return &ResponseError{Status: status, Message: strings.TrimSpace(string(body))}
	default:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, status)
	}
}
