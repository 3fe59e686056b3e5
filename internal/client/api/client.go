package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wkarimi/shulebook/internal/client/storage"
)

// TokenRefresher performs a token refresh against the backend. It is
// implemented by the auth session manager and injected after
// construction; the client itself never decides how to refresh.
type TokenRefresher interface {
	// RefreshTokens exchanges the stored refresh token for a new access
	// token and persists the result. A failure is terminal: the
	// implementation clears the stored tokens and tears the session down.
	RefreshTokens(ctx context.Context) error
}

// Client represents the HTTP client for the portal backend. It is the
// only component that talks to the network: it attaches the bearer
// credential, maps error bodies to typed errors and transparently
// refreshes an expired access token (single-flight) before retrying the
// failed request exactly once.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     storage.TokenStorage
	refresher  TokenRefresher
	gate       refreshGate
}

// NewClient creates a new API client. The refresher is wired in later
// via SetRefresher because the session manager is constructed on top of
// this client.
func NewClient(baseURL string, tokens storage.TokenStorage) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Carry the Authorization header across redirects
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetRefresher injects the token refresher. Must be called before the
// first authenticated request; composition order in main guarantees it.
func (c *Client) SetRefresher(r TokenRefresher) {
	c.refresher = r
}

// Get performs a GET request and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result, requestOptions{})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result, requestOptions{})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.doRequest(ctx, http.MethodPut, path, body, result, requestOptions{})
}

// requestOptions tweaks a single request.
type requestOptions struct {
	// headers are added verbatim (e.g. X-CSRFToken on login).
	headers map[string]string
	// noRefresh disables the 401 refresh-and-retry path. Set on the
	// refresh call itself and on unauthenticated endpoints.
	noRefresh bool
}

// doRequest executes one logical request. On a 401 it funnels every
// concurrent caller through a single refresh and retries once with the
// new access token; a second failure is surfaced as-is.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}, opts requestOptions) error {
	access := c.currentAccessToken(ctx)

	status, respBody, err := c.send(ctx, method, path, body, access, opts.headers)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !opts.noRefresh && access != "" && c.refresher != nil {
		if refreshErr := c.gate.Do(ctx, c.refresher.RefreshTokens); refreshErr != nil {
			// The refresher has already torn the session down.
			return &Error{StatusCode: http.StatusUnauthorized, Detail: "session expired"}
		}

		// Retry exactly once with the refreshed credential. A second
		// failure is terminal; it must not trigger another refresh.
		access = c.currentAccessToken(ctx)
		status, respBody, err = c.send(ctx, method, path, body, access, opts.headers)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return decodeError(status, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// send performs a single HTTP round trip and returns status and body.
func (c *Client) send(ctx context.Context, method, path string, body interface{}, accessToken string, headers map[string]string) (int, []byte, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// currentAccessToken reads the stored access token, if any.
func (c *Client) currentAccessToken(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	pair, err := c.tokens.GetTokens(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrTokensNotFound) {
			// Storage trouble degrades to an unauthenticated request;
			// the server response decides what happens next.
			return ""
		}
		return ""
	}
	return pair.Access
}
