// Package rest talks to the hosted table store over its REST interface
// (PostgREST dialect: /rest/v1/<table>?column=op.value).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/KaranKool/mishtee-mitra/internal/gateway"
)

const (
	restPrefix     = "rest/v1"
	defaultTimeout = 30 * time.Second
)

// APIError is a non-2xx answer from the store.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return fmt.Sprintf("http error (%d): %s", e.StatusCode, msg)
}

// Client manages communication with the remote store.
type Client struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
}

// NewClient builds a client for endpoint (e.g. https://xyz.supabase.co).
// timeout bounds every single HTTP exchange; zero selects a default.
func NewClient(endpoint, apiKey string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint scheme %q", parsed.Scheme)
	}
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:    parsed,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}, nil
}

type requestOptions struct {
	Prefer string
}

// doRequest performs a single HTTP exchange (no retries) against table.
func (c *Client) doRequest(
	ctx context.Context,
	method, table string,
	query url.Values,
	body any,
	out any,
	opts *requestOptions,
) error {
	u := *c.BaseURL
	u.Path = path.Join(c.BaseURL.Path, restPrefix, table)
	u.RawQuery = query.Encode()

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts != nil && opts.Prefer != "" {
		req.Header.Set("Prefer", opts.Prefer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleHTTPError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleHTTPError parses the store's error body. Gateway-level statuses mean
// the store itself was not reachable and are reported as unavailable.
func (c *Client) handleHTTPError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(bodyBytes, apiErr); err != nil {
		apiErr.Message = strings.TrimSpace(string(bodyBytes))
	}
	apiErr.StatusCode = resp.StatusCode

	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %v", gateway.ErrUnavailable, apiErr)
	default:
		return apiErr
	}
}
