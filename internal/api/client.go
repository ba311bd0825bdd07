// Package api implements the HTTP client for the Medogram REST API.
// Request decoration (bearer token), JSON codecs and the error taxonomy
// live here; feature packages compose these calls into their state machines.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TokenSource yields the current bearer token. Implemented by session.Store.
type TokenSource interface {
	Token() (token string, verified bool)
}

// Client issues requests against the Medogram API. The token source is
// consulted per request, so a login during the process lifetime takes
// effect immediately.
type Client struct {
	baseURL string
	http    *http.Client
	session TokenSource
	logger  *zap.Logger
}

// New creates an API client. logger may be zap.NewNop() in tests.
func New(baseURL string, session TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
		logger:  logger,
	}
}

// do performs one round trip. The token is attached whenever present;
// authRequired additionally rejects the call locally when no token exists.
// out, when non-nil, receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, authRequired bool) error {
	token, _ := c.session.Token()
	if authRequired && token == "" {
		return &AuthError{Reason: "no session token"}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	c.logger.Debug("api round trip",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Reason: fmt.Sprintf("server returned %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusBadRequest:
		if derr := decodeDomainError(raw); derr != nil {
			return derr
		}
		return &NetworkError{Status: resp.StatusCode}
	default:
		return &NetworkError{Status: resp.StatusCode}
	}
}

// decodeDomainError extracts a business error from a 400 body. The server
// returns either {"error": "..."} or a field-keyed validation map whose
// values are strings or arrays of strings.
func decodeDomainError(raw []byte) *DomainError {
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil || len(generic) == 0 {
		return nil
	}

	if msg, ok := generic["error"].(string); ok && msg != "" {
		return &DomainError{Code: msg}
	}

	fields := make(map[string]string)
	for key, val := range generic {
		switch v := val.(type) {
		case string:
			fields[key] = v
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					fields[key] = s
				}
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &DomainError{Fields: fields}
}
