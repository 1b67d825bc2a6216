// pkg/adminclient/client.go

// Package adminclient is the Go client for the ParkSpot admin API. It
// mirrors the server's transition rules so obviously-invalid moderation
// actions fail before any network traffic, and it keeps dashboard views
// usable when parts of the backend degrade.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Typed errors callers branch on. Every failed request maps onto exactly
// one of these.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrServer           = errors.New("server error")
)

// Session is the credential for one admin console session. It is passed
// in explicitly; the client never reads ambient state.
type Session struct {
	AccessToken string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	logger     *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
		logger:     logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiError       `json:"error,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// do issues one request and decodes the response envelope into out. Out
// may be nil when the caller only needs the status.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServer, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrServer, err)
	}

	var envelope apiEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil && resp.StatusCode < 400 {
			return fmt.Errorf("%w: malformed response: %v", ErrServer, err)
		}
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp.StatusCode, envelope.Error)
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: decoding response data: %v", ErrServer, err)
		}
	}

	return nil
}

func (c *Client) statusError(statusCode int, apiErr *apiError) error {
	message := http.StatusText(statusCode)
	if apiErr != nil && apiErr.Message != "" {
		message = apiErr.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case statusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case statusCode >= 400 && statusCode < 500:
		return fmt.Errorf("%w: %s", ErrValidationFailed, message)
	default:
		return fmt.Errorf("%w: %s", ErrServer, message)
	}
}
