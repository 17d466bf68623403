// Package client talks to the message API over HTTP and WebSocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ErrFetchFailure wraps transport-level failures (connection refused,
// timeouts, unreadable responses).
var ErrFetchFailure = errors.New("failed to reach message service")

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Details)
}

// Update is one frame of the live feed.
type Update struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Client calls the message endpoints under baseURL (e.g. http://localhost:8080).
type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dialer:     websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageResponse struct {
	Message string `json:"message"`
}

type updateRequest struct {
	NewMessage string `json:"newMessage"`
}

type updateResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	UpdatedMessage string `json:"updatedMessage"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Fetch returns the current message.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/message", nil)
	if err != nil {
		return "", fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var out messageResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Update sends text as the new message and returns the value the server
// stored.
func (c *Client) Update(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(updateRequest{NewMessage: text})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/message", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out updateResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.UpdatedMessage, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		var body errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			if body.Error != "" {
				apiErr.Code = body.Error
			}
			apiErr.Details = body.Details
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrFetchFailure, err)
	}
	return nil
}

// Watch streams updates to fn until ctx is done, the connection drops, or
// fn returns an error.
func (c *Client) Watch(ctx context.Context, fn func(Update) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wsURL, err := c.websocketURL()
	if err != nil {
		return err
	}

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var update Update
		if err := conn.ReadJSON(&update); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrFetchFailure, err)
		}
		if err := fn(update); err != nil {
			return err
		}
	}
}

func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/api/message/ws")
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}
