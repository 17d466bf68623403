package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrEmptyInput     = errors.New("message cannot be empty")
	ErrUpdateInFlight = errors.New("an update is already in progress")
)

// Status is the display state of a View.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// API is the subset of Client a View needs.
type API interface {
	Fetch(ctx context.Context) (string, error)
	Update(ctx context.Context, text string) (string, error)
}

// State is a snapshot of what the user sees.
type State struct {
	Status   Status
	Message  string
	Err      string
	Updating bool
}

// View holds the client-side display state. Message keeps the last value
// shown even after a failure.
type View struct {
	api API

	mu    sync.Mutex
	state State
}

// NewView starts in the loading state.
func NewView(api API) *View {
	return &View{api: api, state: State{Status: StatusLoading}}
}

// State returns the current snapshot.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Load fetches the current message.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.state.Status = StatusLoading
	v.state.Err = ""
	v.mu.Unlock()

	msg, err := v.api.Fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state.Status = StatusError
		v.state.Err = describe("Failed to load message", err)
		return err
	}
	v.state.Status = StatusReady
	v.state.Message = msg
	return nil
}

// Retry re-issues the fetch after a failure.
func (v *View) Retry(ctx context.Context) error {
	return v.Load(ctx)
}

// Submit sends input as the new message. Blank input is rejected without a
// request. On success the displayed message becomes the server's value.
func (v *View) Submit(ctx context.Context, input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		return ErrEmptyInput
	}

	v.mu.Lock()
	if v.state.Updating {
		v.mu.Unlock()
		return ErrUpdateInFlight
	}
	v.state.Updating = true
	v.mu.Unlock()

	updated, err := v.api.Update(ctx, text)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Updating = false
	if err != nil {
		v.state.Status = StatusError
		v.state.Err = describe("Failed to update message", err)
		return err
	}
	v.state.Status = StatusReady
	v.state.Err = ""
	v.state.Message = updated
	return nil
}

func describe(prefix string, err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Details != "" {
		return prefix + ": " + apiErr.Details
	}
	return prefix + ": " + err.Error()
}
