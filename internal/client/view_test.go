package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	fetchMsg  string
	fetchErr  error
	updateErr error
	updates   []string
	block     chan struct{}
}

func (f *fakeAPI) Fetch(context.Context) (string, error) {
	return f.fetchMsg, f.fetchErr
}

func (f *fakeAPI) Update(_ context.Context, text string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.updates = append(f.updates, text)
	if f.updateErr != nil {
		return "", f.updateErr
	}
	return "server:" + text, nil
}

func TestView_Load(t *testing.T) {
	api := &fakeAPI{fetchMsg: "Hello Full Stack World!"}
	v := NewView(api)
	require.Equal(t, StatusLoading, v.State().Status)

	require.NoError(t, v.Load(context.Background()))

	state := v.State()
	require.Equal(t, StatusReady, state.Status)
	require.Equal(t, "Hello Full Stack World!", state.Message)
	require.Empty(t, state.Err)
}

func TestView_LoadFailureThenRetry(t *testing.T) {
	api := &fakeAPI{fetchErr: &APIError{StatusCode: 500, Code: "Internal Server Error", Details: "disk I/O error"}}
	v := NewView(api)

	require.Error(t, v.Load(context.Background()))
	state := v.State()
	require.Equal(t, StatusError, state.Status)
	require.Equal(t, "Failed to load message: disk I/O error", state.Err)

	api.fetchErr = nil
	api.fetchMsg = "back"
	require.NoError(t, v.Retry(context.Background()))
	require.Equal(t, StatusReady, v.State().Status)
	require.Equal(t, "back", v.State().Message)
}

func TestView_SubmitEmptySendsNothing(t *testing.T) {
	api := &fakeAPI{}
	v := NewView(api)

	for _, input := range []string{"", "   ", "\n\t"} {
		require.ErrorIs(t, v.Submit(context.Background(), input), ErrEmptyInput)
	}
	require.Empty(t, api.updates)
}

func TestView_SubmitUsesServerValue(t *testing.T) {
	api := &fakeAPI{fetchMsg: "old"}
	v := NewView(api)
	require.NoError(t, v.Load(context.Background()))

	require.NoError(t, v.Submit(context.Background(), "  new  "))

	require.Equal(t, []string{"new"}, api.updates)
	state := v.State()
	require.Equal(t, "server:new", state.Message)
	require.False(t, state.Updating)
}

func TestView_SubmitFailureKeepsMessage(t *testing.T) {
	api := &fakeAPI{fetchMsg: "old", updateErr: errors.New("connection reset")}
	v := NewView(api)
	require.NoError(t, v.Load(context.Background()))

	require.Error(t, v.Submit(context.Background(), "new"))

	state := v.State()
	require.Equal(t, StatusError, state.Status)
	require.Equal(t, "old", state.Message)
	require.Contains(t, state.Err, "connection reset")
	require.False(t, state.Updating)
}

func TestView_SubmitWhileUpdating(t *testing.T) {
	api := &fakeAPI{block: make(chan struct{})}
	v := NewView(api)

	done := make(chan error, 1)
	go func() { done <- v.Submit(context.Background(), "first") }()

	require.Eventually(t, func() bool { return v.State().Updating }, time.Second, time.Millisecond)
	require.ErrorIs(t, v.Submit(context.Background(), "second"), ErrUpdateInFlight)

	close(api.block)
	require.NoError(t, <-done)
	require.Equal(t, "server:first", v.State().Message)
}
