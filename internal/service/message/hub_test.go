package message

import (
	"testing"

	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
)

func TestHubKeepsLatestValue(t *testing.T) {
	hub := NewHub()
	updates, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(model.New("A"))
	hub.Publish(model.New("B"))

	got := <-updates
	require.Equal(t, "B", got.Content)
	require.Empty(t, updates)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	updates, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.Len())

	cancel()
	cancel()
	require.Equal(t, 0, hub.Len())

	_, ok := <-updates
	require.False(t, ok)

	hub.Publish(model.New("ignored"))
}
