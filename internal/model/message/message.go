package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultContent is stored the first time a store is initialized.
const DefaultContent = "Hello Full Stack World!"

var (
	ErrNotFound           = errors.New("message not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrConflict           = errors.New("message version conflict")
	ErrValidation         = errors.New("invalid message")
)

// Message is the single value managed by the service.
type Message struct {
	Content   string    `json:"content"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store owns the persisted Message.
//
// SetCurrent replaces the value unconditionally when expectedVersion is
// empty; otherwise it fails with ErrConflict unless the stored version
// matches.
type Store interface {
	Initialize(ctx context.Context) error
	GetCurrent(ctx context.Context) (Message, error)
	SetCurrent(ctx context.Context, content, expectedVersion string) (Message, error)
	Close() error
}

// New builds a Message with a fresh version token.
func New(content string) Message {
	return Message{
		Content:   content,
		Version:   uuid.NewString(),
		UpdatedAt: time.Now().UTC(),
	}
}

// Default returns a freshly versioned Message holding DefaultContent.
func Default() Message {
	return New(DefaultContent)
}

// Encode serializes a Message for key-value backends.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return data, nil
}

// Decode is the inverse of Encode. An empty record is reported as ErrNotFound.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if m.Content == "" {
		return Message{}, ErrNotFound
	}
	return m, nil
}

// Unavailable wraps a medium failure so callers can match ErrStorageUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
