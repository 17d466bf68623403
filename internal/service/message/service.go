package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	model "github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
)

var validate = validator.New()

type updateInput struct {
	Content string `validate:"required"`
}

// Service gates store access behind a one-time initialization and validates
// updates before they reach the store.
type Service struct {
	store  model.Store
	logger *slog.Logger
	hub    *Hub

	ready atomic.Bool
	init  singleflight.Group

	// orders SetCurrent and Publish together; the feed ends on the stored value
	writeMu sync.Mutex
}

// NewService wraps store. Initialization is lazy; call Ensure to run it early.
func NewService(store model.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		hub:    NewHub(),
	}
}

// Ensure runs store initialization once. Concurrent callers wait on the same
// attempt; a failed attempt is retried by the next caller. The attempt is
// detached from the caller's cancellation so one disconnecting client does not
// fail everyone waiting on it.
func (s *Service) Ensure(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}

	_, err, _ := s.init.Do("initialize", func() (any, error) {
		if s.ready.Load() {
			return nil, nil
		}
		if err := s.store.Initialize(context.WithoutCancel(ctx)); err != nil {
			s.logger.ErrorContext(ctx, "message store initialization failed", "error", err)
			return nil, err
		}
		s.ready.Store(true)
		s.logger.InfoContext(ctx, "message store initialized")
		return nil, nil
	})
	return err
}

// Current returns the stored message.
func (s *Service) Current(ctx context.Context) (model.Message, error) {
	if err := s.Ensure(ctx); err != nil {
		return model.Message{}, err
	}

	current, err := s.store.GetCurrent(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read message", "error", err)
		return model.Message{}, err
	}
	return current, nil
}

// Update trims content and replaces the stored message with it. When
// expectedVersion is set the write only succeeds against that version.
func (s *Service) Update(ctx context.Context, content, expectedVersion string) (model.Message, error) {
	if err := s.Ensure(ctx); err != nil {
		return model.Message{}, err
	}

	trimmed, err := Normalize(content)
	if err != nil {
		return model.Message{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	updated, err := s.store.SetCurrent(ctx, trimmed, expectedVersion)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update message", "error", err)
		return model.Message{}, err
	}

	s.hub.Publish(updated)
	return updated, nil
}

// Subscribe registers for updates. Call the returned func to unsubscribe.
func (s *Service) Subscribe() (<-chan model.Message, func()) {
	return s.hub.Subscribe()
}

// Normalize trims surrounding whitespace and rejects blank content.
func Normalize(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if err := validate.Struct(updateInput{Content: trimmed}); err != nil {
		return "", fmt.Errorf("%w: newMessage must be a non-empty string", model.ErrValidation)
	}
	return trimmed, nil
}
