// Package redisstore keeps the message under a single Redis key.
package redisstore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
)

// DefaultKey is used when no key is configured.
const DefaultKey = "message:current"

// Store implements message.Store on Redis.
type Store struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// Open connects to addr and verifies the connection with PING.
func Open(ctx context.Context, addr, key string, logger *slog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, message.Unavailable("redis ping", err)
	}
	return New(client, key, logger), nil
}

// New wraps an existing client.
func New(client *redis.Client, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, key: key, logger: logger}
}

// Initialize sets the default message with SETNX.
func (s *Store) Initialize(ctx context.Context) error {
	data, err := message.Encode(message.Default())
	if err != nil {
		return message.Unavailable("encode default message", err)
	}

	seeded, err := s.client.SetNX(ctx, s.key, data, 0).Result()
	if err != nil {
		return message.Unavailable("redis setnx", err)
	}
	if seeded {
		s.logger.InfoContext(ctx, "seeded default message", "backend", "redis", "key", s.key)
	}
	return nil
}

// GetCurrent reads the stored message.
func (s *Store) GetCurrent(ctx context.Context) (message.Message, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return message.Message{}, message.ErrNotFound
	}
	if err != nil {
		return message.Message{}, message.Unavailable("redis get", err)
	}

	current, err := message.Decode(data)
	if errors.Is(err, message.ErrNotFound) {
		return message.Message{}, err
	}
	if err != nil {
		return message.Message{}, message.Unavailable("decode message", err)
	}
	return current, nil
}

// SetCurrent writes the message. A non-empty expectedVersion runs the
// compare and set inside WATCH/MULTI.
func (s *Store) SetCurrent(ctx context.Context, content, expectedVersion string) (message.Message, error) {
	next := message.New(content)
	data, err := message.Encode(next)
	if err != nil {
		return message.Message{}, message.Unavailable("encode message", err)
	}

	if expectedVersion == "" {
		if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
			return message.Message{}, message.Unavailable("redis set", err)
		}
		return next, nil
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, s.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return message.ErrNotFound
		}
		if err != nil {
			return err
		}

		stored, err := message.Decode(raw)
		if err != nil {
			return err
		}
		if stored.Version != expectedVersion {
			return message.ErrConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}, s.key)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, message.ErrNotFound):
		return message.Message{}, message.ErrNotFound
	case errors.Is(err, message.ErrConflict), errors.Is(err, redis.TxFailedErr):
		return message.Message{}, message.ErrConflict
	default:
		return message.Message{}, message.Unavailable("redis watch", err)
	}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
