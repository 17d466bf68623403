// Package badgerstore keeps the message under a single BadgerDB key.
package badgerstore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
)

var currentKey = []byte("message:current")

// Store implements message.Store on BadgerDB.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens the database in dir. An empty dir runs Badger in memory.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, message.Unavailable("open badger", err)
	}
	return New(db, logger), nil
}

// New wraps an already opened database.
func New(db *badger.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Initialize writes the default message unless a value is already stored.
func (s *Store) Initialize(ctx context.Context) error {
	seeded := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(currentKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := message.Encode(message.Default())
		if err != nil {
			return err
		}
		seeded = true
		return txn.Set(currentKey, data)
	})
	if err != nil {
		return message.Unavailable("seed default message", err)
	}

	if seeded {
		s.logger.InfoContext(ctx, "seeded default message", "backend", "badger")
	}
	return nil
}

// GetCurrent reads the stored message.
func (s *Store) GetCurrent(_ context.Context) (message.Message, error) {
	var current message.Message

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(currentKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			current, err = message.Decode(val)
			return err
		})
	})

	switch {
	case err == nil:
		return current, nil
	case errors.Is(err, badger.ErrKeyNotFound), errors.Is(err, message.ErrNotFound):
		return message.Message{}, message.ErrNotFound
	default:
		return message.Message{}, message.Unavailable("read message", err)
	}
}

// SetCurrent replaces the stored message inside one transaction.
func (s *Store) SetCurrent(_ context.Context, content, expectedVersion string) (message.Message, error) {
	next := message.New(content)

	err := s.db.Update(func(txn *badger.Txn) error {
		if expectedVersion != "" {
			item, err := txn.Get(currentKey)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return message.ErrNotFound
			}
			if err != nil {
				return err
			}

			var stored message.Message
			if err := item.Value(func(val []byte) error {
				stored, err = message.Decode(val)
				return err
			}); err != nil {
				return err
			}
			if stored.Version != expectedVersion {
				return message.ErrConflict
			}
		}

		data, err := message.Encode(next)
		if err != nil {
			return err
		}
		return txn.Set(currentKey, data)
	})

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, message.ErrNotFound):
		return message.Message{}, message.ErrNotFound
	case errors.Is(err, message.ErrConflict), errors.Is(err, badger.ErrConflict):
		return message.Message{}, message.ErrConflict
	default:
		return message.Message{}, message.Unavailable("write message", err)
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
