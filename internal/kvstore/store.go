package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"menu-planner/internal/logger"
)

// ErrNotFound is returned by a Backend when a key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// DefaultTimeout bounds a single backend call made through Store.
const DefaultTimeout = 5 * time.Second

// Backend is a durable string-keyed store that reports its failures.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// KV is the synchronous, fail-silent view the planner persists through.
// A failed read looks like a missing key and a failed write is a no-op.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// Store adapts a Backend to KV, logging every failure instead of returning it.
type Store struct {
	backend Backend
	log     *logger.Logger
	timeout time.Duration
}

// New wraps backend. A non-positive timeout falls back to DefaultTimeout.
func New(backend Backend, log *logger.Logger, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		backend: backend,
		log:     log.With("component", "kvstore"),
		timeout: timeout,
	}
}

func (s *Store) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	value, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("Storage read failed", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

func (s *Store) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.backend.Set(ctx, key, value); err != nil {
		s.log.Error("Storage write failed", "key", key, "error", err)
	}
}

func (s *Store) Remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.backend.Remove(ctx, key); err != nil {
		s.log.Error("Storage remove failed", "key", key, "error", err)
	}
}

// GetJSON decodes the value stored under key into v.
// It returns ErrNotFound when the key is absent.
func GetJSON(kv KV, key string, v any) error {
	raw, ok := kv.Get(key)
	if !ok || raw == "" {
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	kv.Set(key, string(data))
	return nil
}
