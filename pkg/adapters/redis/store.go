package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codemaster-ai/codemaster/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.SessionStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "codemaster:session:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) currentKey() string {
	return s.prefix + "current"
}

// Create persists a new session and marks it as current.
func (s *Store) Create(ctx context.Context, name string) (*domain.Session, error) {
	session := domain.NewSession(name)
	if err := s.write(ctx, session); err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.currentKey(), session.ID, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to set current session: %w", err)
	}
	return session, nil
}

// Current returns the current session.
func (s *Store) Current(ctx context.Context) (*domain.Session, error) {
	id, err := s.client.Get(ctx, s.currentKey()).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to read current session pointer: %w", err)
	}

	session, err := s.Get(ctx, id)
	if err == domain.ErrSessionNotFound {
		// Stale pointer: the session expired or was removed out of band.
		return nil, domain.ErrNoActiveSession
	}
	return session, err
}

// Save persists the session.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = time.Now().UTC()
	return s.write(ctx, session)
}

func (s *Store) write(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.Pipeline()

	// 1. Save JSON with TTL (0 means no expiration).
	pipe.Set(ctx, s.key(session.ID), data, s.ttl)

	// 2. Add to Index (ZSET). Score = Now + TTL; without a TTL, far future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: session.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// List returns active session IDs, pruning expired entries from the index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	// Lazy cleanup: remove expired keys from the index.
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	sessions, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes the session, clearing the current pointer if it matches.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	current, err := s.client.Get(ctx, s.currentKey()).Result()
	if err != nil && err != backend.Nil {
		return fmt.Errorf("failed to read current session pointer: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)
	if current == sessionID {
		pipe.Del(ctx, s.currentKey())
	}

	_, err = pipe.Exec(ctx)
	return err
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
