// Package session keeps per-client state in memory, keyed by random ids.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or evicted ids.
var ErrNotFound = errors.New("session not found")

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// Store is an in-memory map of sessions. Idle entries are evicted after the TTL
// once Sweep is running. Nothing is persisted.
type Store[T any] struct {
	mu      sync.RWMutex
	items   map[string]*entry[T]
	ttl     time.Duration
	now     func() time.Time
	onEvict func(id string, v T)
	log     *zap.Logger
	name    string
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithEvict is called for each evicted or deleted value, outside the lock.
func WithEvict[T any](f func(id string, v T)) Option[T] {
	return func(s *Store[T]) { s.onEvict = f }
}

// WithLogger names the store in eviction logs.
func WithLogger[T any](name string, l *zap.Logger) Option[T] {
	return func(s *Store[T]) {
		s.name = name
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) { s.now = now }
}

// NewStore returns an empty store. A non-positive ttl disables eviction.
func NewStore[T any](ttl time.Duration, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		items: map[string]*entry[T]{},
		ttl:   ttl,
		now:   time.Now,
		log:   zap.NewNop(),
		name:  "session",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create stores v under a fresh id.
func (s *Store[T]) Create(v T) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.items[id] = &entry[T]{value: v, lastSeen: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns the value for id and marks it as used.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.value, nil
}

// Delete removes id.
func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	e, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if s.onEvict != nil {
		s.onEvict(id, e.value)
	}
	return nil
}

// Len is the number of live sessions.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Evict removes entries idle for longer than the TTL and returns how many were removed.
func (s *Store[T]) Evict() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	type victim struct {
		id string
		v  T
	}
	var gone []victim
	s.mu.Lock()
	for id, e := range s.items {
		if e.lastSeen.Before(cutoff) {
			gone = append(gone, victim{id, e.value})
			delete(s.items, id)
		}
	}
	s.mu.Unlock()
	for _, g := range gone {
		if s.onEvict != nil {
			s.onEvict(g.id, g.v)
		}
		s.log.Debug("session evicted", zap.String("store", s.name), zap.String("id", g.id))
	}
	return len(gone)
}

// Sweep evicts idle sessions every interval until ctx is done.
func (s *Store[T]) Sweep(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = s.ttl / 2
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Evict(); n > 0 {
				s.log.Info("idle sessions evicted", zap.String("store", s.name), zap.Int("count", n), zap.Int("live", s.Len()))
			}
		}
	}
}
