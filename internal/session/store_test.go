package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Add(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func TestCreateGetDelete(t *testing.T) {
	var evicted []string
	s := NewStore[int](time.Hour, WithEvict(func(id string, _ int) { evicted = append(evicted, id) }))
	id := s.Create(42)
	if len(id) != 36 {
		t.Fatalf("unexpected id %q", id)
	}
	if v, err := s.Get(id); err != nil || v != 42 {
		t.Fatalf("Get = %d, %v", v, err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if len(evicted) != 1 || evicted[0] != id {
		t.Fatalf("evict hook = %v", evicted)
	}
}

func TestEvictIdleOnly(t *testing.T) {
	clk := &fakeNow{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	s := NewStore[string](time.Hour, WithClock[string](clk.Now))
	idle := s.Create("idle")
	active := s.Create("active")
	clk.Add(45 * time.Minute)
	if _, err := s.Get(active); err != nil {
		t.Fatalf("Get: %v", err)
	}
	clk.Add(30 * time.Minute)
	if n := s.Evict(); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if _, err := s.Get(idle); !errors.Is(err, ErrNotFound) {
		t.Fatalf("idle session survived")
	}
	if _, err := s.Get(active); err != nil {
		t.Fatalf("active session evicted: %v", err)
	}
}

func TestSweepStopsWithContext(t *testing.T) {
	s := NewStore[int](time.Millisecond)
	s.Create(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Sweep(ctx, time.Millisecond)
		close(done)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for s.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper never evicted")
		}
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper did not stop")
	}
}
