package cue

import "sync"

// DefaultBufferSize caps a Buffer when no size is given.
const DefaultBufferSize = 32

// Buffer collects cues for a client to drain, e.g. a browser polling its session.
// When full, the oldest cue is dropped.
type Buffer struct {
	mu      sync.Mutex
	max     int
	pending []Cue
}

// NewBuffer returns a Buffer holding at most max cues.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultBufferSize
	}
	return &Buffer{max: max}
}

func (b *Buffer) Emit(c Cue) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.max == 0 {
		b.max = DefaultBufferSize
	}
	if len(b.pending) >= b.max {
		b.pending = b.pending[1:]
	}
	b.pending = append(b.pending, c)
}

// Drain returns the pending cues in emission order and clears them.
func (b *Buffer) Drain() []Cue {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

// Len is the number of pending cues.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Multi fans a cue out to several emitters.
type Multi []Emitter

func (m Multi) Emit(c Cue) {
	for _, e := range m {
		if e != nil {
			e.Emit(c)
		}
	}
}
