package cue

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Sink plays a rendered cue. wav is a complete WAV file.
type Sink interface {
	Play(c Cue, wav []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(c Cue, wav []byte) error

func (f SinkFunc) Play(c Cue, wav []byte) error { return f(c, wav) }

// Player renders cues on first use and hands them to a Sink on a background goroutine.
// Emit never blocks; when the queue is full the cue is dropped.
type Player struct {
	sink   Sink
	rate   int
	log    *zap.Logger
	queue  chan Cue
	quit   chan struct{}
	done   chan struct{}
	start  sync.Once
	stop   sync.Once
	closed atomic.Bool

	mu    sync.Mutex
	cache map[Cue][]byte
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithSampleRate sets the render sample rate.
func WithSampleRate(rate int) PlayerOption {
	return func(p *Player) { p.rate = rate }
}

// WithLogger sets the logger used for sink failures.
func WithLogger(l *zap.Logger) PlayerOption {
	return func(p *Player) {
		if l != nil {
			p.log = l
		}
	}
}

// WithQueueSize bounds the number of pending cues.
func WithQueueSize(n int) PlayerOption {
	return func(p *Player) {
		if n > 0 {
			p.queue = make(chan Cue, n)
		}
	}
}

// NewPlayer returns a Player feeding sink. A nil sink discards everything.
func NewPlayer(sink Sink, opts ...PlayerOption) *Player {
	p := &Player{
		sink:  sink,
		rate:  DefaultSampleRate,
		log:   zap.NewNop(),
		queue: make(chan Cue, 16),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		cache: map[Cue][]byte{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Emit queues c for playback. Unknown cues and failures are ignored.
func (p *Player) Emit(c Cue) {
	if p == nil || p.sink == nil || p.closed.Load() {
		return
	}
	if _, ok := tones[c]; !ok {
		return
	}
	p.start.Do(func() { go p.run() })
	select {
	case p.queue <- c:
	default:
		p.log.Debug("cue dropped", zap.String("cue", string(c)))
	}
}

// Close stops the worker. Pending cues are discarded.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.stop.Do(func() {
		p.closed.Store(true)
		close(p.quit)
		started := true
		p.start.Do(func() { started = false })
		if started {
			<-p.done
		}
	})
}

func (p *Player) run() {
	defer close(p.done)
	for {
		select {
		case <-p.quit:
			return
		case c := <-p.queue:
			wav, err := p.render(c)
			if err == nil {
				err = p.sink.Play(c, wav)
			}
			if err != nil {
				p.log.Debug("cue playback failed", zap.String("cue", string(c)), zap.Error(err))
			}
		}
	}
}

func (p *Player) render(c Cue) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b, ok := p.cache[c]; ok {
		return b, nil
	}
	b, err := Render(c, p.rate)
	if err != nil {
		return nil, err
	}
	p.cache[c] = b
	return b, nil
}

// BellSink rings the terminal bell for a subset of cues.
type BellSink struct {
	W    io.Writer
	Only map[Cue]bool
}

// NewBellSink rings on success and error only.
func NewBellSink(w io.Writer) *BellSink {
	return &BellSink{W: w, Only: map[Cue]bool{Success: true, Error: true}}
}

func (b *BellSink) Play(c Cue, _ []byte) error {
	if b.W == nil || (b.Only != nil && !b.Only[c]) {
		return nil
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// WriterSink writes each rendered WAV to a writer obtained per cue.
type WriterSink struct {
	Open func(c Cue) (io.WriteCloser, error)
}

func (s WriterSink) Play(c Cue, wav []byte) error {
	w, err := s.Open(c)
	if err != nil {
		return err
	}
	if _, err := w.Write(wav); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", c, err)
	}
	return w.Close()
}
