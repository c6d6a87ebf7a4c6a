package cue

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	for _, c := range All {
		got, err := Parse(" " + string(c) + " ")
		if err != nil || got != c {
			t.Fatalf("Parse(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := Parse("boom"); err == nil {
		t.Fatalf("expected error for unknown cue")
	}
}

func TestRenderHeaderAndLength(t *testing.T) {
	wav, err := Render(Select, 8000)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad header: %q", wav[:44])
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 8000 {
		t.Fatalf("sample rate = %d", rate)
	}
	// select decays over 200ms -> 1600 samples -> 3200 bytes.
	if n := binary.LittleEndian.Uint32(wav[40:44]); n != 3200 || len(wav) != 44+3200 {
		t.Fatalf("data length = %d (file %d)", n, len(wav))
	}
	if _, err := Render(Cue("nope"), 0); err == nil {
		t.Fatalf("expected error for unknown cue")
	}
}

func TestToneEnvelope(t *testing.T) {
	tone, _ := ToneFor(Click)
	if g := tone.gainAt(0); g != 0 {
		t.Fatalf("gain at start = %v", g)
	}
	if g := tone.gainAt(10 * time.Millisecond); math.Abs(g-0.2) > 1e-9 {
		t.Fatalf("gain at peak = %v", g)
	}
	if g := tone.gainAt(100 * time.Millisecond); g != Floor {
		t.Fatalf("gain at decay end = %v", g)
	}
}

func TestToneFrequencyRamps(t *testing.T) {
	success, _ := ToneFor(Success)
	if f := success.freqAt(100 * time.Millisecond); math.Abs(f-(523.25+783.99)/2) > 1e-6 {
		t.Fatalf("linear midpoint = %v", f)
	}
	transition, _ := ToneFor(Transition)
	mid := transition.freqAt(75 * time.Millisecond)
	if math.Abs(mid-400) > 1e-6 {
		t.Fatalf("exponential midpoint = %v, want 400", mid)
	}
	if f := transition.freqAt(time.Second); f != 800 {
		t.Fatalf("frequency after ramp = %v", f)
	}
}

type recordSink struct {
	mu   sync.Mutex
	got  []Cue
	fail bool
	hit  chan struct{}
}

func (r *recordSink) Play(c Cue, wav []byte) error {
	r.mu.Lock()
	r.got = append(r.got, c)
	r.mu.Unlock()
	r.hit <- struct{}{}
	if r.fail {
		return errors.New("no audio device")
	}
	return nil
}

func TestPlayerDeliversAndSwallowsFailures(t *testing.T) {
	sink := &recordSink{fail: true, hit: make(chan struct{}, 4)}
	p := NewPlayer(sink, WithSampleRate(4000))
	p.Emit(Click)
	p.Emit(Cue("unknown"))
	p.Emit(Success)
	for i := 0; i < 2; i++ {
		select {
		case <-sink.hit:
		case <-time.After(2 * time.Second):
			t.Fatalf("cue %d not played", i)
		}
	}
	p.Close()
	p.Emit(Error)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.got) != 2 || sink.got[0] != Click || sink.got[1] != Success {
		t.Fatalf("played %v", sink.got)
	}
}

func TestPlayerNilSinkAndCloseBeforeUse(t *testing.T) {
	NewPlayer(nil).Emit(Click)
	p := NewPlayer(SinkFunc(func(Cue, []byte) error { return nil }))
	p.Close()
	p.Close()
	p.Emit(Click)
}

func TestBufferDropsOldest(t *testing.T) {
	b := NewBuffer(2)
	b.Emit(Click)
	b.Emit(Select)
	b.Emit(Success)
	got := b.Drain()
	if len(got) != 2 || got[0] != Select || got[1] != Success {
		t.Fatalf("drain = %v", got)
	}
	if b.Len() != 0 {
		t.Fatalf("buffer not cleared")
	}
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewBuffer(0), NewBuffer(0)
	Multi{a, nil, b, Discard}.Emit(Generate)
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("fan-out failed: %d %d", a.Len(), b.Len())
	}
}
