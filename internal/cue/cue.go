package cue

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cue names a feedback sound.
type Cue string

const (
	Click      Cue = "click"
	Select     Cue = "select"
	Success    Cue = "success"
	Transition Cue = "transition"
	Error      Cue = "error"
	Generate   Cue = "generate"
)

// All lists every cue.
var All = []Cue{Click, Select, Success, Transition, Error, Generate}

// ErrUnknown is returned for names outside All.
var ErrUnknown = errors.New("unknown cue")

// Parse resolves a cue name.
func Parse(s string) (Cue, error) {
	c := Cue(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tones[c]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknown, s)
	}
	return c, nil
}

// Waveform is the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

// Ramp is how the oscillator frequency moves towards EndFreq.
type Ramp int

const (
	RampNone Ramp = iota
	RampLinear
	RampExponential
)

// Tone describes one cue as an oscillator with a gain envelope.
// Gain rises linearly from 0 to Peak over Attack, then decays exponentially to Floor at Decay.
type Tone struct {
	Wave     Waveform
	Freq     float64
	EndFreq  float64
	Ramp     Ramp
	RampTime time.Duration
	Peak     float64
	Attack   time.Duration
	Decay    time.Duration
}

// Floor is the gain the decay ramps to; exponential ramps cannot reach zero.
const Floor = 0.00001

var tones = map[Cue]Tone{
	Click:      {Wave: Sine, Freq: 440, Peak: 0.2, Attack: 10 * time.Millisecond, Decay: 100 * time.Millisecond},
	Select:     {Wave: Sine, Freq: 587.33, Peak: 0.3, Attack: 10 * time.Millisecond, Decay: 200 * time.Millisecond},
	Success:    {Wave: Sine, Freq: 523.25, EndFreq: 783.99, Ramp: RampLinear, RampTime: 200 * time.Millisecond, Peak: 0.3, Attack: 10 * time.Millisecond, Decay: 300 * time.Millisecond},
	Transition: {Wave: Sawtooth, Freq: 200, EndFreq: 800, Ramp: RampExponential, RampTime: 150 * time.Millisecond, Peak: 0.15, Attack: 10 * time.Millisecond, Decay: 150 * time.Millisecond},
	Error:      {Wave: Square, Freq: 220, EndFreq: 110, Ramp: RampLinear, RampTime: 200 * time.Millisecond, Peak: 0.3, Attack: 10 * time.Millisecond, Decay: 200 * time.Millisecond},
	Generate:   {Wave: Triangle, Freq: 300, EndFreq: 600, Ramp: RampExponential, RampTime: 300 * time.Millisecond, Peak: 0.1, Attack: 10 * time.Millisecond, Decay: 500 * time.Millisecond},
}

// ToneFor returns the parameters of c.
func ToneFor(c Cue) (Tone, bool) {
	t, ok := tones[c]
	return t, ok
}

// Emitter accepts cues without blocking. Implementations swallow their own failures.
type Emitter interface {
	Emit(Cue)
}

type discard struct{}

func (discard) Emit(Cue) {}

// Discard drops every cue.
var Discard Emitter = discard{}
