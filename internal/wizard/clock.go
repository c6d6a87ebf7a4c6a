package wizard

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests inject a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock uses the runtime timers.
var RealClock Clock = realClock{}

// Timings are the UX delays of the walkthrough.
type Timings struct {
	FadeOut    time.Duration
	FadeIn     time.Duration
	CleanDelay time.Duration
}

// DefaultTimings match the browser walkthrough.
func DefaultTimings() Timings {
	return Timings{FadeOut: 300 * time.Millisecond, FadeIn: 50 * time.Millisecond, CleanDelay: 1500 * time.Millisecond}
}

// resolveTimings applies DefaultTimings when t is nil. Zero durations are kept,
// so a configured walkthrough can run without pauses; negatives clamp to zero.
func resolveTimings(t *Timings) Timings {
	if t == nil {
		return DefaultTimings()
	}
	r := *t
	if r.FadeOut < 0 {
		r.FadeOut = 0
	}
	if r.FadeIn < 0 {
		r.FadeIn = 0
	}
	if r.CleanDelay < 0 {
		r.CleanDelay = 0
	}
	return r
}
