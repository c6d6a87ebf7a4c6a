package cue

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// DefaultSampleRate is used when Render is given a non-positive rate.
const DefaultSampleRate = 22050

// Render synthesizes c as a 16-bit mono PCM WAV file.
func Render(c Cue, sampleRate int) ([]byte, error) {
	t, ok := tones[c]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, c)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	pcm := t.samples(sampleRate)
	return encodeWAV(pcm, sampleRate), nil
}

func (t Tone) samples(rate int) []int16 {
	n := int(t.Decay.Seconds() * float64(rate))
	out := make([]int16, n)
	phase := 0.0
	for i := 0; i < n; i++ {
		at := time.Duration(float64(i) / float64(rate) * float64(time.Second))
		phase += t.freqAt(at) / float64(rate)
		phase -= math.Floor(phase)
		v := oscillate(t.Wave, phase) * t.gainAt(at)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int16(v * math.MaxInt16)
	}
	return out
}

func (t Tone) freqAt(at time.Duration) float64 {
	if t.Ramp == RampNone || t.RampTime <= 0 || t.EndFreq <= 0 {
		return t.Freq
	}
	if at >= t.RampTime {
		return t.EndFreq
	}
	x := at.Seconds() / t.RampTime.Seconds()
	if t.Ramp == RampExponential {
		return t.Freq * math.Pow(t.EndFreq/t.Freq, x)
	}
	return t.Freq + (t.EndFreq-t.Freq)*x
}

func (t Tone) gainAt(at time.Duration) float64 {
	if at < t.Attack {
		return t.Peak * at.Seconds() / t.Attack.Seconds()
	}
	span := (t.Decay - t.Attack).Seconds()
	if span <= 0 {
		return Floor
	}
	x := (at - t.Attack).Seconds() / span
	if x >= 1 {
		return Floor
	}
	return t.Peak * math.Pow(Floor/t.Peak, x)
}

func oscillate(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2*phase - 1
	case Triangle:
		return 4*math.Abs(phase-0.5) - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

func encodeWAV(pcm []int16, rate int) []byte {
	const bitsPerSample = 16
	dataLen := uint32(len(pcm) * 2)
	var b bytes.Buffer
	b.Grow(44 + int(dataLen))
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, 36+dataLen)
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&b, binary.LittleEndian, uint32(rate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(rate*bitsPerSample/8))
	_ = binary.Write(&b, binary.LittleEndian, uint16(bitsPerSample/8))
	_ = binary.Write(&b, binary.LittleEndian, uint16(bitsPerSample))
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, dataLen)
	_ = binary.Write(&b, binary.LittleEndian, pcm)
	return b.Bytes()
}
