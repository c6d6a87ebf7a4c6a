// Package interpret asks a text-generation runtime for a short,
// student-friendly reading of a cleaned dataset.
package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataexplorer/internal/ai"
	"github.com/KaramelBytes/dataexplorer/internal/analysis"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var (
	// ErrNotConfigured means there is no runtime or no credential; no call is attempted.
	ErrNotConfigured = errors.New("text generation is not configured")
	// ErrNothingToInterpret means there is no cleaned data.
	ErrNothingToInterpret = errors.New("no cleaned data to interpret")
)

// Messages shown to students for each failure class.
const (
	NotConfiguredMessage      = "Kunci API Gemini tidak dikonfigurasi."
	NothingToInterpretMessage = "Tidak ada data yang bersih untuk diinterpretasikan."
	GenerationFailedMessage   = "Gagal menghasilkan interpretasi. Silakan coba lagi."
)

// GenerationError wraps a runtime failure.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate interpretation: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// UserMessage maps an error from Request to its Indonesian message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return NotConfiguredMessage
	case errors.Is(err, ErrNothingToInterpret):
		return NothingToInterpretMessage
	default:
		return GenerationFailedMessage
	}
}

// Input is what the prompt is built from.
type Input struct {
	DatasetName string
	Chart       analysis.ChartKind
	Cleaned     []analysis.DataPoint
}

// BuildPrompt renders the fixed instruction template followed by the data as compact JSON.
func BuildPrompt(datasetName string, chart analysis.ChartKind, cleaned []analysis.DataPoint) string {
	var b strings.Builder
	b.WriteString("Anda adalah seorang guru Informatika yang antusias untuk siswa kelas 9.\n")
	b.WriteString("Jelaskan kesimpulan sederhana dari data berikut dalam satu paragraf singkat.\n")
	b.WriteString("Fokus pada wawasan paling jelas yang bisa didapat.\n")
	fmt.Fprintf(&b, "Dataset: %q\n", datasetName)
	fmt.Fprintf(&b, "Jenis Grafik: %q\n", string(chart))
	fmt.Fprintf(&b, "Data: %s\n", PromptData(cleaned))
	return b.String()
}

// PromptData is the compact JSON block embedded in the prompt.
func PromptData(cleaned []analysis.DataPoint) string {
	if cleaned == nil {
		cleaned = []analysis.DataPoint{}
	}
	data, _ := json.Marshal(cleaned)
	return string(data)
}

// Requester submits interpretation prompts. A nil runtime means unconfigured.
type Requester struct {
	runtime     ai.Runtime
	model       string
	maxTokens   int
	temperature float64
}

// Option configures a Requester.
type Option func(*Requester)

func WithModel(m string) Option {
	return func(r *Requester) {
		if m != "" {
			r.model = m
		}
	}
}

func WithMaxTokens(n int) Option { return func(r *Requester) { r.maxTokens = n } }

func WithTemperature(t float64) Option { return func(r *Requester) { r.temperature = t } }

// NewRequester wraps rt.
func NewRequester(rt ai.Runtime, opts ...Option) *Requester {
	r := &Requester{runtime: rt, model: DefaultModel}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Configured reports whether a runtime is available.
func (r *Requester) Configured() bool { return r != nil && r.runtime != nil }

// Model is the model identifier sent with each request.
func (r *Requester) Model() string {
	if r == nil {
		return DefaultModel
	}
	return r.model
}

// Check runs the preconditions without calling out.
func (r *Requester) Check(in Input) error {
	if !r.Configured() {
		return ErrNotConfigured
	}
	if len(in.Cleaned) == 0 {
		return ErrNothingToInterpret
	}
	return nil
}

func (r *Requester) request(in Input) ai.GenerateRequest {
	req := ai.Prompt(r.model, BuildPrompt(in.DatasetName, in.Chart, in.Cleaned))
	req.MaxTokens = r.maxTokens
	req.Temperature = r.temperature
	return req
}

// Request generates one interpretation. Callers hand it a runtime that makes a
// single provider call; a failure is reported, never re-sent.
func (r *Requester) Request(ctx context.Context, in Input) (string, error) {
	if err := r.Check(in); err != nil {
		return "", err
	}
	resp, err := r.runtime.Generate(ctx, r.request(in))
	if err != nil {
		return "", &GenerationError{Cause: err}
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &GenerationError{Cause: errors.New("empty response")}
	}
	return text, nil
}

// Stream behaves like Request but forwards partial output when the runtime streams.
func (r *Requester) Stream(ctx context.Context, in Input, onDelta func(string)) (string, error) {
	if err := r.Check(in); err != nil {
		return "", err
	}
	sr, ok := r.runtime.(ai.StreamRuntime)
	if !ok {
		text, err := r.Request(ctx, in)
		if err == nil {
			onDelta(text)
		}
		return text, err
	}
	var b strings.Builder
	err := sr.GenerateStream(ctx, r.request(in), func(d string) {
		b.WriteString(d)
		onDelta(d)
	})
	if err != nil {
		return "", &GenerationError{Cause: err}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", &GenerationError{Cause: errors.New("empty response")}
	}
	return text, nil
}
