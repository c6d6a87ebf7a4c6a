package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultGeminiEndpoint is the Generative Language REST base for models.
const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	t        transport
	apiKey   string
	endpoint string
}

// NewGeminiClient targets endpoint, or DefaultGeminiEndpoint when empty.
func NewGeminiClient(apiKey, endpoint string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *GeminiClient {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultGeminiEndpoint
	}
	return &GeminiClient{
		t:        newTransport(endpoint, httpTimeout, retryMax, baseDelay, maxDelay),
		apiKey:   apiKey,
		endpoint: endpoint,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ResponseID string `json:"responseId"`
}

func (r geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// toGemini maps chat messages: system becomes the system instruction, assistant becomes "model".
func toGemini(req GenerateRequest) geminiRequest {
	var out geminiRequest
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			if out.SystemInstruction == nil {
				out.SystemInstruction = &geminiContent{}
			}
			out.SystemInstruction.Parts = append(out.SystemInstruction.Parts, geminiPart{Text: m.Content})
		case "assistant", "model":
			out.Contents = append(out.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			out.Contents = append(out.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		out.GenerationConfig = &geminiGenerationConfig{MaxOutputTokens: req.MaxTokens, Temperature: req.Temperature}
	}
	return out
}

func (c *GeminiClient) check(req GenerateRequest) error {
	if c.apiKey == "" {
		return errors.New("GEMINI_API_KEY is missing")
	}
	if req.Model == "" {
		return errors.New("model cannot be empty")
	}
	if len(req.Messages) == 0 {
		return errors.New("messages cannot be empty")
	}
	return nil
}

func (c *GeminiClient) post(method, model string, payload []byte) func(context.Context) (*http.Request, error) {
	url := fmt.Sprintf("%s/%s:%s", c.endpoint, strings.TrimPrefix(model, "models/"), method)
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)
		return req, nil
	}
}

// Generate issues one generateContent call and returns the first candidate as a choice.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(toGemini(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	resp, err := c.t.send(ctx, c.post("generateContent", req.Model, payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		if gr.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("gemini: prompt blocked (%s)", gr.PromptFeedback.BlockReason)
		}
		return nil, errors.New("gemini: empty response")
	}
	out := &GenerateResponse{
		ID:      gr.ResponseID,
		Choices: []Choice{{Message: Message{Role: "assistant", Content: gr.text()}}},
		Usage: Usage{
			PromptTokens:     gr.UsageMetadata.PromptTokenCount,
			CompletionTokens: gr.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      gr.UsageMetadata.TotalTokenCount,
		},
		RequestID: extractRequestID(resp),
	}
	return out, nil
}

// GenerateStream uses streamGenerateContent with server-sent events.
func (c *GeminiClient) GenerateStream(ctx context.Context, req GenerateRequest, onDelta func(string)) error {
	if err := c.check(req); err != nil {
		return err
	}
	payload, err := json.Marshal(toGemini(req))
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	resp, err := c.t.send(ctx, c.post("streamGenerateContent?alt=sse", req.Model, payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return scanSSE(ctx, resp.Body, func(data string) bool {
		var gr geminiResponse
		if err := json.Unmarshal([]byte(data), &gr); err == nil {
			if s := gr.text(); s != "" {
				onDelta(s)
			}
		}
		return false
	})
}
