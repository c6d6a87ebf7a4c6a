package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestGeminiGenerate(t *testing.T) {
	var got geminiRequest
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/gemini-2.5-flash:generateContent" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Data "},{"text":"menarik."}]}}],"usageMetadata":{"totalTokenCount":12}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", srv.URL, 2*time.Second, 1, 0, 0)
	req := GenerateRequest{
		Model: "models/gemini-2.5-flash",
		Messages: []Message{
			{Role: "system", Content: "guru"},
			{Role: "user", Content: "jelaskan"},
		},
		MaxTokens: 64,
	}
	resp, err := c.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text() != "Data menarik." || resp.Usage.TotalTokens != 12 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "guru" {
		t.Fatalf("system instruction not mapped: %+v", got)
	}
	if len(got.Contents) != 1 || got.Contents[0].Role != "user" || got.Contents[0].Parts[0].Text != "jelaskan" {
		t.Fatalf("contents not mapped: %+v", got.Contents)
	}
	if got.GenerationConfig == nil || got.GenerationConfig.MaxOutputTokens != 64 {
		t.Fatalf("generation config not mapped: %+v", got.GenerationConfig)
	}
}

func TestGeminiInvalidKeyIsAuthError(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("bad", srv.URL, 2*time.Second, 1, 0, 0)
	_, err := c.Generate(context.Background(), Prompt("gemini-2.5-flash", "hi"))
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %T %v", err, err)
	}
	if ae.Code != "INVALID_ARGUMENT" {
		t.Fatalf("status not captured: %+v", ae.APIError)
	}
}

func TestGeminiBlockedPrompt(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", srv.URL, 2*time.Second, 1, 0, 0)
	if _, err := c.Generate(context.Background(), Prompt("gemini-2.5-flash", "hi")); err == nil {
		t.Fatalf("expected error for blocked prompt")
	}
}

func TestGeminiStream(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gemini-2.5-flash:streamGenerateContent" || r.URL.Query().Get("alt") != "sse" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, s := range []string{"Nilai ", "rata-rata ", "tinggi."} {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":%q}]}}]}\n\n", s)
		}
	}))
	defer srv.Close()

	c := NewGeminiClient("k", srv.URL, 2*time.Second, 1, 0, 0)
	var out string
	if err := c.GenerateStream(context.Background(), Prompt("gemini-2.5-flash", "hi"), func(d string) { out += d }); err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	if out != "Nilai rata-rata tinggi." {
		t.Fatalf("stream = %q", out)
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	c := NewGeminiClient("", "", 0, 0, 0, 0)
	if _, err := c.Generate(context.Background(), Prompt("gemini-2.5-flash", "hi")); err == nil {
		t.Fatalf("expected error without key")
	}
}

func TestRegistryProviders(t *testing.T) {
	for _, p := range []string{ProviderGemini, ProviderOpenRouter, ProviderOllama} {
		if _, ok := GetRuntime(p, RuntimeConfig{APIKey: "k"}); !ok {
			t.Errorf("provider %s not registered", p)
		}
	}
	if _, ok := GetRuntime("nope", RuntimeConfig{}); ok {
		t.Fatalf("unexpected runtime for unknown provider")
	}
	if DefaultModelFor(ProviderGemini) != "gemini-2.5-flash" {
		t.Fatalf("default gemini model = %s", DefaultModelFor(ProviderGemini))
	}
	if NeedsKey(ProviderOllama) || !NeedsKey(ProviderGemini) {
		t.Fatalf("NeedsKey mismatch")
	}
}
