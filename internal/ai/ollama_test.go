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

func TestOllamaGenerateSuccess(t *testing.T) {
	var captured ollamaChatRequest
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "hello from ollama"},
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, 2*time.Second, 1, 0, 0)
	req := GenerateRequest{
		Model: "llama3:latest",
		Messages: []Message{
			{Role: "system", Content: "You are a teacher"},
			{Role: "user", Content: "Hello"},
		},
		MaxTokens: 16,
	}
	resp, err := c.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if resp.Text() != "hello from ollama" || resp.RequestID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Content != "Hello" {
		t.Fatalf("messages not preserved: %+v", captured.Messages)
	}
	if captured.Options["num_predict"] != float64(16) {
		t.Fatalf("num_predict not forwarded: %+v", captured.Options)
	}
}

func TestOllamaMissingModelIsTyped(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "model 'x' not found, try pulling it first"})
	}))
	defer srv.Close()
	c := NewOllamaClient(srv.URL, 2*time.Second, 1, 0, 0)
	_, err := c.Generate(context.Background(), Prompt("x", "hi"))
	var mnf *ModelNotFoundError
	if !errors.As(err, &mnf) || mnf.Message == "" {
		t.Fatalf("expected ModelNotFoundError with message, got %T %v", err, err)
	}
}

func TestOllamaEmptyMessages(t *testing.T) {
	c := NewOllamaClient("", 2*time.Second, 1, 0, 0)
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "llama3:latest"})
	if err == nil || err.Error() != "messages cannot be empty" {
		t.Fatalf("expected 'messages cannot be empty' error, got: %v", err)
	}
	err = c.GenerateStream(context.Background(), GenerateRequest{Model: "llama3:latest"}, func(string) {})
	if err == nil || err.Error() != "messages cannot be empty" {
		t.Fatalf("expected 'messages cannot be empty' error, got: %v", err)
	}
}

func TestOllamaStream(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"satu "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":"dua"},"done":true}`)
	}))
	defer srv.Close()
	c := NewOllamaClient(srv.URL, 2*time.Second, 1, 0, 0)
	var out string
	if err := c.GenerateStream(context.Background(), Prompt("m", "hi"), func(d string) { out += d }); err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	if out != "satu dua" {
		t.Fatalf("stream = %q", out)
	}
}

func TestOllamaUnreachable(t *testing.T) {
	c := NewOllamaClient("http://127.0.0.1:1", 500*time.Millisecond, 1, 0, 0)
	_, err := c.Generate(context.Background(), Prompt("m", "hi"))
	var ue *UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnreachableError, got %T %v", err, err)
	}
}
