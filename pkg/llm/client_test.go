package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voicegate/voicegate/pkg/llm"
)

// completionBackend captures request payloads and serves a canned reply.
func completionBackend(t *testing.T, captured *map[string]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{
					"message":       map[string]any{"content": "hello"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
		})
	}))
}

func TestClientChat(t *testing.T) {
	t.Run("parses a completion", func(t *testing.T) {
		var payload map[string]any
		srv := completionBackend(t, &payload)
		defer srv.Close()

		c, err := llm.NewClient(llm.WithBaseURL(srv.URL), llm.WithModel("test-model"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		resp, err := c.Chat(context.Background(), &llm.ChatRequest{
			Messages: []llm.Message{llm.NewUserMessage("hi")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Message.Content != "hello" {
			t.Errorf("content = %q", resp.Message.Content)
		}
		if resp.FinishReason != "stop" {
			t.Errorf("finish reason = %q", resp.FinishReason)
		}
		if resp.Usage.TotalTokens != 5 {
			t.Errorf("total tokens = %d", resp.Usage.TotalTokens)
		}
		if payload["model"] != "test-model" {
			t.Errorf("payload model = %v", payload["model"])
		}
	})

	t.Run("defaults apply when overrides are unset", func(t *testing.T) {
		var payload map[string]any
		srv := completionBackend(t, &payload)
		defer srv.Close()

		c, _ := llm.NewClient(
			llm.WithBaseURL(srv.URL),
			llm.WithModel("test-model"),
			llm.WithMaxTokens(256),
			llm.WithTemperature(0.5),
		)
		if _, err := c.Chat(context.Background(), &llm.ChatRequest{
			Messages: []llm.Message{llm.NewUserMessage("hi")},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if payload["max_tokens"] != float64(256) {
			t.Errorf("max_tokens = %v, want 256", payload["max_tokens"])
		}
		if payload["temperature"] != 0.5 {
			t.Errorf("temperature = %v, want 0.5", payload["temperature"])
		}
	})

	t.Run("explicit zero temperature is sent", func(t *testing.T) {
		var payload map[string]any
		srv := completionBackend(t, &payload)
		defer srv.Close()

		c, _ := llm.NewClient(
			llm.WithBaseURL(srv.URL),
			llm.WithModel("test-model"),
			llm.WithTemperature(0.7),
		)

		greedy := 0.0
		one := 1
		if _, err := c.Chat(context.Background(), &llm.ChatRequest{
			Messages:    []llm.Message{llm.NewUserMessage("hi")},
			Temperature: &greedy,
			MaxTokens:   &one,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if payload["temperature"] != float64(0) {
			t.Errorf("temperature = %v, want 0", payload["temperature"])
		}
		if payload["max_tokens"] != float64(1) {
			t.Errorf("max_tokens = %v, want 1", payload["max_tokens"])
		}
	})

	t.Run("missing model yields ErrNoModel", func(t *testing.T) {
		c, _ := llm.NewClient(llm.WithBaseURL("http://localhost:1"), llm.WithModel(""))

		_, err := c.Chat(context.Background(), &llm.ChatRequest{
			Messages: []llm.Message{llm.NewUserMessage("hi")},
		})
		if !errors.Is(err, llm.ErrNoModel) {
			t.Errorf("expected ErrNoModel, got %v", err)
		}
	})

	t.Run("API errors carry the status code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "slow down"},
			})
		}))
		defer srv.Close()

		c, _ := llm.NewClient(llm.WithBaseURL(srv.URL), llm.WithModel("test-model"))
		_, err := c.Chat(context.Background(), &llm.ChatRequest{
			Messages: []llm.Message{llm.NewUserMessage("hi")},
		})

		var apiErr *llm.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusTooManyRequests || !apiErr.IsRateLimited() {
			t.Errorf("unexpected error detail: %+v", apiErr)
		}
		if apiErr.Message != "slow down" {
			t.Errorf("message = %q", apiErr.Message)
		}
	})
}
