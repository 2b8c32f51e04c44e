package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOpenAIReview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "o3-mini" {
			t.Errorf("model = %q, want o3-mini", req.Model)
		}
		if req.MaxCompletionTokens != 8192 {
			t.Errorf("max_completion_tokens = %d, want 8192", req.MaxCompletionTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v, want system+user pair", req.Messages)
		}

		json.NewEncoder(w).Encode(openaiResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Role: "assistant", Content: "## Review\n\nLooks fine."}}},
			Usage:   openaiUsage{TotalTokens: 42},
		})
	}))
	defer server.Close()

	provider := &OpenAI{
		apiKey:  "test-key",
		model:   "o3-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}

	resp, err := provider.Review(context.Background(), Request{
		System:    "you review code",
		Prompt:    "review this",
		MaxTokens: 8192,
	})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if resp.Content != "## Review\n\nLooks fine." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("TokensUsed = %d, want 42", resp.TokensUsed)
	}
}

func TestOpenAIReviewAuthError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid api key"}`))
	}))
	defer server.Close()

	provider := &OpenAI{
		apiKey:  "bad-key",
		model:   "o3-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := provider.Review(context.Background(), Request{Prompt: "x"})
	if !IsAuth(err) {
		t.Errorf("error = %v, want auth error", err)
	}
	if calls != 1 {
		t.Errorf("auth errors must not be retried, got %d calls", calls)
	}
}

func TestOpenAIReviewEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Content: "   "}}},
		})
	}))
	defer server.Close()

	provider := &OpenAI{
		apiKey:  "test-key",
		model:   "o3-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := provider.Review(context.Background(), Request{Prompt: "x"})
	if !IsEmptyResponse(err) {
		t.Errorf("error = %v, want empty response error", err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI("o3-mini", "")
	if !IsAuth(err) {
		t.Errorf("error = %v, want auth error for empty key", err)
	}
}

func TestOpenAIReviewContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := &OpenAI{
		apiKey:  "test-key",
		model:   "o3-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := provider.Review(ctx, Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error after context cancellation")
	}
	if !strings.Contains(err.Error(), "deadline") && !IsRateLimit(err) {
		t.Errorf("unexpected error: %v", err)
	}
}
