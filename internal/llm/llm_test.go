package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// MockProvider is a test provider that records calls and returns canned
// responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string { return m.ProvName }

func (m *MockProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func TestWrapUpstreamCarriesAPIErrorStatus(t *testing.T) {
	cause := &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}
	err := WrapUpstream(cause)

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if upstream.StatusCode() != 429 {
		t.Errorf("StatusCode() = %d, want 429", upstream.StatusCode())
	}
	if !errors.As(err, &cause) {
		t.Error("original APIError not reachable through Unwrap")
	}
}

func TestWrapUpstreamPassesThroughPlainErrors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	if got := WrapUpstream(cause); got != cause {
		t.Errorf("WrapUpstream changed a statusless error: %v", got)
	}
	if got := WrapUpstream(nil); got != nil {
		t.Errorf("WrapUpstream(nil) = %v, want nil", got)
	}
}

func TestOllamaProviderComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3" {
			t.Errorf("model = %q, want llama3", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message:    ollamaMessage{Role: "assistant", Content: "hello from ollama"},
			Model:      "llama3",
			Done:       true,
			DoneReason: "stop",
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "hello from ollama" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestOllamaProviderUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	if upstream.Status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", upstream.Status)
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	if _, err := NewProvider("bedrock", "some-model"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
