package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akelani/classchat/internal/llm"
)

func TestOllamaEmbedderEmbed(t *testing.T) {
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		prompts = append(prompts, req.Prompt)
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text", 3)
	vectors, err := e.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != 3 {
			t.Errorf("vector %d has %d dimensions, want 3", i, len(v))
		}
	}
	if len(prompts) != 2 || prompts[0] != "first" || prompts[1] != "second" {
		t.Errorf("prompts sent = %v", prompts)
	}
}

func TestOllamaEmbedderUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text", 0)
	_, err := e.Embed(context.Background(), []string{"q"})

	var upstream *llm.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", upstream.StatusCode())
	}
}

func TestOllamaEmbedderDefaultDimensions(t *testing.T) {
	e := NewOllamaEmbedder("http://localhost:11434", "nomic-embed-text", 0)
	if e.Dimensions() != 768 {
		t.Errorf("Dimensions = %d, want 768", e.Dimensions())
	}
}

func TestOpenAIModelDimensions(t *testing.T) {
	small := NewOpenAIEmbedder("key", ModelTextEmbedding3Small)
	if small.Dimensions() != 1536 {
		t.Errorf("small dimensions = %d, want 1536", small.Dimensions())
	}
	large := NewOpenAIEmbedder("key", ModelTextEmbedding3Large)
	if large.Dimensions() != 3072 {
		t.Errorf("large dimensions = %d, want 3072", large.Dimensions())
	}
}

// fixedEmbedder returns a constant vector for any input.
type fixedEmbedder struct{ vector []float32 }

func (f *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}
func (f *fixedEmbedder) Dimensions() int { return len(f.vector) }
func (f *fixedEmbedder) Name() string    { return "fixed" }

func TestToChromemFunc(t *testing.T) {
	fn := ToChromemFunc(&fixedEmbedder{vector: []float32{0.5, 0.6}})

	vec, err := fn(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embedding func: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Errorf("vector = %v", vec)
	}
}
