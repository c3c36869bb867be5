package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/akelani/classchat/internal/llm"
)

// OllamaEmbedder generates embeddings using a local Ollama instance.
type OllamaEmbedder struct {
	baseURL string
	model   string
	dims    int
	client  *http.Client
}

// NewOllamaEmbedder creates a new Ollama embedder. The dimension count
// depends on the model; nomic-embed-text produces 768-dimension vectors.
func NewOllamaEmbedder(baseURL, model string, dims int) *OllamaEmbedder {
	if dims <= 0 {
		dims = 768
	}
	return &OllamaEmbedder{
		baseURL: baseURL,
		model:   model,
		dims:    dims,
		client:  &http.Client{},
	}
}

func (e *OllamaEmbedder) Name() string {
	return e.model
}

func (e *OllamaEmbedder) Dimensions() int {
	return e.dims
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))

	// The embeddings endpoint takes one prompt per call.
	for _, text := range texts {
		body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Prompt: text})
		if err != nil {
			return nil, fmt.Errorf("marshalling embed request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building embed request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := e.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling ollama embeddings: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading embed response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &llm.UpstreamError{
				Status: resp.StatusCode,
				Err:    fmt.Errorf("ollama embeddings returned %s: %s", resp.Status, respBody),
			}
		}

		var embedResp ollamaEmbedResponse
		if err := json.Unmarshal(respBody, &embedResp); err != nil {
			return nil, fmt.Errorf("unmarshalling embed response: %w", err)
		}

		results = append(results, embedResp.Embedding)
	}

	return results, nil
}
