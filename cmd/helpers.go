package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/akelani/classchat/internal/catalog"
	"github.com/akelani/classchat/internal/config"
	"github.com/akelani/classchat/internal/embeddings"
	"github.com/akelani/classchat/internal/llm"
	"github.com/akelani/classchat/internal/ratelimit"
	"github.com/akelani/classchat/internal/retry"
	"github.com/akelani/classchat/internal/vectorindex"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `classchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return embeddings.NewOllamaEmbedder(host, cfg.EmbeddingModel, 0), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

// createExecutor builds the shared rate limiter and retry executor.
func createExecutor(cfg *config.Config) *retry.Executor {
	limiter := ratelimit.New(cfg.Limits.MaxRequestsPerMinute)
	return retry.New(limiter, retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Retry.BaseDelayMS) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.Retry.MaxDelayMS) * time.Millisecond,
	})
}

// loadCatalog reads the course catalog named in the config.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w\nRun `classchat init` to create one", err)
	}
	return cat, nil
}

// openIndex creates the vector index and loads any persisted data from
// the data directory. A missing index file is not an error: the index
// starts empty until `classchat index` runs.
func openIndex(cfg *config.Config, embedder embeddings.Embedder) (*vectorindex.ChromemIndex, error) {
	index := vectorindex.NewChromemIndex(embedder)

	if err := index.Load(cfg.DataDir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: could not load index from %s: %v\n", cfg.DataDir, err)
		}
		fmt.Fprintf(os.Stderr, "Starting with an empty index. Run `classchat index` to ingest materials.\n")
	}
	return index, nil
}

// databasePath returns the SQLite file location under the data directory.
func databasePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "classchat.db")
}
