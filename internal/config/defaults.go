package config

// DefaultExcludes are glob patterns the indexer skips by default.
var DefaultExcludes = []string{
	".git/**",
	"**/.DS_Store",
	"*.lock",
	"node_modules/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		CatalogPath:       "catalog.yml",
		DataDir:           ".classchat",
		Materials: MaterialsConfig{
			Include: []string{"**/*.txt", "**/*.md"},
			Exclude: DefaultExcludes,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Limits: LimitsConfig{
			MaxRequestsPerMinute: 200,
			DocumentBudget:       30,
			PerNamespaceTopK:     10,
			MaxNamespaces:        5,
			HistoryBufferSize:    4000,
			PromptCharBudget:     5000,
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			BaseDelayMS: 1000,
			MaxDelayMS:  60000,
		},
		Quota: QuotaConfig{
			FreeMessages: 50,
		},
	}
}
