package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level classchat configuration, corresponding to .classchat.yml.
type Config struct {
	Provider          ProviderType    `yaml:"provider" koanf:"provider"`
	Model             string          `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType    `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string          `yaml:"embedding_model" koanf:"embedding_model"`
	CatalogPath       string          `yaml:"catalog_path" koanf:"catalog_path"`
	DataDir           string          `yaml:"data_dir" koanf:"data_dir"`
	Materials         MaterialsConfig `yaml:"materials" koanf:"materials"`
	Server            ServerConfig    `yaml:"server" koanf:"server"`
	Limits            LimitsConfig    `yaml:"limits" koanf:"limits"`
	Retry             RetryConfig     `yaml:"retry" koanf:"retry"`
	Quota             QuotaConfig     `yaml:"quota" koanf:"quota"`
}

// MaterialsConfig controls which files the indexer picks up.
type MaterialsConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// LimitsConfig bounds the question-answering pipeline.
type LimitsConfig struct {
	MaxRequestsPerMinute int `yaml:"max_requests_per_minute" koanf:"max_requests_per_minute"`
	DocumentBudget       int `yaml:"document_budget" koanf:"document_budget"`
	PerNamespaceTopK     int `yaml:"per_namespace_top_k" koanf:"per_namespace_top_k"`
	MaxNamespaces        int `yaml:"max_namespaces" koanf:"max_namespaces"`
	HistoryBufferSize    int `yaml:"history_buffer_size" koanf:"history_buffer_size"`
	PromptCharBudget     int `yaml:"prompt_char_budget" koanf:"prompt_char_budget"`
}

// RetryConfig tunes upstream retry behavior.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts" koanf:"max_attempts"`
	BaseDelayMS int `yaml:"base_delay_ms" koanf:"base_delay_ms"`
	MaxDelayMS  int `yaml:"max_delay_ms" koanf:"max_delay_ms"`
}

// QuotaConfig controls per-user message allowances.
type QuotaConfig struct {
	FreeMessages int `yaml:"free_messages" koanf:"free_messages"`
}
