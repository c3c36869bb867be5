package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// defaultModels maps each provider to its default generative and
// embedding models.
var defaultModels = map[ProviderType]struct {
	Model          string
	EmbeddingModel string
}{
	ProviderOpenAI: {Model: "gpt-4", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama: {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .classchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to classchat! Let's configure your deployment.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	defaults := defaultModels[provider]

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Generative model",
		Default: defaults.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Course catalog location.
	catalogPrompt := promptui.Prompt{
		Label:   "Course catalog file",
		Default: "catalog.yml",
	}
	catalogPath, err := catalogPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("catalog path: %w", err)
	}

	// 4. Data directory.
	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory (index and database)",
		Default: ".classchat",
	}
	dataDir, err := dataDirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 5. Free message allowance.
	quotaPrompt := promptui.Prompt{
		Label:   "Free messages per user",
		Default: "50",
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	quotaStr, err := quotaPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("free messages: %w", err)
	}
	freeMessages, _ := strconv.Atoi(strings.TrimSpace(quotaStr))

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.EmbeddingProvider = provider
	cfg.EmbeddingModel = defaults.EmbeddingModel
	cfg.CatalogPath = catalogPath
	cfg.DataDir = dataDir
	cfg.Quota.FreeMessages = freeMessages

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running classchat serve.\n", envVar)
		}
	}

	// Save to .classchat.yml.
	configPath := ".classchat.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
