package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akelani/classchat/internal/qa"
)

var askCourse string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question about a course from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		namespaces, err := cat.Namespaces(askCourse)
		if err != nil {
			return fmt.Errorf("%w\nAvailable courses: %s", err, strings.Join(cat.CourseNames(), ", "))
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		index, err := openIndex(cfg, embedder)
		if err != nil {
			return err
		}

		exec := createExecutor(cfg)
		retriever := qa.NewRetriever(embedder, index, exec, qa.RetrieverConfig{
			DocumentBudget:   cfg.Limits.DocumentBudget,
			PerNamespaceTopK: cfg.Limits.PerNamespaceTopK,
			MaxNamespaces:    cfg.Limits.MaxNamespaces,
		})
		chain := qa.NewChain(retriever, provider, exec, namespaces, qa.ChainConfig{
			Model:            cfg.Model,
			Temperature:      0.05,
			BufferMaxSize:    cfg.Limits.HistoryBufferSize,
			PromptCharBudget: cfg.Limits.PromptCharBudget,
		})

		result, err := chain.Call(cmd.Context(), question, "", askCourse)
		if err != nil {
			return fmt.Errorf("answering question: %w", err)
		}

		fmt.Println(result.Answer)
		if verbose && len(result.Sources) > 0 {
			fmt.Println("\nSources:")
			for _, doc := range result.Sources {
				fmt.Printf("- %s (page %d of %d)\n", doc.Source, doc.PageNumber, doc.TotalPages)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askCourse, "course", "", "course label (required)")
	askCmd.MarkFlagRequired("course")
	rootCmd.AddCommand(askCmd)
}
