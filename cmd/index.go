package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akelani/classchat/internal/indexer"
	"github.com/akelani/classchat/internal/progress"
)

var indexCourse string

var indexCmd = &cobra.Command{
	Use:   "index [materials-dir]",
	Short: "Index a directory of course materials into the vector store",
	Long: `Walks the given directory, splits every material file into pages,
embeds them, and stores them under one namespace per document plus the
course-wide "All Materials" namespace. The index is persisted to the
data directory and picked up by serve, ask, and mcp.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		materialsDir := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		index, err := openIndex(cfg, embedder)
		if err != nil {
			return err
		}

		ix := indexer.New(index, progress.NewReporter())
		summary, err := ix.Run(cmd.Context(), indexer.Config{
			Course:  indexCourse,
			RootDir: materialsDir,
			Include: cfg.Materials.Include,
			Exclude: cfg.Materials.Exclude,
		})
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		if err := index.Persist(cfg.DataDir); err != nil {
			return fmt.Errorf("persisting index: %w", err)
		}

		fmt.Printf("Indexed %d files (%d pages) for %s\n", summary.Files, summary.Pages, indexCourse)
		if verbose {
			fmt.Printf("Namespaces: %s\n", strings.Join(summary.Namespaces, ", "))
		}
		fmt.Printf("Add the new namespaces to %s so retrieval can see them.\n", cfg.CatalogPath)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexCourse, "course", "", "course label (required)")
	indexCmd.MarkFlagRequired("course")
	rootCmd.AddCommand(indexCmd)
}
