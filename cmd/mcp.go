package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/akelani/classchat/internal/mcp"
	"github.com/akelani/classchat/internal/qa"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing course-material search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := loadCatalog(cfg)
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

		retriever := qa.NewRetriever(embedder, index, createExecutor(cfg), qa.RetrieverConfig{
			DocumentBudget:   cfg.Limits.DocumentBudget,
			PerNamespaceTopK: cfg.Limits.PerNamespaceTopK,
			MaxNamespaces:    cfg.Limits.MaxNamespaces,
		})

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "classchat MCP server started on stdio (%d courses)\n", len(cat.CourseNames()))

		srv := mcpserver.NewServer(retriever, cat)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
