package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akelani/classchat/internal/server"
	"github.com/akelani/classchat/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ClassChat HTTP API server",
	Long: `Starts the HTTP API server exposing the chat endpoint, course and
session lookups, and a websocket chat. Requires an indexed course
(see classchat index) and a course catalog (see classchat init).`,
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

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		index, err := openIndex(cfg, embedder)
		if err != nil {
			return err
		}

		db, err := store.Open(databasePath(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		srv := server.New(
			server.Config{
				Port:         cfg.Server.Port,
				AllowAll:     cfg.Server.AllowAllOrigins,
				FreeMessages: cfg.Quota.FreeMessages,
			},
			server.ChainSettings{
				Model:            cfg.Model,
				Temperature:      0.05,
				DocumentBudget:   cfg.Limits.DocumentBudget,
				PerNamespaceTopK: cfg.Limits.PerNamespaceTopK,
				MaxNamespaces:    cfg.Limits.MaxNamespaces,
				HistoryBuffer:    cfg.Limits.HistoryBufferSize,
				PromptCharBudget: cfg.Limits.PromptCharBudget,
			},
			store.New(db),
			cat,
			embedder,
			index,
			provider,
			createExecutor(cfg),
		)

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-done
			log.Printf("server: shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("server: shutdown: %v", err)
			}
		}()

		return srv.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
