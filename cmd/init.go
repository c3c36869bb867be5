package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akelani/classchat/internal/catalog"
	"github.com/akelani/classchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize classchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure classchat and generates a .classchat.yml file, plus a starter course catalog if none exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}

		// Seed a starter catalog so serve/ask have something to load.
		if _, err := os.Stat(cfg.CatalogPath); os.IsNotExist(err) {
			if err := catalog.Default().Save(cfg.CatalogPath); err != nil {
				return fmt.Errorf("writing starter catalog: %w", err)
			}
			fmt.Printf("Starter catalog written to %s\n", cfg.CatalogPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
