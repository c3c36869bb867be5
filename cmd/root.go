package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "classchat",
	Short: "Course-scoped AI question answering over indexed class materials",
	Long: `ClassChat answers student questions using only the materials of a
specific course. It indexes lecture notes and readings into a semantic
vector store, retrieves the most relevant passages per question, and
generates cited answers through an LLM, with per-user message quotas
and upstream rate limiting.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".classchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
