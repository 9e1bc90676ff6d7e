// Package cli wires the application together behind cobra commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/conflictlab/micrag/internal/config"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.AppConfig
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "micrag",
	Short: "Retrieval-augmented analysis over the MIC news corpus",
	Long: `micrag ingests militarized interstate confrontation news articles,
indexes them for semantic retrieval, and answers analyst questions with
source provenance. Results append to CSV for downstream coding.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	// Best effort; a missing .env is not an error
	_ = godotenv.Load()
	return rootCmd.Execute()
}
