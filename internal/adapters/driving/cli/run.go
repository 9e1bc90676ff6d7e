package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runQuestion string

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Ingest a corpus and answer the standing question in one pass",
	Long: `Run performs the full pipeline in a single process: ingest the
corpus under the given path (default: the configured corpus path),
answer the standing question over it, and append the result to the
configured CSV sinks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runQuestion, "question", "q", "", "question to answer (defaults to the standing casualty question)")
	runCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of chunks to retrieve (defaults to the configured value)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := appConfig.Corpus.Path
	if len(args) > 0 {
		path = args[0]
	}

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Runtime.Config().CanRetrieve() {
		return fmt.Errorf("no embedding provider configured; set one in config or environment")
	}

	stats, err := app.Ingest.IngestPath(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}
	printIngestStats(cmd, path, stats)
	fmt.Fprintln(cmd.OutOrStdout())

	question := strings.TrimSpace(runQuestion)
	if question == "" {
		question = app.question()
	}
	return askAndRecord(cmd, app, question)
}
