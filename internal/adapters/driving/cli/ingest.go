package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conflictlab/micrag/internal/core/domain"
)

var ingestEnqueue bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a corpus file or directory into the vector index",
	Long: `Ingest loads every corpus file under the given path, extracts
country and publication metadata, splits the text into overlapping
chunks, and indexes them for retrieval. With --enqueue the path is
queued for a background worker instead of being processed inline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestEnqueue, "enqueue", false, "queue the path for a background worker instead of ingesting inline")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
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

	if ingestEnqueue {
		if app.Queue == nil {
			return fmt.Errorf("--enqueue requires a configured Redis queue")
		}
		task := domain.NewIngestTask(path)
		if err := app.Queue.Enqueue(ctx, task); err != nil {
			return fmt.Errorf("enqueue ingest task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queued ingest task %s for %s\n", task.ID, path)
		return nil
	}

	if !app.Runtime.Config().CanRetrieve() {
		return fmt.Errorf("no embedding provider configured; set one in config or environment")
	}

	stats, err := app.Ingest.IngestPath(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	printIngestStats(cmd, path, stats)
	return nil
}

func printIngestStats(cmd *cobra.Command, path string, stats *domain.IngestStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ingested %s\n", path)
	fmt.Fprintf(out, "  documents: %d\n", stats.Documents)
	fmt.Fprintf(out, "  chunks:    %d\n", stats.Chunks)
	fmt.Fprintf(out, "  indexed:   %d\n", stats.Indexed)
	fmt.Fprintf(out, "  unmatched: %d\n", stats.Unmatched)
	if stats.Skipped > 0 {
		fmt.Fprintf(out, "  skipped:   %d\n", stats.Skipped)
	}
	if stats.Errors > 0 {
		fmt.Fprintf(out, "  errors:    %d\n", stats.Errors)
	}
}
