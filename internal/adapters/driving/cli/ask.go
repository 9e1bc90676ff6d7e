package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/retry"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question over the ingested corpus",
	Long: `Ask retrieves the most relevant chunks for the question, generates
an answer grounded in them, and appends the result to the configured
CSV sinks. Without an argument the standing casualty question is used.

Note that the vector index is process-local: run "micrag run" to
ingest and ask in one invocation, or keep a Postgres-backed corpus.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of chunks to retrieve (defaults to the configured value)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	question := app.question()
	if len(args) > 0 {
		question = strings.Join(args, " ")
	}

	return askAndRecord(cmd, app, question)
}

// askAndRecord runs one retrieval-augmented answer, prints it, and
// flushes it to the result sinks. Shared by ask and run.
func askAndRecord(cmd *cobra.Command, app *App, question string) error {
	ctx := cmd.Context()

	if !app.Runtime.Config().CanRetrieve() {
		return fmt.Errorf("no embedding provider configured; set one in config or environment")
	}
	if !app.Runtime.Config().CanGenerate() {
		return fmt.Errorf("no LLM provider configured; set one in config or environment")
	}

	k := askTopK
	if k <= 0 {
		k = app.Config.Retrieval.TopK
	}

	// Provider hiccups are worth a bounded retry; validation errors
	// are not and propagate immediately
	var result *domain.QueryResult
	err := retry.Do(ctx, retry.DefaultPolicy(), func(ctx context.Context) error {
		var answerErr error
		result, answerErr = app.Engine.Answer(ctx, question, k)
		return answerErr
	})
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Question: %s\n\n", result.Question)
	fmt.Fprintln(out, result.Answer)
	if result.LowConfidence {
		fmt.Fprintln(out, "\n(low confidence: no supporting chunks were retrieved)")
	}
	fmt.Fprintf(out, "\nSupporting chunks: %s\n", strings.Join(result.SupportingChunkIDs, "; "))
	fmt.Fprintf(out, "Took: %s\n", result.Took)

	app.Recorder.Record(result)
	written, failed, err := app.Recorder.Flush(ctx)
	if err != nil {
		return fmt.Errorf("persist results (written %d, failed %d): %w", written, failed, err)
	}
	app.Logger.Info("results persisted", "written", written)
	return nil
}
