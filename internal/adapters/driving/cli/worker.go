package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conflictlab/micrag/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a background worker processing queued ingestion tasks",
	Long: `Worker consumes ingestion tasks from the Redis queue and processes
them with the configured pipeline. It runs until interrupted; SIGINT
and SIGTERM trigger a graceful drain of in-flight tasks.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Queue == nil {
		return fmt.Errorf("worker requires a configured Redis queue")
	}
	if !app.Runtime.Config().CanRetrieve() {
		return fmt.Errorf("no embedding provider configured; set one in config or environment")
	}

	w := worker.New(worker.Config{
		TaskQueue:      app.Queue,
		Ingest:         app.Ingest,
		Logger:         app.Logger,
		Concurrency:    appConfig.Worker.Concurrency,
		DequeueTimeout: appConfig.Worker.DequeueTimeout,
	})

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	app.Logger.Info("worker started", "concurrency", appConfig.Worker.Concurrency)

	<-ctx.Done()
	app.Logger.Info("shutting down worker")
	w.Stop()
	w.Wait()
	return nil
}
