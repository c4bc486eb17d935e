package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/watcher"
)

var watchNamespace string

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and keep a namespace in sync",
	Long: `Watches a directory tree and re-ingests files as they change.

New and modified files with a supported extension are submitted as
ingestion jobs after a debounce window; deleted files are removed from
the namespace. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchNamespace, "namespace", "n", "", "namespace to sync into (default \"default\")")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	namespace := watchNamespace
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}

	cfg := watcher.Config{
		Root:      args[0],
		Namespace: namespace,
	}
	if settingsService != nil {
		settings, _ := settingsService.Get() //nolint:errcheck // Best-effort, watcher has defaults
		if settings != nil {
			cfg.Debounce = settings.Watch.Debounce
			cfg.Extensions = settings.Watch.Extensions
		}
	}

	w, err := watcher.New(cfg, jobService, catalogService)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startJobRunner(cmd)

	go func() {
		for notice := range w.Notices() {
			switch notice.Op {
			case watcher.NoticeSubmitted:
				cmd.Printf("ingest %s (job %s)\n", notice.DocumentID, notice.JobID)
			case watcher.NoticeRemoved:
				cmd.Printf("remove %s\n", notice.DocumentID)
			case watcher.NoticeError:
				cmd.Printf("error %s: %v\n", notice.Path, notice.Err)
			}
		}
	}()

	cmd.Printf("Watching %s -> namespace %s. Press Ctrl+C to stop.\n", w.Root(), namespace)
	return w.Run(ctx)
}
