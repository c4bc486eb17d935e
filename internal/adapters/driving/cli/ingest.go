package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

var (
	ingestNamespace string
	ingestID        string
	ingestName      string
	ingestInfo      string
	ingestWait      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into a namespace",
	Long: `Submits one or more files for ingestion. Each file is normalised,
chunked, embedded and indexed, after which it can be asked about.

Ingestion runs in the background; use --wait to block until every job
finishes, or check later with 'askdoc jobs'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestNamespace, "namespace", "n", "", "namespace to ingest into (default \"default\")")
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document id, single file only (default: derived)")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "display name, single file only (default: file name)")
	ingestCmd.Flags().StringVar(&ingestInfo, "info", "", "extra routing context stored with the document")
	ingestCmd.Flags().BoolVarP(&ingestWait, "wait", "w", false, "wait for ingestion to finish, showing progress")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}
	if len(args) > 1 && (ingestID != "" || ingestName != "") {
		return errors.New("--id and --name apply to a single file only")
	}

	ctx := context.Background()
	startJobRunner(cmd)

	jobIDs := make([]string, 0, len(args))
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		job, err := jobService.Submit(ctx, driving.IngestRequest{
			Namespace:      ingestNamespace,
			DocumentID:     ingestID,
			FileName:       ingestName,
			Path:           abs,
			AdditionalInfo: ingestInfo,
		})
		if err != nil {
			return fmt.Errorf("failed to submit %s: %w", path, err)
		}

		cmd.Printf("Submitted %s as job %s (document %s)\n", filepath.Base(abs), job.ID, job.DocumentID)
		jobIDs = append(jobIDs, job.ID)
	}

	if !ingestWait {
		cmd.Println("Track progress with 'askdoc jobs'.")
		return nil
	}

	for _, id := range jobIDs {
		if err := waitForJob(ctx, cmd, id); err != nil {
			return err
		}
	}
	return nil
}

// waitForJob polls a job until it reaches a terminal state, printing
// progress as it moves.
func waitForJob(ctx context.Context, cmd *cobra.Command, jobID string) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	lastProgress := -1
	for {
		job, err := jobService.Get(ctx, jobID)
		if err != nil {
			return fmt.Errorf("failed to get job %s: %w", jobID, err)
		}

		if job.State.Terminal() {
			return printJobOutcome(cmd, job)
		}

		if job.Progress > lastProgress {
			cmd.Printf("\r%s: %3d%% %s", job.FileName, job.Progress, job.StepLabel)
			lastProgress = job.Progress
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// printJobOutcome renders a finished job. Failures come back as errors so
// the exit code reflects them.
func printJobOutcome(cmd *cobra.Command, job *domain.IngestJob) error {
	if job.State == domain.JobStateSuccess {
		cmd.Printf("\rIngested %s: %d chunks into namespace %s\n",
			job.FileName, job.Result.ChunkCount, job.Namespace)
		return nil
	}
	return fmt.Errorf("ingestion of %s failed at %s: %s",
		job.FileName, job.Error.Kind, job.Error.Message)
}
