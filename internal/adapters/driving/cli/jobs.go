package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	jobsNamespace string
	jobsLimit     int
	jobsWatch     bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Show ingestion jobs",
	Long:  `Lists recent ingestion jobs, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Show one job's status",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsStatus,
}

var jobsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old finished jobs",
	Args:  cobra.NoArgs,
	RunE:  runJobsPrune,
}

func init() {
	jobsCmd.Flags().StringVarP(&jobsNamespace, "namespace", "n", "", "filter by namespace (default: all)")
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 20, "maximum number of jobs to show")
	jobsStatusCmd.Flags().BoolVar(&jobsWatch, "watch", false, "poll until the job finishes")
	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsPruneCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	ctx := context.Background()
	jobs, err := jobService.List(ctx, jobsNamespace, jobsLimit)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("No jobs found.")
		return nil
	}

	cmd.Printf("Jobs (%d):\n\n", len(jobs))
	for i := range jobs {
		printJobLine(cmd, &jobs[i])
	}
	return nil
}

// printJobLine renders one job as a listing entry.
func printJobLine(cmd *cobra.Command, job *domain.IngestJob) {
	cmd.Printf("  %s  %-10s %3d%%  %s\n", job.ID, job.State, job.Progress, job.FileName)
	switch {
	case job.State == domain.JobStateFailure && job.Error != nil:
		cmd.Printf("      failed at %s: %s\n", job.Error.Kind, job.Error.Message)
	case job.StepLabel != "":
		cmd.Printf("      %s\n", job.StepLabel)
	}
}

func runJobsStatus(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	ctx := context.Background()
	job, err := jobService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	if jobsWatch && !job.State.Terminal() {
		return watchJob(ctx, cmd, job.ID)
	}

	printJobDetails(cmd, job)
	return nil
}

// watchJob polls and prints job progress until the job is terminal.
func watchJob(ctx context.Context, cmd *cobra.Command, jobID string) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		job, err := jobService.Get(ctx, jobID)
		if err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}

		if job.State.Terminal() {
			printJobDetails(cmd, job)
			return nil
		}
		cmd.Printf("%s %3d%% %s\n", job.State, job.Progress, job.StepLabel)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printJobDetails(cmd *cobra.Command, job *domain.IngestJob) {
	cmd.Printf("Job: %s\n", job.ID)
	cmd.Printf("  State: %s\n", job.State)
	cmd.Printf("  Progress: %d%%\n", job.Progress)
	if job.StepLabel != "" {
		cmd.Printf("  Step: %s\n", job.StepLabel)
	}
	cmd.Printf("  Namespace: %s\n", job.Namespace)
	cmd.Printf("  Document: %s\n", job.DocumentID)
	cmd.Printf("  File: %s\n", job.FileName)
	cmd.Printf("  Enqueued: %s\n", job.EnqueuedAt.Format(time.RFC3339))
	if !job.FinishedAt.IsZero() {
		cmd.Printf("  Finished: %s\n", job.FinishedAt.Format(time.RFC3339))
	}
	if job.Result != nil {
		cmd.Printf("  Chunks: %d\n", job.Result.ChunkCount)
	}
	if job.Error != nil {
		cmd.Printf("  Error (%s): %s\n", job.Error.Kind, job.Error.Message)
	}
}

func runJobsPrune(cmd *cobra.Command, _ []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	ctx := context.Background()
	removed, err := jobService.Prune(ctx)
	if err != nil {
		return fmt.Errorf("failed to prune jobs: %w", err)
	}

	cmd.Printf("Pruned %d job(s).\n", removed)
	return nil
}
