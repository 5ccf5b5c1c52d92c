package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trunov/thumbd/internal/jobstore"
)

func NewJobsCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage thumbnail jobs",
	}
	cmd.AddCommand(newJobsListCmd(cfgFile), newJobsRetryCmd(cfgFile))
	return cmd
}

func newJobsListCmd(cfgFile *string) *cobra.Command {
	var failed bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			jobs, err := jobstore.New(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer jobs.Close()

			list, err := jobs.List(ctx, failed, cfg.Worker.MaxAttempts, limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No jobs found.")
				return nil
			}

			for _, j := range list {
				state := "done"
				if j.Pending {
					state = "pending"
				} else if j.ThumbKey == nil && j.Attempts > 0 {
					state = "failed"
				}
				fmt.Printf("%s | %-7s | attempts=%d/%d | %s | %s\n",
					j.ID, state, j.Attempts, cfg.Worker.MaxAttempts,
					humanize.Time(j.CreatedAt), j.SourceKey)
				if j.LastError != "" {
					fmt.Printf("    last error: %s\n", j.LastError)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failed, "failed", false, "only jobs that exhausted their retry budget")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of jobs to show")
	return cmd
}

// The worker never revives a parked job; this is the manual path for
// jobs that exhausted their attempts.
func newJobsRetryCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <jobID>",
		Short: "Put an exhausted job back in the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id: %w", err)
			}

			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			jobs, err := jobstore.New(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer jobs.Close()

			if err := jobs.Requeue(ctx, id); err != nil {
				return err
			}
			fmt.Println("Job returned to queue:", id)
			return nil
		},
	}
}
