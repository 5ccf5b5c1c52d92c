package cli

import (
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trunov/thumbd/internal/entities"
	"github.com/trunov/thumbd/internal/jobstore"
	"github.com/trunov/thumbd/internal/s3store"
)

// NewEnqueueCmd uploads a local file and inserts the matching pending
// job, standing in for the web producer when testing or backfilling.
func NewEnqueueCmd(cfgFile *string) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "enqueue <file>",
		Short: "Upload a file and queue it for thumbnailing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			mime := mimetype.Detect(data)
			key := fmt.Sprintf("user-uploads/%s/posts/%s%s", user, uuid.New(), mime.Extension())

			ctx := cmd.Context()
			store, err := s3store.New(ctx, &cfg.S3)
			if err != nil {
				return err
			}
			if err := store.Upload(ctx, key, mime.String(), data); err != nil {
				return err
			}

			jobs, err := jobstore.New(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer jobs.Close()

			j := entities.Job{
				ID:         uuid.New(),
				SourceKey:  key,
				SourceMime: mime.String(),
				// The worker decides eligibility; non-images are parked
				// with a clean skip on their first claim.
				Pending: true,
			}
			if err := jobs.Insert(ctx, j); err != nil {
				return err
			}

			fmt.Printf("Job enqueued: %s (%s, %s)\n", j.ID, key, mime.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "local", "owner segment for the object key")
	return cmd
}
