package jobstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trunov/thumbd/internal/entities"
)

const jobColumns = `id, source_key, source_mime, thumb_key, pending, attempts, last_error, removed, created_at, updated_at`

// Store is the durable job source. The web producer inserts rows; the
// worker claims and transitions them.
type Store struct {
	dbpool *pgxpool.Pool
}

func New(ctx context.Context, databaseDSN string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &Store{dbpool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.dbpool.Ping(ctx)
}

func (s *Store) Close() {
	s.dbpool.Close()
}

// FetchPending returns up to limit claimable jobs, oldest first. A job
// is claimable while it is pending, under the attempt budget and its
// post has not been removed.
func (s *Store) FetchPending(ctx context.Context, limit, maxAttempts int) ([]entities.Job, error) {
	rows, err := s.dbpool.Query(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE pending AND attempts < $2 AND NOT removed
		ORDER BY created_at ASC
		LIMIT $1
	`, limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("query pending jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// Apply commits the outcome of one processing attempt as a single-row
// update. COALESCE keeps an already stored thumb key when the outcome
// carries none, so the key is never cleared.
func (s *Store) Apply(ctx context.Context, id uuid.UUID, o entities.Outcome) error {
	_, err := s.dbpool.Exec(ctx, `
		UPDATE jobs
		SET thumb_key = COALESCE($2, thumb_key),
		    pending = $3,
		    attempts = $4,
		    last_error = $5,
		    updated_at = now()
		WHERE id = $1
	`, id, o.ThumbKey, o.Pending, o.Attempts, o.LastError)
	if err != nil {
		return fmt.Errorf("apply outcome for job %s: %w", id, err)
	}
	return nil
}

// Insert creates a fresh pending job. Used by the enqueue command; the
// worker itself never creates rows.
func (s *Store) Insert(ctx context.Context, j entities.Job) error {
	_, err := s.dbpool.Exec(ctx, `
		INSERT INTO jobs (id, source_key, source_mime, pending)
		VALUES ($1, $2, $3, $4)
	`, j.ID, j.SourceKey, j.SourceMime, j.Pending)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// List returns recent jobs for operator inspection. With exhausted set,
// only jobs that burned through their attempt budget are returned.
func (s *Store) List(ctx context.Context, exhausted bool, maxAttempts, limit int) ([]entities.Job, error) {
	q := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE NOT removed
		ORDER BY created_at DESC
		LIMIT $1`
	args := []any{limit}
	if exhausted {
		q = `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE NOT removed AND NOT pending AND thumb_key IS NULL AND attempts >= $2
		ORDER BY created_at DESC
		LIMIT $1`
		args = append(args, maxAttempts)
	}

	rows, err := s.dbpool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// Requeue puts an exhausted job back in front of the worker. This is
// the manual intervention path; the pipeline never revives a job on
// its own.
func (s *Store) Requeue(ctx context.Context, id uuid.UUID) error {
	tag, err := s.dbpool.Exec(ctx, `
		UPDATE jobs
		SET pending = true, attempts = 0, last_error = '', updated_at = now()
		WHERE id = $1 AND NOT removed
	`, id)
	if err != nil {
		return fmt.Errorf("requeue job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found or removed", id)
	}
	return nil
}

func scanJobs(rows pgx.Rows) ([]entities.Job, error) {
	var jobs []entities.Job
	for rows.Next() {
		var j entities.Job
		if err := rows.Scan(
			&j.ID, &j.SourceKey, &j.SourceMime, &j.ThumbKey,
			&j.Pending, &j.Attempts, &j.LastError, &j.Removed,
			&j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
