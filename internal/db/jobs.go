package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/statute-enricher/internal/types"
)

// CreateJob persists a new enrichment job and fills in its generated id and
// timestamps.
func (db *DB) CreateJob(ctx context.Context, job *types.EnrichmentJob) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO enrichment_jobs
		   (mode, batches, total_documents, processed, found, errored, failed_batches, status, dry_run)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		job.Mode, job.Batches, job.TotalDocuments, job.Processed, job.Found,
		job.Errored, job.FailedBatches, job.Status, job.DryRun,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// UpdateJob writes the job's mutable counters and status back to the store.
func (db *DB) UpdateJob(ctx context.Context, job *types.EnrichmentJob) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE enrichment_jobs
		 SET total_documents = $2, processed = $3, found = $4, errored = $5,
		     failed_batches = $6, status = $7, error_message = $8,
		     completed_at = $9, updated_at = NOW()
		 WHERE id = $1`,
		job.ID, job.TotalDocuments, job.Processed, job.Found, job.Errored,
		job.FailedBatches, job.Status, job.ErrorMessage, job.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}
	return nil
}

// GetJob retrieves a job by id.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.EnrichmentJob, error) {
	var job types.EnrichmentJob
	err := db.pool.QueryRow(ctx,
		`SELECT id, mode, batches, total_documents, processed, found, errored,
		        failed_batches, status, dry_run, error_message, created_at, updated_at, completed_at
		 FROM enrichment_jobs WHERE id = $1`, id,
	).Scan(&job.ID, &job.Mode, &job.Batches, &job.TotalDocuments, &job.Processed,
		&job.Found, &job.Errored, &job.FailedBatches, &job.Status, &job.DryRun,
		&job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, notFound(err))
	}
	return &job, nil
}
