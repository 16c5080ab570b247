// Package pipeline provides the batch orchestrator that drives field
// migration, date merging, and AI date search over the statute corpus.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/statute-enricher/internal/aisearch"
	"github.com/jonathan/statute-enricher/internal/dates"
	"github.com/jonathan/statute-enricher/internal/migrate"
	"github.com/jonathan/statute-enricher/internal/types"
)

// DefaultBatchPrefix is the naming convention matched in "all" mode.
const DefaultBatchPrefix = "batch_"

// DefaultMinConfidence is the threshold above which an AI-extracted date is
// applied directly; lower-confidence results are left for human review.
const DefaultMinConfidence = 0.7

// ProgressEvent represents a progress update during an orchestrator run.
type ProgressEvent struct {
	Stage      string  `json:"stage"`
	Batch      string  `json:"batch,omitempty"`
	DocumentID string  `json:"document_id,omitempty"`
	Processed  int     `json:"processed"`
	Total      int     `json:"total"`
	Percent    float64 `json:"percent"`
	Message    string  `json:"message,omitempty"`
}

// ProgressCallback is called when orchestrator progress occurs.
type ProgressCallback func(event ProgressEvent)

// Stages reported in progress events.
const (
	StageCounting  = "counting"
	StageDocument  = "document"
	StageBatchDone = "batch_done"
	StageError     = "error"
	StageCompleted = "completed"
)

// RunOptions holds configuration for one orchestrator run.
type RunOptions struct {
	Mode             string // "single" or "all"
	Batch            string // required in single mode
	BatchPrefix      string // naming convention for all mode; defaults to DefaultBatchPrefix
	DryRun           bool   // run every transformation but suppress writes
	GenerateMetadata bool   // attach provenance metadata to enriched documents
	MinConfidence    float64
	OnProgress       ProgressCallback
}

// Orchestrator wires the document store, job persistence, and the optional AI
// date search engine. A nil Engine disables the AI fallback; a nil Jobs store
// keeps job state in memory only.
type Orchestrator struct {
	Store  DocumentStore
	Jobs   JobStore
	Engine *aisearch.Engine
}

// Run processes the selected batches sequentially and returns the terminal
// job record. Batch-level failures are recorded and processing continues;
// the job's terminal status is failed if any batch failed. The error return
// is reserved for fatal conditions (store loss, cancellation).
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*types.EnrichmentJob, error) {
	emit := func(ev ProgressEvent) {
		if opts.OnProgress != nil {
			opts.OnProgress(ev)
		}
	}
	if opts.MinConfidence == 0 {
		opts.MinConfidence = DefaultMinConfidence
	}

	batches, err := o.discoverBatches(ctx, opts)
	if err != nil {
		return nil, err
	}

	job := &types.EnrichmentJob{
		Mode:    opts.Mode,
		Batches: batches,
		Status:  types.JobStatusQueued,
		DryRun:  opts.DryRun,
	}
	if o.Jobs != nil {
		if err := o.Jobs.CreateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to create job record: %w", err)
		}
	}

	// Total is computed up front so percentage-complete is always computable.
	total, err := o.countTotal(ctx, batches)
	if err != nil {
		return o.failJob(ctx, job, fmt.Errorf("failed to count documents: %w", err))
	}
	job.TotalDocuments = total
	job.Status = types.JobStatusRunning
	o.saveJob(ctx, job)
	emit(ProgressEvent{Stage: StageCounting, Total: total,
		Message: fmt.Sprintf("counted %d documents across %d batches", total, len(batches))})

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return o.failJob(ctx, job, err)
		}

		if err := o.runBatch(ctx, job, batch, opts, emit); err != nil {
			if ctx.Err() != nil {
				return o.failJob(ctx, job, ctx.Err())
			}
			job.FailedBatches = append(job.FailedBatches, batch)
			msg := err.Error()
			emit(ProgressEvent{Stage: StageError, Batch: batch,
				Processed: job.Processed, Total: job.TotalDocuments,
				Percent: percent(job.Processed, job.TotalDocuments),
				Message: fmt.Sprintf("batch failed: %s", msg)})
		}
		o.saveJob(ctx, job)
		emit(ProgressEvent{Stage: StageBatchDone, Batch: batch,
			Processed: job.Processed, Total: job.TotalDocuments,
			Percent: percent(job.Processed, job.TotalDocuments)})
	}

	now := time.Now()
	job.CompletedAt = &now
	if len(job.FailedBatches) > 0 {
		job.Status = types.JobStatusFailed
		msg := fmt.Sprintf("%d of %d batches failed: %s",
			len(job.FailedBatches), len(batches), strings.Join(job.FailedBatches, ", "))
		job.ErrorMessage = &msg
	} else {
		job.Status = types.JobStatusCompleted
	}
	o.saveJob(ctx, job)

	emit(ProgressEvent{Stage: StageCompleted,
		Processed: job.Processed, Total: job.TotalDocuments,
		Percent: percent(job.Processed, job.TotalDocuments),
		Message: fmt.Sprintf("%s: processed %d, found %d, errored %d",
			job.Status, job.Processed, job.Found, job.Errored)})
	return job, nil
}

// discoverBatches resolves the target batch set for the run.
func (o *Orchestrator) discoverBatches(ctx context.Context, opts RunOptions) ([]string, error) {
	switch opts.Mode {
	case types.ModeSingle:
		if opts.Batch == "" {
			return nil, fmt.Errorf("single mode requires a batch name")
		}
		return []string{opts.Batch}, nil
	case types.ModeAll:
		prefix := opts.BatchPrefix
		if prefix == "" {
			prefix = DefaultBatchPrefix
		}
		all, err := o.Store.ListBatches(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list batches: %w", err)
		}
		var matched []string
		for _, b := range all {
			if strings.HasPrefix(b, prefix) {
				matched = append(matched, b)
			}
		}
		return matched, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want %q or %q)", opts.Mode, types.ModeSingle, types.ModeAll)
	}
}

// countTotal sums per-batch document counts; batches are counted in parallel
// since counting is read-only.
func (o *Orchestrator) countTotal(ctx context.Context, batches []string) (int, error) {
	counts := make([]int, len(batches))
	g, gCtx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			n, err := o.Store.CountDocuments(gCtx, batch)
			if err != nil {
				return fmt.Errorf("batch %s: %w", batch, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// runBatch processes one batch's documents in cursor order. Per-document
// failures become error events and increment the errored counter; only a
// batch-level failure (cursor cannot be opened or read) is returned.
func (o *Orchestrator) runBatch(ctx context.Context, job *types.EnrichmentJob, batch string, opts RunOptions, emit ProgressCallback) error {
	cursor, err := o.Store.FindDocuments(ctx, batch)
	if err != nil {
		return err
	}
	defer cursor.Close()

	for cursor.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		docID, doc := cursor.Document()
		found, err := o.processDocument(ctx, batch, docID, doc, opts)
		job.Processed++
		if err != nil {
			job.Errored++
			emit(ProgressEvent{Stage: StageError, Batch: batch, DocumentID: docID,
				Processed: job.Processed, Total: job.TotalDocuments,
				Percent: percent(job.Processed, job.TotalDocuments),
				Message: err.Error()})
		} else {
			if found {
				job.Found++
			}
			emit(ProgressEvent{Stage: StageDocument, Batch: batch, DocumentID: docID,
				Processed: job.Processed, Total: job.TotalDocuments,
				Percent: percent(job.Processed, job.TotalDocuments)})
		}
		o.saveJob(ctx, job)
	}
	return cursor.Err()
}

// processDocument applies field migration, date merge, and the conditional AI
// date fallback to one document, then persists it unless this is a dry run.
// Returns whether the document ended up with a canonical date.
func (o *Orchestrator) processDocument(ctx context.Context, batch, docID string, doc types.Statute, opts RunOptions) (bool, error) {
	migrated, changed := migrate.PromoteCommonFields(doc)

	_, hadPrimary := migrated.Extra[dates.PrimaryField]
	_, hadSecondary := migrated.Extra[dates.SecondaryField]
	merged := dates.Merge(migrated)
	if hadPrimary || hadSecondary || merged.Date != migrated.Date {
		changed = true
	}

	if merged.Date == "" && o.Engine != nil {
		result, err := o.Engine.ExtractOne(ctx, aisearch.DocumentFromStatute(docID, batch, merged))
		if err != nil {
			return false, fmt.Errorf("document %s: %w", docID, err)
		}
		if result.ExtractedDate != nil && result.Confidence >= opts.MinConfidence {
			merged.Date = *result.ExtractedDate
			if opts.GenerateMetadata {
				merged.DateMeta = &types.DateMetadata{
					ExtractionMethod: types.ExtractionMethodAI,
					Confidence:       result.Confidence,
					Rationale:        result.Rationale,
				}
			}
			changed = true
		}
	}

	if !opts.GenerateMetadata {
		merged.DateMeta = nil
	}

	if changed && !opts.DryRun {
		if err := o.Store.UpdateDocument(ctx, batch, docID, merged); err != nil {
			return false, fmt.Errorf("document %s: %w", docID, err)
		}
	}
	return merged.Date != "", nil
}

// failJob marks a job failed with an error message and returns the original error.
func (o *Orchestrator) failJob(ctx context.Context, job *types.EnrichmentJob, err error) (*types.EnrichmentJob, error) {
	now := time.Now()
	job.CompletedAt = &now
	job.Status = types.JobStatusFailed
	msg := err.Error()
	job.ErrorMessage = &msg
	o.saveJob(context.WithoutCancel(ctx), job)
	return job, err
}

// saveJob best-effort persists job state; orchestration never stops because a
// progress write failed.
func (o *Orchestrator) saveJob(ctx context.Context, job *types.EnrichmentJob) {
	if o.Jobs != nil {
		_ = o.Jobs.UpdateJob(ctx, job)
	}
}

func percent(processed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(processed) / float64(total) * 100
}
