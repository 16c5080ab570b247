package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/statute-enricher/internal/db"
	"github.com/jonathan/statute-enricher/internal/types"
)

// DocumentStore is the capability surface the orchestrator needs from the
// document store. Tests substitute an in-memory fake.
type DocumentStore interface {
	ListBatches(ctx context.Context) ([]string, error)
	CountDocuments(ctx context.Context, batch string) (int, error)
	FindDocuments(ctx context.Context, batch string) (DocumentIterator, error)
	UpdateDocument(ctx context.Context, batch, docID string, st types.Statute) error
}

// DocumentIterator walks one batch's documents in store order.
type DocumentIterator interface {
	Next() bool
	Document() (string, types.Statute)
	Err() error
	Close()
}

// JobStore persists job lifecycle state so a separate poller can resume or
// report on a run.
type JobStore interface {
	CreateJob(ctx context.Context, job *types.EnrichmentJob) error
	UpdateJob(ctx context.Context, job *types.EnrichmentJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*types.EnrichmentJob, error)
}

// dbStore adapts *db.DB to DocumentStore; only FindDocuments needs wrapping
// because it returns a concrete cursor.
type dbStore struct {
	*db.DB
}

func (s dbStore) FindDocuments(ctx context.Context, batch string) (DocumentIterator, error) {
	return s.DB.FindDocuments(ctx, batch)
}

// NewDBStore wraps a database handle as a DocumentStore.
func NewDBStore(database *db.DB) DocumentStore {
	return dbStore{database}
}
