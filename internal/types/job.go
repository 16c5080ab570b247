package types

import (
	"time"

	"github.com/google/uuid"
)

// Job status constants
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Run mode constants for the batch orchestrator
const (
	ModeSingle = "single"
	ModeAll    = "all"
)

// EnrichmentJob tracks one orchestrator run over a set of batches.
// Counters are monotonically non-decreasing for the lifetime of the job.
type EnrichmentJob struct {
	ID             uuid.UUID  `json:"id"`
	Mode           string     `json:"mode"`
	Batches        []string   `json:"batches"`
	TotalDocuments int        `json:"total_documents"`
	Processed      int        `json:"processed"`
	Found          int        `json:"found"`
	Errored        int        `json:"errored"`
	FailedBatches  []string   `json:"failed_batches,omitempty"`
	Status         string     `json:"status"`
	DryRun         bool       `json:"dry_run"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// SearchSession tracks one AI date-search run over a batch, persisted so a
// separate poller can report on it and so results survive for review.
type SearchSession struct {
	ID          uuid.UUID  `json:"id"`
	Batch       string     `json:"batch"`
	Total       int        `json:"total"`
	Processed   int        `json:"processed"`
	Found       int        `json:"found"`
	Skipped     int        `json:"skipped"`
	Errored     int        `json:"errored"`
	Status      string     `json:"status"`
	Diagnostic  string     `json:"diagnostic,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AIExtractionResult is the per-document outcome of an AI date search.
type AIExtractionResult struct {
	DocumentID    string  `json:"document_id"`
	StatuteName   string  `json:"statute_name"`
	Batch         string  `json:"batch,omitempty"`
	ExtractedDate *string `json:"extracted_date"`
	Confidence    float64 `json:"confidence"`
	Method        string  `json:"method"`
	Rationale     string  `json:"rationale,omitempty"`
	Error         *string `json:"error,omitempty"`
}

// ExtractionMethodAI marks results produced by the AI date search engine.
const ExtractionMethodAI = "ai"
