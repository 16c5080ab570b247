package aisearch

import (
	"context"

	"github.com/jonathan/statute-enricher/internal/types"
)

// EventType classifies progress events emitted during a search run.
type EventType string

// Event types, in lifecycle order. Error events are interleaved per document
// without aborting the run.
const (
	EventPending    EventType = "pending"
	EventProcessing EventType = "processing"
	EventError      EventType = "error"
	EventCompleted  EventType = "completed"
)

// ProgressEvent is one observable step of a search run.
type ProgressEvent struct {
	Type       EventType                 `json:"type"`
	DocumentID string                    `json:"document_id,omitempty"`
	Processed  int                       `json:"processed"`
	Total      int                       `json:"total"`
	Percent    float64                   `json:"percent"`
	Result     *types.AIExtractionResult `json:"result,omitempty"`
	Message    string                    `json:"message,omitempty"`
}

// ProgressCallback receives progress events as they occur.
type ProgressCallback func(event ProgressEvent)

// Summary is the terminal accounting of a search run.
type Summary struct {
	Total      int                        `json:"total"`
	Processed  int                        `json:"processed"`
	Found      int                        `json:"found"`
	Skipped    int                        `json:"skipped"`
	Errored    int                        `json:"errored"`
	Results    []types.AIExtractionResult `json:"results"`
	Diagnostic string                     `json:"diagnostic,omitempty"`
}

// ZeroEligibleDiagnostic distinguishes an empty candidate set from a healthy
// run; a "0 processed, completed" report must never look like success by
// accident.
const ZeroEligibleDiagnostic = "no eligible documents found: the missing-date query returned nothing, " +
	"check the batch filter before trusting this result"

// Search processes candidate documents one at a time, emitting cumulative
// progress after every document. A failure on one document becomes an error
// event and processing continues; the run itself still completes. Cancellation
// is honored between documents.
func (e *Engine) Search(ctx context.Context, docs []Document, onProgress ProgressCallback) (*Summary, error) {
	emit := func(ev ProgressEvent) {
		if onProgress != nil {
			onProgress(ev)
		}
	}

	summary := &Summary{Total: len(docs)}
	emit(ProgressEvent{Type: EventPending, Total: summary.Total})

	if len(docs) == 0 {
		summary.Diagnostic = ZeroEligibleDiagnostic
		emit(ProgressEvent{Type: EventCompleted, Message: summary.Diagnostic})
		return summary, nil
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := e.ExtractOne(ctx, doc)
		if err != nil {
			summary.Processed++
			summary.Errored++
			msg := err.Error()
			summary.Results = append(summary.Results, types.AIExtractionResult{
				DocumentID:  doc.ID,
				StatuteName: doc.StatuteName,
				Batch:       doc.Batch,
				Method:      types.ExtractionMethodAI,
				Error:       &msg,
			})
			emit(ProgressEvent{
				Type:       EventError,
				DocumentID: doc.ID,
				Processed:  summary.Processed,
				Total:      summary.Total,
				Percent:    percent(summary.Processed, summary.Total),
				Message:    msg,
			})
			continue
		}

		summary.Processed++
		if result.ExtractedDate != nil {
			summary.Found++
		} else if result.Confidence == 0 {
			summary.Skipped++
		}
		summary.Results = append(summary.Results, *result)

		emit(ProgressEvent{
			Type:       EventProcessing,
			DocumentID: doc.ID,
			Processed:  summary.Processed,
			Total:      summary.Total,
			Percent:    percent(summary.Processed, summary.Total),
			Result:     result,
		})
	}

	emit(ProgressEvent{
		Type:      EventCompleted,
		Processed: summary.Processed,
		Total:     summary.Total,
		Percent:   percent(summary.Processed, summary.Total),
	})
	return summary, nil
}

func percent(processed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(processed) / float64(total) * 100
}
