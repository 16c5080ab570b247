package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/statute-enricher/internal/types"
)

// CreateSession persists a new AI search session and fills in its id.
func (db *DB) CreateSession(ctx context.Context, session *types.SearchSession) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO search_sessions (batch, total, processed, found, skipped, errored, status, diagnostic)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		session.Batch, session.Total, session.Processed, session.Found,
		session.Skipped, session.Errored, session.Status, session.Diagnostic,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create search session: %w", err)
	}
	return nil
}

// UpdateSession writes a session's counters and status back to the store.
func (db *DB) UpdateSession(ctx context.Context, session *types.SearchSession) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE search_sessions
		 SET total = $2, processed = $3, found = $4, skipped = $5, errored = $6,
		     status = $7, diagnostic = $8, completed_at = $9
		 WHERE id = $1`,
		session.ID, session.Total, session.Processed, session.Found, session.Skipped,
		session.Errored, session.Status, session.Diagnostic, session.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update search session %s: %w", session.ID, err)
	}
	return nil
}

// GetSession retrieves a search session by id.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*types.SearchSession, error) {
	var s types.SearchSession
	err := db.pool.QueryRow(ctx,
		`SELECT id, batch, total, processed, found, skipped, errored, status, diagnostic, created_at, completed_at
		 FROM search_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.Batch, &s.Total, &s.Processed, &s.Found, &s.Skipped,
		&s.Errored, &s.Status, &s.Diagnostic, &s.CreatedAt, &s.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get search session %s: %w", id, notFound(err))
	}
	return &s, nil
}

// SaveResults stores a session's per-document extraction outcomes.
func (db *DB) SaveResults(ctx context.Context, sessionID uuid.UUID, results []types.AIExtractionResult) error {
	for _, r := range results {
		_, err := db.pool.Exec(ctx,
			`INSERT INTO search_results
			   (session_id, document_id, statute_name, batch, extracted_date, confidence, method, rationale, error_message)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			sessionID, r.DocumentID, r.StatuteName, r.Batch, r.ExtractedDate,
			r.Confidence, r.Method, r.Rationale, r.Error)
		if err != nil {
			return fmt.Errorf("failed to save result for document %s: %w", r.DocumentID, err)
		}
	}
	return nil
}

// GetResults retrieves a session's extraction outcomes in insertion order.
func (db *DB) GetResults(ctx context.Context, sessionID uuid.UUID) ([]types.AIExtractionResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT document_id, statute_name, batch, extracted_date, confidence, method, rationale, error_message
		 FROM search_results WHERE session_id = $1 ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var results []types.AIExtractionResult
	for rows.Next() {
		var r types.AIExtractionResult
		if err := rows.Scan(&r.DocumentID, &r.StatuteName, &r.Batch, &r.ExtractedDate,
			&r.Confidence, &r.Method, &r.Rationale, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
