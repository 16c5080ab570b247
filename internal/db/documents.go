package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/statute-enricher/internal/types"
)

// ListBatches returns the distinct batch names present in the document store,
// in lexical order.
func (db *DB) ListBatches(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT batch FROM statute_documents ORDER BY batch`)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan batch name: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// CountDocuments returns the number of documents in a batch.
func (db *DB) CountDocuments(ctx context.Context, batch string) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM statute_documents WHERE batch = $1`, batch,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in %s: %w", batch, err)
	}
	return count, nil
}

// CountMissingDate returns the number of documents in a batch whose canonical
// date is absent or empty.
func (db *DB) CountMissingDate(ctx context.Context, batch string) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM statute_documents
		 WHERE batch = $1 AND COALESCE(doc->>'date', '') = ''`, batch,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count missing-date documents in %s: %w", batch, err)
	}
	return count, nil
}

// DocumentCursor iterates a batch's documents in stable id order without
// loading the whole batch into memory.
type DocumentCursor struct {
	rows pgx.Rows
	id   string
	doc  types.Statute
	err  error
}

// Next advances the cursor; it returns false at the end or on error.
func (c *DocumentCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	var raw []byte
	if err := c.rows.Scan(&c.id, &raw); err != nil {
		c.err = fmt.Errorf("failed to scan document row: %w", err)
		return false
	}
	c.doc = types.Statute{}
	if err := json.Unmarshal(raw, &c.doc); err != nil {
		c.err = fmt.Errorf("failed to decode document %s: %w", c.id, err)
		return false
	}
	return true
}

// Document returns the current document id and decoded statute.
func (c *DocumentCursor) Document() (string, types.Statute) {
	return c.id, c.doc
}

// Err returns the first error encountered during iteration.
func (c *DocumentCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

// Close releases the underlying rows.
func (c *DocumentCursor) Close() {
	c.rows.Close()
}

// FindDocuments opens a cursor over a batch's documents.
func (db *DB) FindDocuments(ctx context.Context, batch string) (*DocumentCursor, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT doc_id, doc FROM statute_documents WHERE batch = $1 ORDER BY doc_id`, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents in %s: %w", batch, err)
	}
	return &DocumentCursor{rows: rows}, nil
}

// FindMissingDateDocuments opens a cursor over a batch's documents whose
// canonical date is absent or empty.
func (db *DB) FindMissingDateDocuments(ctx context.Context, batch string) (*DocumentCursor, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT doc_id, doc FROM statute_documents
		 WHERE batch = $1 AND COALESCE(doc->>'date', '') = ''
		 ORDER BY doc_id`, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to query missing-date documents in %s: %w", batch, err)
	}
	return &DocumentCursor{rows: rows}, nil
}

// FindDocument retrieves one document by batch and id.
func (db *DB) FindDocument(ctx context.Context, batch, docID string) (*types.Statute, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT doc FROM statute_documents WHERE batch = $1 AND doc_id = $2`, batch, docID,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s/%s: %w", batch, docID, notFound(err))
	}

	var st types.Statute
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", batch, docID, err)
	}
	return &st, nil
}

// UpdateDocument replaces a document's JSONB body in a single statement, so
// the write is per-document atomic.
func (db *DB) UpdateDocument(ctx context.Context, batch, docID string, st types.Statute) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", batch, docID, err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE statute_documents SET doc = $3, updated_at = NOW()
		 WHERE batch = $1 AND doc_id = $2`,
		batch, docID, raw)
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", batch, docID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update document %s/%s: %w", batch, docID, ErrNotFound)
	}
	return nil
}

// InsertDocument stores a new document in a batch.
func (db *DB) InsertDocument(ctx context.Context, batch, docID string, st types.Statute) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", batch, docID, err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO statute_documents (batch, doc_id, doc)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (batch, doc_id) DO UPDATE SET doc = $3, updated_at = NOW()`,
		batch, docID, raw)
	if err != nil {
		return fmt.Errorf("failed to insert document %s/%s: %w", batch, docID, err)
	}
	return nil
}

// UpdateDocumentDate sets the canonical date field on one document's JSONB
// body, used when applying approved review rows.
func (db *DB) UpdateDocumentDate(ctx context.Context, batch, docID, date string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE statute_documents
		 SET doc = jsonb_set(doc, '{date}', to_jsonb($3::text)), updated_at = NOW()
		 WHERE batch = $1 AND doc_id = $2`,
		batch, docID, date)
	if err != nil {
		return fmt.Errorf("failed to set date on document %s/%s: %w", batch, docID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to set date on document %s/%s: %w", batch, docID, ErrNotFound)
	}
	return nil
}
