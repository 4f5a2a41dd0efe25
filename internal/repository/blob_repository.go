package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// DocumentKey is the fixed key under which the school document is stored.
const DocumentKey = "school-data"

// BlobRepository stores the full school document as a single jsonb row.
type BlobRepository struct {
	db *sqlx.DB
}

// NewBlobRepository creates a new instance of BlobRepository.
func NewBlobRepository(db *sqlx.DB) *BlobRepository {
	return &BlobRepository{db: db}
}

// Get returns the stored document, or sql.ErrNoRows when none exists yet.
func (r *BlobRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	const query = `SELECT document FROM school_documents WHERE key = $1 LIMIT 1`
	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get document %s: %w", key, err)
	}
	return json.RawMessage(raw), nil
}

// Save overwrites the stored document for the key.
func (r *BlobRepository) Save(ctx context.Context, key string, document json.RawMessage, updatedAt time.Time) error {
	const query = `INSERT INTO school_documents (key, document, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, []byte(document), updatedAt); err != nil {
		return fmt.Errorf("save document %s: %w", key, err)
	}
	return nil
}
