package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps documents as JSONB rows of the documents table, one row per
// (collection, id).
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, fields, created_at, updated_at)
		VALUES ($1, $2::jsonb, NOW(), NOW())
		RETURNING id::text
	`
	var id string
	if err := s.pool.QueryRow(ctx, query, collection, string(body)).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to create document in %s: %w", collection, err)
	}
	return id, nil
}

func (s *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	query := `
		SELECT id::text, fields
		FROM documents
		WHERE collection = $1
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		fields := Fields{}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return docs, nil
}

// Update merges fields into the stored document, like a Firestore update.
func (s *Postgres) Update(ctx context.Context, collection, id string, fields Fields) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		UPDATE documents
		SET fields = fields || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id::text = $2
	`
	result, err := s.pool.Exec(ctx, query, collection, id, string(body))
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id::text = $2`
	if _, err := s.pool.Exec(ctx, query, collection, id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}
