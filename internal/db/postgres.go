package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"io.winapps.clubconsole/internal/config"
)

// InitPostgres opens the pool behind the documents table used when
// DOCUMENT_BACKEND=postgres and migrates the table.
func InitPostgres(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 1
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 5 * time.Minute

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(initCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(initCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateDocuments(initCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func migrateDocuments(ctx context.Context, pool *pgxpool.Pool) error {
	documentsTable := `
		CREATE TABLE IF NOT EXISTS documents (
			collection VARCHAR(100) NOT NULL,
			id UUID NOT NULL DEFAULT gen_random_uuid(),
			fields JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			PRIMARY KEY (collection, id)
		);
	`

	createdIndex := `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(collection, created_at);`

	for _, stmt := range []string{documentsTable, createdIndex} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate documents table: %w", err)
		}
	}
	return nil
}
