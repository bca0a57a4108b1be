package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// Schema is the table layout used by the PostgreSQL repository.
const Schema = `
	CREATE TABLE IF NOT EXISTS snapshot_entities (
		kind     TEXT        NOT NULL,
		key      TEXT        NOT NULL,
		payload  JSONB       NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (kind, key)
	);
`

// postgresRepository stores snapshot records in a single table.
type postgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresRepository creates a PostgreSQL-backed snapshot repository.
func NewPostgresRepository(pool *pgxpool.Pool, logger zerolog.Logger) SnapshotRepository {
	return &postgresRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "postgres").Logger(),
	}
}

// EnsureSchema creates the snapshot table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}

// Save replaces all rows in one transaction.
func (r *postgresRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	records, err := encodeRecords(snap)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM snapshot_entities`); err != nil {
		r.logger.Error().Err(err).Msg("failed to clear snapshot")
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshot_entities (kind, key, payload)
		VALUES ($1, $2, $3::jsonb)
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.Kind, rec.Key, string(rec.Payload))
	}

	results := tx.SendBatch(ctx, batch)
	for _, rec := range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Error().
				Err(err).
				Str("kind", rec.Kind).
				Str("key", rec.Key).
				Msg("failed to insert snapshot record")
			return fmt.Errorf("failed to insert snapshot record %s/%s: %w", rec.Kind, rec.Key, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit snapshot")
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	r.logger.Debug().Int("records", len(records)).Msg("snapshot saved")
	return nil
}

// Load reads every row back into a snapshot.
func (r *postgresRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	rows, err := r.pool.Query(ctx, `SELECT kind, key, payload FROM snapshot_entities`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query snapshot")
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var records []record
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.Kind, &rec.Key, &rec.Payload); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan snapshot row")
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	return decodeRecords(records)
}
