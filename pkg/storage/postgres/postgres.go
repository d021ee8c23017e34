// Package postgres provides a PostgreSQL implementation of storage.RecordStore.
// It uses pgx/v5 for connection pooling.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xutq/Raycast-Easydict/pkg/storage"
)

// Store is a PostgreSQL-backed RecordStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.RecordStore at compile time.
var _ storage.RecordStore = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// SaveRecord persists a completed translation.
func (s *Store) SaveRecord(ctx context.Context, rec *storage.Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO translations (
			id, source_text, from_language, to_language,
			model, mode, translated_text, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		rec.ID, rec.SourceText, rec.FromLanguage, rec.ToLanguage,
		rec.Model, rec.Mode, rec.TranslatedText, rec.DurationMS, rec.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by ID.
func (s *Store) GetRecord(ctx context.Context, id string) (*storage.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, source_text, from_language, to_language,
		       model, mode, translated_text, duration_ms, created_at
		FROM translations
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying record: %w", err)
	}
	return rec, nil
}

// RecentRecords returns up to limit records, newest first.
func (s *Store) RecentRecords(ctx context.Context, limit int) ([]*storage.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, source_text, from_language, to_language,
		       model, mode, translated_text, duration_ms, created_at
		FROM translations
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []*storage.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (*storage.Record, error) {
	var rec storage.Record
	err := row.Scan(
		&rec.ID, &rec.SourceText, &rec.FromLanguage, &rec.ToLanguage,
		&rec.Model, &rec.Mode, &rec.TranslatedText, &rec.DurationMS, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
