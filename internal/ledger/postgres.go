package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the ledger in a price_ledger table. Save
// replaces the stored snapshot inside a single transaction, matching
// the full-rewrite semantics of the file backend.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS price_ledger (
		   external_id TEXT PRIMARY KEY,
		   price_text  TEXT NOT NULL,
		   updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		 )`)
	if err != nil {
		return fmt.Errorf("ensure price_ledger schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT external_id, price_text FROM price_ledger`)
	if err != nil {
		return nil, fmt.Errorf("load price ledger: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var id, priceText string
		if err := rows.Scan(&id, &priceText); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		entries[id] = priceText
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ledger rows: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Save(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE price_ledger`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	batch := &pgx.Batch{}
	for id, priceText := range entries {
		batch.Queue(
			`INSERT INTO price_ledger (external_id, price_text, updated_at)
			 VALUES ($1, $2, NOW())`,
			id, priceText)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write ledger batch: %w", err)
	}

	return tx.Commit(ctx)
}
