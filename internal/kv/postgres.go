package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/repit/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const createTableStmt = `
	CREATE TABLE IF NOT EXISTS repit_kv (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Migrate creates the key-value table if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableStmt); err != nil {
		return fmt.Errorf("create repit_kv table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.postgres.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var value []byte
	err = s.db.QueryRow(ctx, `SELECT value FROM repit_kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres get [%s]: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO repit_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("postgres set [%s]: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Del(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM repit_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres del [%s]: %w", key, err)
	}
	return nil
}

// Update locks the row for the duration of the transaction. When the key does
// not exist yet, a concurrent insert of the same key is reported as ErrConflict.
func (s *PostgresStore) Update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.postgres.update")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var current []byte
	exists := true
	err = tx.QueryRow(ctx, `SELECT value FROM repit_kv WHERE key = $1 FOR UPDATE`, key).Scan(&current)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("postgres select [%s]: %w", key, err)
		}
		current, exists = nil, false
	}

	next, err := fn(current, exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = tx.Exec(ctx, `UPDATE repit_kv SET value = $2, updated_at = now() WHERE key = $1`, key, next)
		if err != nil {
			return fmt.Errorf("postgres update [%s]: %w", key, err)
		}
		return nil
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO repit_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO NOTHING
	`, key, next)
	if err != nil {
		return fmt.Errorf("postgres insert [%s]: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
