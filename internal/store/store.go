// Package store persists scraped match records to PostgreSQL. It is a
// write-only sink; nothing is read back on later runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/match"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// recordColumns is the COPY column order; position keeps the scrape order.
var recordColumns = []string{
	"run_id", "position", "account_label", "player_id", "hero",
	"result", "game_mode", "duration", "start_time", "collected_at",
}

// Store writes match records into a single table.
type Store struct {
	pool  DBPool
	table pgx.Identifier
	log   *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, table string, logger *zap.Logger) (*Store, error) {
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool:  pool,
		table: pgx.Identifier{table},
		log:   logger.Named("store"),
	}, nil
}

func (s *Store) schemaSQL() string {
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            run_id        UUID        NOT NULL,
            position      INTEGER     NOT NULL,
            account_label TEXT        NOT NULL,
            player_id     TEXT        NOT NULL,
            hero          TEXT        NOT NULL,
            result        TEXT        NOT NULL,
            game_mode     TEXT        NOT NULL,
            duration      TEXT        NOT NULL,
            start_time    TEXT        NOT NULL,
            collected_at  TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (run_id, position)
        );
    `, s.table.Sanitize())
}

// EnsureSchema creates the records table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, s.schemaSQL()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table.Sanitize(), err)
	}
	return nil
}

// SaveRecords copies every record of a run inside one transaction. Either all
// records are stored or none.
func (s *Store) SaveRecords(ctx context.Context, runID uuid.UUID, records []match.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	collectedAt := time.Now().UTC()
	rows := make([][]interface{}, len(records))
	for i, r := range records {
		rows[i] = []interface{}{
			runID, i, r.AccountLabel, r.PlayerID, r.Hero,
			string(r.Result), r.GameMode, r.Duration, r.StartTime, collectedAt,
		}
	}

	copyCount, err := tx.CopyFrom(ctx, s.table, recordColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy match records: %w", err)
	}
	if int(copyCount) != len(records) {
		return fmt.Errorf("mismatch in copied records count: expected %d, got %d", len(records), copyCount)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Info("Stored match records.", zap.String("run_id", runID.String()), zap.Int("records", len(records)))
	return nil
}
