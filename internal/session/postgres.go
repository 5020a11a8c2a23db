package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aura-assist/aura-backend/internal/types"
)

// DBPool is the subset of pgxpool.Pool the store needs. Narrowed so tests
// can substitute a mock.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps checkpoints in a session_checkpoints table, one row per
// thread key, upserted on every write.
type PostgresStore struct {
	pool DBPool
}

func NewPostgresStore(pool DBPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, threadKey string) (types.RequestRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM session_checkpoints WHERE thread_key = $1`,
		threadKey,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.RequestRecord{}, ErrNotFound
	}
	if err != nil {
		return types.RequestRecord{}, fmt.Errorf("query checkpoint: %w", err)
	}

	var record types.RequestRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.RequestRecord{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Put(ctx context.Context, threadKey string, record types.RequestRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO session_checkpoints (thread_key, record, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (thread_key)
		 DO UPDATE SET record = EXCLUDED.record, updated_at = now()`,
		threadKey, data,
	)
	if err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, threadKey string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM session_checkpoints WHERE thread_key = $1`, threadKey,
	); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}
