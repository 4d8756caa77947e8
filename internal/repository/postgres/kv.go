package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/veriuser/internal/errs"
)

// KV implements repository.KV on the veriuser_kv table.
type KV struct{ db *DB }

// NewKV constructs a PostgreSQL-backed KV.
func NewKV(db *DB) *KV { return &KV{db: db} }

// Load returns the JSON document stored under key.
func (r *KV) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM veriuser_kv WHERE key=$1`
	var v []byte
	if err := r.db.Pool.QueryRow(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

// Save upserts the JSON document stored under key.
func (r *KV) Save(ctx context.Context, key string, data []byte) error {
	const q = `
INSERT INTO veriuser_kv (key, value, updated_at) VALUES ($1,$2,now())
ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`
	if _, err := r.db.Pool.Exec(ctx, q, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
