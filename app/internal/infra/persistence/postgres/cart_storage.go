package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// CartStorage keeps cart blobs in a PostgreSQL table.
type CartStorage struct {
	pool *pgxpool.Pool
}

func NewCartStorage(pool *pgxpool.Pool) *CartStorage {
	return &CartStorage{pool: pool}
}

// Connect opens a pool for dsn and checks it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "pg connect")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "pg ping")
	}
	return pool, nil
}

func (s *CartStorage) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cart_blobs (
			storage_key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return errors.Wrap(err, "pg create cart_blobs")
}

func (s *CartStorage) Read(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM cart_blobs WHERE storage_key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "pg read %q", key)
	}
	return value, true, nil
}

func (s *CartStorage) Write(ctx context.Context, key string, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_blobs (storage_key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (storage_key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return errors.Wrapf(err, "pg write %q", key)
}

func (s *CartStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
