package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// CartStorage keeps cart blobs in a MySQL table keyed by storage key.
type CartStorage struct {
	db *sql.DB
}

func NewCartStorage(db *sql.DB) *CartStorage {
	return &CartStorage{db: db}
}

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "mysql open")
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "mysql ping")
	}
	return db, nil
}

func (r *CartStorage) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS cart_blobs (
            storage_key VARCHAR(191) NOT NULL PRIMARY KEY,
            value LONGTEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
        )
    `)
	return errors.Wrap(err, "mysql create cart_blobs")
}

func (r *CartStorage) Read(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM cart_blobs WHERE storage_key = ?`, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "mysql read %q", key)
	}
	return value, true, nil
}

func (r *CartStorage) Write(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO cart_blobs (storage_key, value)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE value = VALUES(value)
    `, key, value)
	return errors.Wrapf(err, "mysql write %q", key)
}

func (r *CartStorage) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
