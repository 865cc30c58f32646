// Package litekeeper keeps durable slots in a local SQLite file, the
// single-user counterpart of browser local storage.
package litekeeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/drstein77/storefront/internal/storage"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

type LiteKeeper struct {
	db  *sql.DB
	log Log
}

const schema = `
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

// NewLiteKeeper opens (creating if needed) the SQLite database at path.
func NewLiteKeeper(ctx context.Context, path string, log Log) (*LiteKeeper, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// one writer keeps slot writes in call order
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create slots table: %w", err)
	}

	log.Info("SQLite slot store opened", zap.String("path", path))

	return &LiteKeeper{db: db, log: log}, nil
}

func (kp *LiteKeeper) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := kp.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		kp.log.Error("Failed to read slot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return value, nil
}

func (kp *LiteKeeper) Put(ctx context.Context, key string, value []byte) error {
	stmt := `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := kp.db.ExecContext(ctx, stmt, key, value, time.Now().UTC()); err != nil {
		kp.log.Error("Failed to write slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (kp *LiteKeeper) Delete(ctx context.Context, key string) error {
	res, err := kp.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (kp *LiteKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return kp.db.PingContext(ctx) == nil
}

func (kp *LiteKeeper) Close() bool {
	if kp.db == nil {
		return false
	}
	if err := kp.db.Close(); err != nil {
		kp.log.Error("Failed to close sqlite database", zap.Error(err))
		return false
	}
	kp.log.Info("SQLite slot store closed")
	return true
}
