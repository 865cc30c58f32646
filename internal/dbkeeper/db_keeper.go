package dbkeeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drstein77/storefront/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// DBKeeper stores durable slots in the Postgres table "slots".
type DBKeeper struct {
	pool *pgxpool.Pool
	log  Log
}

func NewDBKeeper(ctx context.Context, dsn func() string, log Log) (*DBKeeper, error) {
	addr := dsn()
	if addr == "" {
		return nil, errors.New("database dsn is empty")
	}

	if err := Migrate(addr, log); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	log.Info("Connected!")

	return &DBKeeper{
		pool: pool,
		log:  log,
	}, nil
}

func (kp *DBKeeper) Get(ctx context.Context, key string) ([]byte, error) {
	if kp.pool == nil {
		return nil, fmt.Errorf("database connection pool is nil")
	}

	var value []byte
	err := kp.pool.QueryRow(ctx, `SELECT value FROM slots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		kp.log.Error("Failed to read slot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}

	return value, nil
}

func (kp *DBKeeper) Put(ctx context.Context, key string, value []byte) error {
	if kp.pool == nil {
		return fmt.Errorf("database connection pool is nil")
	}

	stmt := `
		INSERT INTO slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := kp.pool.Exec(ctx, stmt, key, string(value)); err != nil {
		kp.log.Error("Failed to write slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}

	return nil
}

func (kp *DBKeeper) Delete(ctx context.Context, key string) error {
	if kp.pool == nil {
		return fmt.Errorf("database connection pool is nil")
	}

	tag, err := kp.pool.Exec(ctx, `DELETE FROM slots WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (kp *DBKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := kp.pool.Ping(ctx); err != nil {
		kp.log.Error("Database ping failed", zap.Error(err))
		return false
	}

	return true
}

func (kp *DBKeeper) Close() bool {
	if kp.pool != nil {
		kp.pool.Close()
		kp.log.Info("Database connection pool closed")
		return true
	}
	kp.log.Info("Attempted to close a nil database connection pool")
	return false
}
