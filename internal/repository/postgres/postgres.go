// Package postgres implements the repository interfaces on PostgreSQL using
// pgx. Option lists and photos are native TEXT[] columns, which pgx maps
// straight to []string.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultConnectTimeout = 5 * time.Second

type Config struct {
	URL      string
	MaxConns int32
}

// DB owns the pgx pool.
type DB struct {
	pool *pgxpool.Pool
}

// New parses the connection string, creates the pool and pings the server.
// It does not migrate; call Migrate explicitly.
func New(ctx context.Context, cfg Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if poolConfig.ConnConfig.ConnectTimeout == 0 {
		poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Migrate creates the tables when they do not exist yet. It is idempotent.
// SERIAL creates the models_id_seq sequence used by the delete reset.
func (db *DB) Migrate(ctx context.Context) error {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: acquiring connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS filters (
			id           SERIAL PRIMARY KEY,
			face_types   TEXT[],
			eye_colors   TEXT[],
			skin_colors  TEXT[],
			body_types   TEXT[],
			hair_colors  TEXT[],
			hair_lengths TEXT[],
			hair_types   TEXT[],
			updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("creating filters table: %w", err)
	}

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS models (
			id          SERIAL PRIMARY KEY,
			photos      TEXT[] NOT NULL,
			face_type   TEXT NOT NULL,
			eye_color   TEXT NOT NULL,
			skin_color  TEXT NOT NULL,
			body_type   TEXT NOT NULL,
			hair_color  TEXT NOT NULL,
			hair_length TEXT NOT NULL,
			hair_type   TEXT NOT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("creating models table: %w", err)
	}

	_, err = conn.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_models_created_at ON models(created_at DESC)`)
	if err != nil {
		return fmt.Errorf("creating models index: %w", err)
	}

	return nil
}

func (db *DB) Filters() *FilterDB {
	return &FilterDB{pool: db.pool}
}

func (db *DB) Models() *ModelDB {
	return &ModelDB{pool: db.pool}
}
