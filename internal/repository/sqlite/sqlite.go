// Package sqlite implements the repository interfaces on top of SQLite.
//
// SQLite is the default datastore for local runs and for tests (":memory:").
// modernc.org/sqlite is a pure Go port, so no C toolchain is needed.
//
// SQLite has no array type. The option lists and photo lists are stored as
// JSON arrays in TEXT columns and decoded on read; json_array_length gives the
// photo count for list views.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB owns the connection pool. Repository views over it are returned by
// Filters and Models.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/catalog.db"  file-based database
//   - ":memory:"         in-memory database, used by tests
//
// The pool is limited to one open connection. SQLite allows a single writer,
// and an in-memory database exists only inside the connection that created
// it, so every request must land on the same one.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.Migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// Migrate creates the tables when they do not exist yet. It is idempotent.
//
// AUTOINCREMENT keeps ids from being reused after deletes; the counter lives
// in sqlite_sequence, which is what the sequence reset clears.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS filters (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			face_types   TEXT,
			eye_colors   TEXT,
			skin_colors  TEXT,
			body_types   TEXT,
			hair_colors  TEXT,
			hair_lengths TEXT,
			hair_types   TEXT,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating filters table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS models (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			photos      TEXT NOT NULL DEFAULT '[]',
			face_type   TEXT NOT NULL,
			eye_color   TEXT NOT NULL,
			skin_color  TEXT NOT NULL,
			body_type   TEXT NOT NULL,
			hair_color  TEXT NOT NULL,
			hair_length TEXT NOT NULL,
			hair_type   TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_models_created_at ON models(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating models table: %w", err)
	}

	return nil
}

// Filters returns the filter repository backed by this database.
func (db *DB) Filters() *FilterDB {
	return &FilterDB{pool: db.conn}
}

// Models returns the model repository backed by this database.
func (db *DB) Models() *ModelDB {
	return &ModelDB{pool: db.conn}
}

// encodeList turns a string list into the JSON text stored in list columns.
// A nil list is stored as NULL.
func encodeList(list []string) (sql.NullString, error) {
	if list == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeList is the inverse of encodeList. NULL and empty text decode to nil.
func decodeList(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(col.String), &list); err != nil {
		return nil, err
	}
	return list, nil
}
