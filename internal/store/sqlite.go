package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps zstd-compressed blobs in a single key/value table
type SQLiteStore struct {
	conn  *sqlx.DB
	codec *Codec
}

// OpenSQLite opens or creates a SQLite database at the given path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "./data/honey.db"
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	codec, err := NewCodec()
	if err != nil {
		conn.Close()
		return nil, err
	}

	s := &SQLiteStore{conn: conn, codec: codec}
	if err := s.migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.conn.GetContext(ctx, &blob, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	v, err := s.codec.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return v, nil
}

func (s *SQLiteStore) PutAll(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for k, v := range entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)",
			k, s.codec.Encode(v), now); err != nil {
			return fmt.Errorf("put %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM kv WHERE key IN (?)", keys)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, s.conn.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.codec.Close()
	return s.conn.Close()
}
