// Package sqlstore is the in-memory/on-disk relational Log Store backend.
// It is grounded on the original service's SQLite repository (logs +
// serializer tables, one index per queried column) and talks to
// modernc.org/sqlite through database/sql rather than reaching for CGO.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scribehq/scribe/pkg/logstore"
	"github.com/scribehq/scribe/pkg/wordid"
)

// RAMDSN opens a private in-memory database, the default when the operator's
// store_url is empty (see pkg/config).
const RAMDSN = ":memory:"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp_ns INTEGER NOT NULL,
		data BLOB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS timestamp_index ON logs (timestamp_ns)`,
	`CREATE TABLE IF NOT EXISTS serializer (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word TEXT NOT NULL UNIQUE,
		num INTEGER NOT NULL UNIQUE
	)`,
	`CREATE INDEX IF NOT EXISTS word_index ON serializer (word)`,
	`CREATE INDEX IF NOT EXISTS num_index ON serializer (num)`,
}

// Store implements logstore.LogStore and logstore.DictionarySnapshotter.
type Store struct {
	db *sql.DB
}

var (
	_ logstore.LogStore              = (*Store)(nil)
	_ logstore.DictionarySnapshotter = (*Store)(nil)
)

// Open connects to dsn, or to a private in-memory database when dsn is
// empty. A single connection is kept open: SQLite's ":memory:" database is
// per-connection, so a pool would silently scatter writes and reads across
// unrelated databases.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = RAMDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", logstore.ErrConnection, err)
	}
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Migrate idempotently creates the logs and serializer tables and their
// indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("logstore/sqlstore: migrate: %w", err)
		}
	}
	return nil
}

// Append inserts one log record stamped with the current wall-clock time.
func (s *Store) Append(ctx context.Context, ids wordid.EncodedLog) error {
	data := logstore.EncodeBlob(ids)
	timestampNs := time.Now().UnixNano()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logs (timestamp_ns, data) VALUES (?, ?)`, timestampNs, data)
	if err != nil {
		return fmt.Errorf("logstore/sqlstore: append: %w", err)
	}
	return nil
}

// Range returns every record with from <= timestamp_ns <= to.
func (s *Store) Range(ctx context.Context, from, to uint64) ([]wordid.EncodedLog, error) {
	// timestamp_ns is a signed 64-bit column: bounds above math.MaxInt64 are
	// clamped instead of wrapping to negative values.
	if from > math.MaxInt64 {
		return nil, nil
	}
	if to > math.MaxInt64 {
		to = math.MaxInt64
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM logs WHERE timestamp_ns BETWEEN ? AND ?`, int64(from), int64(to))
	if err != nil {
		return nil, fmt.Errorf("logstore/sqlstore: range: %w", err)
	}
	defer rows.Close()

	var out []wordid.EncodedLog
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("logstore/sqlstore: range scan: %w", err)
		}
		ids, err := logstore.DecodeBlob(data)
		if err != nil {
			return nil, err
		}
		out = append(out, ids)
	}
	return out, rows.Err()
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// SaveDictionary replaces the serializer table's contents with snapshot in a
// single transaction.
func (s *Store) SaveDictionary(ctx context.Context, snapshot map[string]wordid.ID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", logstore.ErrConnection, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM serializer`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("logstore/sqlstore: save dictionary: %w", err)
	}
	for word, id := range snapshot {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO serializer (word, num) VALUES (?, ?)`, word, uint32(id)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("logstore/sqlstore: save dictionary: %w", err)
		}
	}
	return tx.Commit()
}

// LoadDictionary reads back the serializer table in full.
func (s *Store) LoadDictionary(ctx context.Context) (map[string]wordid.ID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word, num FROM serializer`)
	if err != nil {
		return nil, fmt.Errorf("logstore/sqlstore: load dictionary: %w", err)
	}
	defer rows.Close()

	m := make(map[string]wordid.ID)
	for rows.Next() {
		var word string
		var num uint32
		if err := rows.Scan(&word, &num); err != nil {
			return nil, fmt.Errorf("logstore/sqlstore: load dictionary scan: %w", err)
		}
		m[word] = wordid.ID(num)
	}
	return m, rows.Err()
}
