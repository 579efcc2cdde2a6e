// Package logstore defines the abstract persistence contract the Query
// Engine and the ingest path depend on. The core never talks to a concrete
// database; it talks to LogStore. Two implementations live in the sqlstore
// and docstore subpackages and share this exact contract, the way the
// original Rust service's sql.rs and mongo.rs both implement
// RepositoryProvider.
package logstore

import (
	"context"
	"errors"

	"github.com/scribehq/scribe/pkg/wordid"
)

// ErrCorruptBlob is returned by Range when a stored record's byte length is
// not a multiple of 4 and therefore cannot be a sequence of WordIDs.
var ErrCorruptBlob = errors.New("logstore: corrupt blob (length not a multiple of 4)")

// ErrConnection is returned when the backend cannot be reached or a
// connection from its pool cannot be acquired.
var ErrConnection = errors.New("logstore: connection error")

// ErrUnavailable is returned when a snapshotter method is called on a
// backend that does not implement it.
var ErrUnavailable = errors.New("logstore: dictionary snapshot not supported by this backend")

// LogStore is the abstract contract for time-indexed log persistence. All
// methods may suspend (take a context, may block on I/O) and may fail with a
// storage error; the Query Engine propagates failures unchanged.
type LogStore interface {
	// Migrate idempotently prepares the storage schema.
	Migrate(ctx context.Context) error
	// Append encodes ids to bytes, stamps them with the current wall-clock
	// timestamp in nanoseconds, and inserts one record.
	Append(ctx context.Context, ids wordid.EncodedLog) error
	// Range returns every record with from <= timestamp <= to (inclusive),
	// decoded back to its id sequence. Result order is unspecified.
	Range(ctx context.Context, from, to uint64) ([]wordid.EncodedLog, error)
	// Close releases the backend's connections and resources.
	Close(ctx context.Context) error
}

// DictionarySnapshotter is optionally implemented by a LogStore backend to
// support bulk snapshot/restore of the Dictionary's word->id map across
// restarts. Snapshot is transactional: either all entries commit or none.
type DictionarySnapshotter interface {
	SaveDictionary(ctx context.Context, snapshot map[string]wordid.ID) error
	LoadDictionary(ctx context.Context) (map[string]wordid.ID, error)
}
