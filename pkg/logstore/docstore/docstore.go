// Package docstore is the document-store Log Store backend, grounded on the
// original service's MongoDB repository: same database/collection naming,
// same single index on timestamp, same query shape translated from BSON
// range filters to the Go driver's idioms.
package docstore

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scribehq/scribe/pkg/logstore"
	"github.com/scribehq/scribe/pkg/wordid"
)

const (
	databaseName   = "scribe"
	collectionLogs = "logs"
	collectionDict = "serializer"
	timestampField = "timestamp_ns"
)

// logDoc is the BSON shape of one stored record.
type logDoc struct {
	ID          any    `bson:"_id,omitempty"`
	TimestampNs int64  `bson:"timestamp_ns"`
	Data        []byte `bson:"data"`
}

// dictDoc is the BSON shape of one dictionary snapshot entry.
type dictDoc struct {
	ID   any    `bson:"_id,omitempty"`
	Word string `bson:"word"`
	Num  uint32 `bson:"num"`
}

// Store implements logstore.LogStore and logstore.DictionarySnapshotter
// against a MongoDB-compatible document store.
type Store struct {
	client *mongo.Client
}

var (
	_ logstore.LogStore              = (*Store)(nil)
	_ logstore.DictionarySnapshotter = (*Store)(nil)
)

// Open connects to connectionStr and pings the server to fail fast on
// misconfiguration.
func Open(ctx context.Context, connectionStr string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(connectionStr).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", logstore.ErrConnection, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: cannot ping %s: %v", logstore.ErrConnection, connectionStr, err)
	}
	return &Store{client: client}, nil
}

func (s *Store) logs() *mongo.Collection {
	return s.client.Database(databaseName).Collection(collectionLogs)
}

func (s *Store) dict() *mongo.Collection {
	return s.client.Database(databaseName).Collection(collectionDict)
}

// Migrate creates the timestamp index on the logs collection.
func (s *Store) Migrate(ctx context.Context) error {
	index := mongo.IndexModel{Keys: bson.D{{Key: timestampField, Value: 1}}}
	if _, err := s.logs().Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("logstore/docstore: migrate: %w", err)
	}
	return nil
}

// Append inserts one log document stamped with the current wall-clock time.
func (s *Store) Append(ctx context.Context, ids wordid.EncodedLog) error {
	doc := logDoc{
		TimestampNs: time.Now().UnixNano(),
		Data:        logstore.EncodeBlob(ids),
	}
	if _, err := s.logs().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("logstore/docstore: append: %w", err)
	}
	return nil
}

// Range returns every document with from <= timestamp_ns <= to.
func (s *Store) Range(ctx context.Context, from, to uint64) ([]wordid.EncodedLog, error) {
	// timestamp_ns is stored as int64: bounds above math.MaxInt64 are clamped
	// instead of wrapping to negative values.
	if from > math.MaxInt64 {
		return nil, nil
	}
	if to > math.MaxInt64 {
		to = math.MaxInt64
	}
	filter := bson.M{timestampField: bson.M{"$gte": int64(from), "$lte": int64(to)}}
	cursor, err := s.logs().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("logstore/docstore: range: %w", err)
	}
	defer cursor.Close(ctx)

	var out []wordid.EncodedLog
	for cursor.Next(ctx) {
		var d logDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("logstore/docstore: range decode: %w", err)
		}
		ids, err := logstore.DecodeBlob(d.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, ids)
	}
	return out, cursor.Err()
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// SaveDictionary replaces the serializer collection's contents with snapshot
// inside a single transaction (requires a replica-set-backed deployment;
// standalone mongod instances do not support multi-document transactions).
func (s *Store) SaveDictionary(ctx context.Context, snapshot map[string]wordid.ID) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("%w: %v", logstore.ErrConnection, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := s.dict().DeleteMany(sc, bson.M{}); err != nil {
			return nil, err
		}
		docs := make([]any, 0, len(snapshot))
		for word, id := range snapshot {
			docs = append(docs, dictDoc{Word: word, Num: uint32(id)})
		}
		if len(docs) == 0 {
			return nil, nil
		}
		_, err := s.dict().InsertMany(sc, docs)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("logstore/docstore: save dictionary: %w", err)
	}
	return nil
}

// LoadDictionary reads back the serializer collection in full.
func (s *Store) LoadDictionary(ctx context.Context) (map[string]wordid.ID, error) {
	cursor, err := s.dict().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("logstore/docstore: load dictionary: %w", err)
	}
	defer cursor.Close(ctx)

	m := make(map[string]wordid.ID)
	for cursor.Next(ctx) {
		var d dictDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("logstore/docstore: load dictionary decode: %w", err)
		}
		m[d.Word] = wordid.ID(d.Num)
	}
	return m, cursor.Err()
}
