package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/scribehq/scribe/pkg/wordid"
)

func openMigrated(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func TestAppendAndRange(t *testing.T) {
	ctx := context.Background()
	s := openMigrated(t)

	data := wordid.EncodedLog{1, 2, 3}
	if err := s.Append(ctx, data); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.Range(ctx, 0, uint64(time.Now().Add(time.Hour).UnixNano()))
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Range returned %d records, want 1", len(got))
	}
	for i, id := range data {
		if got[0][i] != id {
			t.Fatalf("got %v want %v", got[0], data)
		}
	}
}

func TestRangeIsInclusiveOnBothEnds(t *testing.T) {
	ctx := context.Background()
	s := openMigrated(t)

	t0 := uint64(1000)
	t1 := uint64(2000)
	t2 := uint64(3000)

	for _, ts := range []uint64{t0, t1, t2} {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO logs (timestamp_ns, data) VALUES (?, ?)`, int64(ts), []byte{1, 0, 0, 0}); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}

	got, err := s.Range(ctx, t1, t2)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Range(t1,t2) returned %d records, want 2", len(got))
	}

	got, err = s.Range(ctx, t0, t0)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Range(t0,t0) returned %d records, want 1", len(got))
	}
}

func TestRangeRejectsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	s := openMigrated(t)

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO logs (timestamp_ns, data) VALUES (?, ?)`, int64(1), []byte{1, 2, 3}); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	if _, err := s.Range(ctx, 0, uint64(time.Now().Add(time.Hour).UnixNano())); err == nil {
		t.Fatal("expected corrupt blob error")
	}
}

func TestSaveAndLoadDictionary(t *testing.T) {
	ctx := context.Background()
	s := openMigrated(t)

	snapshot := map[string]wordid.ID{"a": 1, "b": 2, "c": 3}
	if err := s.SaveDictionary(ctx, snapshot); err != nil {
		t.Fatalf("SaveDictionary: %v", err)
	}
	got, err := s.LoadDictionary(ctx)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if len(got) != len(snapshot) {
		t.Fatalf("got %v want %v", got, snapshot)
	}
	for w, id := range snapshot {
		if got[w] != id {
			t.Fatalf("got[%q] = %d want %d", w, got[w], id)
		}
	}
}

func TestSaveDictionaryReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	s := openMigrated(t)

	if err := s.SaveDictionary(ctx, map[string]wordid.ID{"old": 1}); err != nil {
		t.Fatalf("SaveDictionary: %v", err)
	}
	if err := s.SaveDictionary(ctx, map[string]wordid.ID{"new": 1}); err != nil {
		t.Fatalf("SaveDictionary: %v", err)
	}
	got, err := s.LoadDictionary(ctx)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if _, ok := got["old"]; ok {
		t.Fatalf("stale entry survived snapshot replace: %v", got)
	}
	if got["new"] != 1 {
		t.Fatalf("got %v want new:1", got)
	}
}
