package query

import (
	"context"
	"sort"
	"testing"

	"github.com/scribehq/scribe/pkg/dictionary"
	"github.com/scribehq/scribe/pkg/logstore"
	"github.com/scribehq/scribe/pkg/wordid"
)

// fakeStore is an in-memory logstore.LogStore double scoped to this test
// file: it keeps records in append order and filters Range by timestamp.
type fakeStore struct {
	records []fakeRecord
	nextTS  uint64
}

type fakeRecord struct {
	ts  uint64
	ids wordid.EncodedLog
}

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }

func (f *fakeStore) Append(ctx context.Context, ids wordid.EncodedLog) error {
	f.nextTS++
	f.records = append(f.records, fakeRecord{ts: f.nextTS, ids: ids})
	return nil
}

func (f *fakeStore) Range(ctx context.Context, from, to uint64) ([]wordid.EncodedLog, error) {
	var out []wordid.EncodedLog
	for _, r := range f.records {
		if r.ts >= from && r.ts <= to {
			out = append(out, r.ids)
		}
	}
	return out, nil
}

func (f *fakeStore) Close(ctx context.Context) error { return nil }

var _ logstore.LogStore = (*fakeStore)(nil)

func TestIngestThenQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	dict := dictionary.New()
	eng := New(store, dict)

	if err := eng.Ingest(ctx, "Alpha beta Alpha gamma"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	got, err := eng.Query(ctx, Params{From: 0, To: ^uint64(0)})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0] != "Alpha beta Alpha gamma" {
		t.Fatalf("got %v", got)
	}
}

func TestQueryConjoinsPrefixAndWords(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	dict := dictionary.New()
	eng := New(store, dict)

	for _, text := range []string{"inner apple", "in apple", "innest apple", "inner banana"} {
		if err := eng.Ingest(ctx, text); err != nil {
			t.Fatalf("Ingest(%q): %v", text, err)
		}
	}

	got, err := eng.Query(ctx, Params{From: 0, To: ^uint64(0), Prefix: "inn", Words: []string{"apple"}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	sort.Strings(got)
	want := []string{"inner apple", "innest apple"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestQueryRespectsTimeRange(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	dict := dictionary.New()
	eng := New(store, dict)

	for _, text := range []string{"first", "second", "third"} {
		if err := eng.Ingest(ctx, text); err != nil {
			t.Fatalf("Ingest(%q): %v", text, err)
		}
	}

	got, err := eng.Query(ctx, Params{From: 2, To: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	sort.Strings(got)
	want := []string{"second", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestQueryWithNoFiltersReturnsEverythingInRange(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	dict := dictionary.New()
	eng := New(store, dict)

	if err := eng.Ingest(ctx, "only entry"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	got, err := eng.Query(ctx, Params{From: 0, To: ^uint64(0)})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0] != "only entry" {
		t.Fatalf("got %v", got)
	}
}
