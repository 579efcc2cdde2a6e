package trie

import (
	"testing"

	"github.com/scribehq/scribe/pkg/wordid"
)

func TestPushAndFindExact(t *testing.T) {
	words := []string{"aba", "abacus", "abacusa", "abac", "abacusasa", "ab", "avacusasatasa", "ole", "oleum", "oleole"}
	tr := New()
	for i, w := range words {
		tr.Push(w, wordid.ID(i))
	}
	for i, w := range words {
		got, ok := tr.FindExact(w)
		if !ok || got != wordid.ID(i) {
			t.Fatalf("FindExact(%q) = %v,%v want %d,true", w, got, ok, i)
		}
	}
}

func TestFindExactMisses(t *testing.T) {
	pushed := []string{"aba", "abacus", "abac", "ab", "ole", "oleum"}
	missing := []string{"a", "abaa", "abacusaa", "olezsa", "elo", "aloes"}
	tr := New()
	for i, w := range pushed {
		tr.Push(w, wordid.ID(i))
	}
	for _, w := range missing {
		if _, ok := tr.FindExact(w); ok {
			t.Fatalf("FindExact(%q) unexpectedly found", w)
		}
	}
}

func TestFindPrefix(t *testing.T) {
	entries := map[string]wordid.ID{"inn": 1, "in": 2, "inner": 3, "i": 4, "innest": 5}
	tr := New()
	for w, id := range entries {
		tr.Push(w, id)
	}
	got := tr.FindPrefix("inn")
	want := map[wordid.ID]struct{}{1: {}, 3: {}, 5: {}}
	assertIDSet(t, got, want)
}

func TestFindPrefixEmptyReturnsAll(t *testing.T) {
	entries := map[string]wordid.ID{"a": 1, "b": 2, "cc": 3}
	tr := New()
	for w, id := range entries {
		tr.Push(w, id)
	}
	got := tr.FindPrefix("")
	want := map[wordid.ID]struct{}{1: {}, 2: {}, 3: {}}
	assertIDSet(t, got, want)
}

func TestFindPrefixMissingPathIsEmpty(t *testing.T) {
	tr := New()
	tr.Push("hello", 1)
	got := tr.FindPrefix("zzz")
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
}

func TestFindPrefixCaseInsensitive(t *testing.T) {
	entries := []struct {
		word string
		id   wordid.ID
	}{
		{"ALA", 0}, {"noise", 1}, {"ala", 2}, {"Ala", 3}, {"Abba", 4}, {"Aaala", 5},
	}
	tr := New()
	for _, e := range entries {
		tr.Push(e.word, e.id)
	}
	got := tr.FindPrefixCI("al")
	want := map[wordid.ID]struct{}{0: {}, 2: {}, 3: {}}
	assertIDSet(t, got, want)
}

func TestFindPrefixCIEqualsUnionOverFoldings(t *testing.T) {
	entries := map[string]wordid.ID{"Cat": 1, "cat": 2, "CAT": 3, "cats": 4, "dog": 5}
	tr := New()
	for w, id := range entries {
		tr.Push(w, id)
	}
	union := make(map[wordid.ID]struct{})
	for _, variant := range caseFoldVariants("ca") {
		for id := range tr.FindPrefix(variant) {
			union[id] = struct{}{}
		}
	}
	assertIDSet(t, tr.FindPrefixCI("ca"), union)
}

func TestPushOverwritesTerminal(t *testing.T) {
	tr := New()
	tr.Push("x", 1)
	tr.Push("x", 2) // a second push at the same path replaces the terminal id
	got, ok := tr.FindExact("x")
	if !ok || got != 2 {
		t.Fatalf("FindExact(x) = %v,%v want 2,true", got, ok)
	}
}

func assertIDSet(t *testing.T, got, want map[wordid.ID]struct{}) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for id := range want {
		if _, ok := got[id]; !ok {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func BenchmarkPush(b *testing.B) {
	tr := New()
	words := benchWords(b.N)
	b.ResetTimer()
	for i, w := range words {
		tr.Push(w, wordid.ID(i))
	}
}

func BenchmarkFindPrefix(b *testing.B) {
	tr := New()
	words := benchWords(1000)
	for i, w := range words {
		tr.Push(w, wordid.ID(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.FindPrefix(words[i%len(words)][:3])
	}
}

func benchWords(n int) []string {
	if n <= 0 {
		n = 1
	}
	alphabet := "abcdefghijklmnopqrstuvwxyz"
	words := make([]string, n)
	for i := range words {
		b := make([]byte, 8)
		for j := range b {
			b[j] = alphabet[(i+j)%len(alphabet)]
		}
		words[i] = string(b)
	}
	return words
}
