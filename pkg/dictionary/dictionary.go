// Package dictionary interns whitespace-separated tokens to stable 32-bit
// WordIDs and answers prefix/word-set filters over encoded logs through an
// owned Trie. The Dictionary is the source of truth; the Trie is a pure
// index rebuilt whenever the mapping changes in bulk.
//
// Encode/BulkLoad mutate state and take the lock exclusively; Decode,
// FilterByPrefix and FilterByWords only read and take it shared. None of
// these calls ever cross into I/O, so the lock is never held across a
// suspension point — callers that need to persist a snapshot read the
// mapping out (via Snapshot) and release the lock before touching storage.
package dictionary

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/scribehq/scribe/pkg/trie"
	"github.com/scribehq/scribe/pkg/wordid"
)

// unknownPlaceholder is rendered for any id Decode cannot resolve.
const unknownPlaceholder = "[?]"

// Dictionary is the shared, process-wide word<->id mapping.
type Dictionary struct {
	mu       sync.RWMutex
	wordToID map[string]wordid.ID
	idToWord map[wordid.ID]string
	nextID   wordid.ID
	trie     *trie.Trie
}

// New returns an empty Dictionary ready to mint ids starting at 1.
func New() *Dictionary {
	return &Dictionary{
		wordToID: make(map[string]wordid.ID),
		idToWord: make(map[wordid.ID]string),
		nextID:   1,
		trie:     trie.New(),
	}
}

// Encode splits text on whitespace and returns the WordID sequence for its
// tokens, minting new ids for first-seen tokens. Token order is preserved.
// Empty text yields an empty sequence.
func (d *Dictionary) Encode(text string) wordid.EncodedLog {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return wordid.EncodedLog{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make(wordid.EncodedLog, 0, len(fields))
	for _, token := range fields {
		id, ok := d.wordToID[token]
		if !ok {
			id = d.nextID
			d.nextID++
			d.wordToID[token] = id
			d.idToWord[id] = token
			d.trie.Push(token, id)
		}
		ids = append(ids, id)
	}
	return ids
}

// Decode renders an id sequence back to whitespace-joined text. An id with
// no known word renders as "[?]" so decoding is total over any sequence.
func (d *Dictionary) Decode(ids wordid.EncodedLog) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	words := make([]string, len(ids))
	for i, id := range ids {
		if w, ok := d.idToWord[id]; ok {
			words[i] = w
		} else {
			words[i] = unknownPlaceholder
		}
	}
	return strings.Join(words, " ")
}

// FilterByPrefix retains each log whose id sequence contains at least one id
// reachable from the trie node addressed by prefix. Relative order of logs
// is preserved.
func (d *Dictionary) FilterByPrefix(prefix string, logs []wordid.EncodedLog) []wordid.EncodedLog {
	d.mu.RLock()
	ids := d.trie.FindPrefix(prefix)
	d.mu.RUnlock()

	return filterByIDSet(ids, logs)
}

// FilterByPrefixCI is the case-insensitive counterpart of FilterByPrefix.
func (d *Dictionary) FilterByPrefixCI(prefix string, logs []wordid.EncodedLog) []wordid.EncodedLog {
	d.mu.RLock()
	ids := d.trie.FindPrefixCI(prefix)
	d.mu.RUnlock()

	return filterByIDSet(ids, logs)
}

// FilterByWords retains each log whose id sequence contains at least one id
// from the exact lookup of words. Words with no mapping contribute nothing.
func (d *Dictionary) FilterByWords(words []string, logs []wordid.EncodedLog) []wordid.EncodedLog {
	d.mu.RLock()
	ids := make(map[wordid.ID]struct{}, len(words))
	for _, w := range words {
		if id, ok := d.wordToID[w]; ok {
			ids[id] = struct{}{}
		}
	}
	d.mu.RUnlock()

	return filterByIDSet(ids, logs)
}

func filterByIDSet(ids map[wordid.ID]struct{}, logs []wordid.EncodedLog) []wordid.EncodedLog {
	filtered := make([]wordid.EncodedLog, 0, len(logs))
	for _, l := range logs {
		for _, id := range l {
			if _, ok := ids[id]; ok {
				filtered = append(filtered, l)
				break
			}
		}
	}
	return filtered
}

// Snapshot returns a copy of the current word->id mapping, for callers that
// need to persist it without holding the Dictionary's lock across I/O.
func (d *Dictionary) Snapshot() map[string]wordid.ID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	m := make(map[string]wordid.ID, len(d.wordToID))
	for w, id := range d.wordToID {
		m[w] = id
	}
	return m
}

// BulkLoad replaces the current mapping with m, rebuilds the inverse map and
// the Trie, and re-derives nextID once from the final map (max(id)+1, or 1 if
// m is empty). Used during restore from a snapshot.
func (d *Dictionary) BulkLoad(m map[string]wordid.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	wordToID := make(map[string]wordid.ID, len(m))
	idToWord := make(map[wordid.ID]string, len(m))
	t := trie.New()
	var maxID wordid.ID

	for w, id := range m {
		wordToID[w] = id
		idToWord[id] = w
		t.Push(w, id)
		if id > maxID {
			maxID = id
		}
	}

	d.wordToID = wordToID
	d.idToWord = idToWord
	d.trie = t
	d.nextID = maxID + 1
	if len(m) == 0 {
		d.nextID = 1
	}
	log.Debugf("dictionary bulk loaded %d words, next id %d", len(m), d.nextID)
}

// Len reports the number of distinct tokens currently interned.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.wordToID)
}
