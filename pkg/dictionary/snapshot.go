package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/tchap/go-patricia/v2/patricia"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/scribehq/scribe/pkg/wordid"
)

// ErrUnrepresentableToken is returned by WriteText when a token cannot be
// written in the "<word> : <num>" snapshot format.
var ErrUnrepresentableToken = errors.New("dictionary: token not representable in text snapshot format")

// ErrDuplicateID is returned by ValidateCoherent when two distinct words in
// a restored mapping claim the same WordID, which would break the Dictionary's
// id->word invariant.
var ErrDuplicateID = errors.New("dictionary: duplicate id in restored mapping")

// WriteText writes snapshot in the "<word> : <number>\n" line format. Tokens
// containing whitespace or a literal " : " are rejected, since the format
// cannot distinguish them from the separator.
func WriteText(w io.Writer, snapshot map[string]wordid.ID) error {
	bw := bufio.NewWriter(w)
	for word, id := range snapshot {
		if strings.IndexFunc(word, unicode.IsSpace) >= 0 || strings.Contains(word, " : ") {
			return fmt.Errorf("%w: %q", ErrUnrepresentableToken, word)
		}
		if _, err := fmt.Fprintf(bw, "%s : %d\n", word, uint32(id)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadText parses the "<word> : <number>" line format written by WriteText.
func ReadText(r io.Reader) (map[string]wordid.ID, error) {
	m := make(map[string]wordid.ID)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		word, numStr, ok := strings.Cut(line, " : ")
		if !ok {
			return nil, fmt.Errorf("dictionary: malformed snapshot line %q", line)
		}
		n, err := strconv.ParseUint(numStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("dictionary: malformed snapshot line %q: %w", line, err)
		}
		m[word] = wordid.ID(n)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// msgpackEntry is the wire shape for the binary snapshot codec.
type msgpackEntry struct {
	Word string `msgpack:"word"`
	ID   uint32 `msgpack:"id"`
}

// WriteMsgpack writes snapshot in a compact binary form, for restart
// recovery of large dictionaries where the text format's per-line overhead
// matters.
func WriteMsgpack(w io.Writer, snapshot map[string]wordid.ID) error {
	entries := make([]msgpackEntry, 0, len(snapshot))
	for word, id := range snapshot {
		entries = append(entries, msgpackEntry{Word: word, ID: uint32(id)})
	}
	return msgpack.NewEncoder(w).Encode(entries)
}

// ReadMsgpack parses the binary form written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (map[string]wordid.ID, error) {
	var entries []msgpackEntry
	if err := msgpack.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	m := make(map[string]wordid.ID, len(entries))
	for _, e := range entries {
		m[e.Word] = wordid.ID(e.ID)
	}
	return m, nil
}

// ValidateCoherent stages m into a radix trie, keyed by word with the id as
// the stored item, then walks the whole staged trie via Visit to confirm no
// two words claim the same id (which would break the Dictionary's id->word
// inverse once loaded). The duplicate check runs over the trie's own
// traversal rather than the input map, so a corrupt staging insert would
// surface here too. It does not mutate the Dictionary; callers pass the
// validated map to BulkLoad.
func ValidateCoherent(m map[string]wordid.ID) error {
	staging := patricia.NewTrie()
	for word, id := range m {
		staging.Insert(patricia.Prefix(word), id)
	}

	seen := make(map[wordid.ID]string, len(m))
	return staging.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		word := string(prefix)
		id, ok := item.(wordid.ID)
		if !ok {
			return fmt.Errorf("dictionary: staged item for %q is not a wordid.ID", word)
		}
		if other, ok := seen[id]; ok && other != word {
			return fmt.Errorf("%w: id %d claimed by %q and %q", ErrDuplicateID, id, other, word)
		}
		seen[id] = word
		return nil
	})
}
