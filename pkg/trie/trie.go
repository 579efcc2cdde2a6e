// Package trie implements the prefix index backing the Dictionary.
//
// Each node holds an optional terminal WordID and a map from the next rune to
// a child node. The root's terminal is always unset. Insertion, exact
// lookup and prefix collection are pure, in-memory and cannot fail; there is
// no locking here, callers (the Dictionary) are responsible for
// serializing writers against readers.
package trie

import "github.com/scribehq/scribe/pkg/wordid"

type node struct {
	terminal bool
	id       wordid.ID
	children map[rune]*node
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie is a pure in-memory prefix index from tokens to WordIDs.
type Trie struct {
	root *node
}

// New returns an empty Trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Push inserts word's rune path into the trie, marking the terminal node
// with id. It overwrites any existing terminal at that path.
func (t *Trie) Push(word string, id wordid.ID) {
	n := t.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
	}
	n.terminal = true
	n.id = id
}

// FindExact returns the terminal id at word's path, if the path exists and
// terminates there.
func (t *Trie) FindExact(word string) (wordid.ID, bool) {
	n := t.walk(word)
	if n == nil || !n.terminal {
		return wordid.Unassigned, false
	}
	return n.id, true
}

// FindPrefix returns the set of all terminal ids reachable from the node at
// the end of prefix. An empty prefix returns every id in the trie. A prefix
// whose path is absent returns the empty set.
func (t *Trie) FindPrefix(prefix string) map[wordid.ID]struct{} {
	result := make(map[wordid.ID]struct{})
	n := t.walk(prefix)
	if n == nil {
		return result
	}
	collect(n, result)
	return result
}

// FindPrefixCI is the case-insensitive variant of FindPrefix: it unions
// FindPrefix over every case-folding of prefix, exploring the uppercase and
// lowercase form of each rune and visiting runes that fold identically only
// once.
func (t *Trie) FindPrefixCI(prefix string) map[wordid.ID]struct{} {
	result := make(map[wordid.ID]struct{})
	for _, variant := range caseFoldVariants(prefix) {
		for id := range t.FindPrefix(variant) {
			result[id] = struct{}{}
		}
	}
	return result
}

func (t *Trie) walk(prefix string) *node {
	n := t.root
	for _, r := range prefix {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// collect walks the subtree under n breadth-first, recording every terminal
// id. Order is unspecified; the result is a set.
func collect(n *node, out map[wordid.ID]struct{}) {
	level := []*node{n}
	for len(level) > 0 {
		var next []*node
		for _, cur := range level {
			if cur.terminal {
				out[cur.id] = struct{}{}
			}
			for _, child := range cur.children {
				next = append(next, child)
			}
		}
		level = next
	}
}
