// Package wordid holds the WordID type shared by the trie, dictionary, log
// store and query packages so none of them have to import each other just to
// agree on an integer type.
package wordid

// ID identifies a token within a running Dictionary. Zero is reserved for
// "unassigned" and is never minted by Dictionary.Encode.
type ID uint32

// Unassigned is the reserved zero value of ID.
const Unassigned ID = 0

// EncodedLog is an ordered sequence of WordIDs representing one log line.
type EncodedLog []ID
