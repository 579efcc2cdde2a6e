package logstore

import (
	"encoding/binary"
	"fmt"

	"github.com/scribehq/scribe/pkg/wordid"
)

// EncodeBlob packs ids as 4-byte little-endian unsigned integers,
// concatenated in order. The encoding is little-endian regardless of host
// byte order so stored blobs are portable across machines.
func EncodeBlob(ids wordid.EncodedLog) []byte {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return buf
}

// DecodeBlob unpacks a byte blob into a WordID sequence. A length that is
// not a multiple of 4 is treated as corruption and reported via
// ErrCorruptBlob rather than silently truncated.
func DecodeBlob(blob []byte) (wordid.EncodedLog, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrCorruptBlob, len(blob))
	}
	ids := make(wordid.EncodedLog, len(blob)/4)
	for i := range ids {
		ids[i] = wordid.ID(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return ids, nil
}
