// SPDX-License-Identifier: MIT

package phrasematch

import "fmt"

// MaxWordID is the exclusive upper bound on word-ids: ids must fit in
// 24 bits so they encode as a fixed 3-byte big-endian segment.
const MaxWordID = 1 << 24

// WordID identifies a vocabulary word. Valid values are [0, MaxWordID).
type WordID uint32

// encodeWordID writes the 3-byte big-endian encoding of id into buf
// (which must have length >= 3). The big-endian choice guarantees
// lexicographic byte order over keys equals numeric order over
// word-ids, which PhraseSet's range queries rely on.
func encodeWordID(id WordID, buf []byte) error {
	if id >= MaxWordID {
		return fmt.Errorf("%w: word-id %d >= %d", ErrBuildCapacity, id, WordID(MaxWordID))
	}
	buf[0] = byte(id >> 16)
	buf[1] = byte(id >> 8)
	buf[2] = byte(id)
	return nil
}

// decodeWordID reconstructs a WordID from its 3-byte big-endian
// encoding.
func decodeWordID(b0, b1, b2 byte) WordID {
	return WordID(b0)<<16 | WordID(b1)<<8 | WordID(b2)
}

// phraseKey concatenates the 3-byte encoding of every id in ids, in
// order, yielding a key of length 3*len(ids).
func phraseKey(ids []WordID) ([]byte, error) {
	key := make([]byte, 3*len(ids))
	for i, id := range ids {
		if err := encodeWordID(id, key[3*i:3*i+3]); err != nil {
			return nil, err
		}
	}
	return key, nil
}
