// SPDX-License-Identifier: MIT

package phrasematch

import (
	"encoding/binary"
	"fmt"

	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/fxamacker/cbor/v2"

	"github.com/phrasematch/phrasematch/internal/trie"
)

// Save writes m to <stem>.fst (the trie, prefixed with the edit
// distance d it was built with) and <stem>.msg (the overflow table,
// CBOR-encoded as a language-neutral array-of-array format, unlike the
// stdlib encoding/gob kho-fslm uses, which is Go-specific and not
// format-stable across versions).
func (m *FuzzyMap) Save(stem string) error {
	fst := make([]byte, 0, 1+4096)
	var dBuf [4]byte
	binary.BigEndian.PutUint32(dBuf[:], uint32(m.d))
	fst = append(fst, dBuf[:]...)
	fst = trie.Encode(fst, m.root)
	if err := writeFileAtomic(stem+".fst", fst); err != nil {
		return err
	}

	msg, err := cbor.Marshal(m.overflow)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return writeFileAtomic(stem+".msg", msg)
}

// LoadFuzzyMap reads a FuzzyMap previously written by Save.
func LoadFuzzyMap(stem string) (*FuzzyMap, error) {
	fst, err := readFileChecked(stem + ".fst")
	if err != nil {
		return nil, err
	}
	if len(fst) < 4 {
		return nil, fmt.Errorf("%w: %s.fst too short", ErrDecode, stem)
	}
	d := int(binary.BigEndian.Uint32(fst[:4]))

	root, err := trie.Decode(fst[4:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	msg, err := readFileChecked(stem + ".msg")
	if err != nil {
		return nil, err
	}
	var overflow [][]WordID
	if err := cbor.Unmarshal(msg, &overflow); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &FuzzyMap{root: root, overflow: overflow, d: d}, nil
}

// Save writes ps to <stem>.fst.
func (ps *PhraseSet) Save(stem string) error {
	fst := trie.Encode(nil, ps.root)
	return writeFileAtomic(stem+".fst", fst)
}

// LoadPhraseSet reads a PhraseSet previously written by Save.
func LoadPhraseSet(stem string) (*PhraseSet, error) {
	fst, err := readFileChecked(stem + ".fst")
	if err != nil {
		return nil, err
	}
	root, err := trie.Decode(fst)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &PhraseSet{root: root}, nil
}

// Save writes idx to <stem>.idx: a 4-byte entry count, then that many
// {count uint32, len uint32, delta-varint bytes} records, one per
// word-id from 0 to the highest word-id seen at build time.
func (idx *InvertedIndex) Save(stem string) error {
	var buf []byte
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(idx.postings)))
	buf = append(buf, countBuf[:]...)

	for id := range idx.postings {
		count, data := idx.encode(WordID(id))
		var hdr [8]byte
		binary.BigEndian.PutUint32(hdr[0:4], count)
		binary.BigEndian.PutUint32(hdr[4:8], uint32(len(data)))
		buf = append(buf, hdr[:]...)
		buf = append(buf, data...)
	}

	return writeFileAtomic(stem+".idx", buf)
}

// LoadInvertedIndex reads an InvertedIndex previously written by Save.
func LoadInvertedIndex(stem string) (*InvertedIndex, error) {
	buf, err := readFileChecked(stem + ".idx")
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: %s.idx too short", ErrDecode, stem)
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]

	idx := &InvertedIndex{postings: make([]*roaring.Bitmap, n)}

	for i := uint32(0); i < n; i++ {
		if len(buf) < 8 {
			return nil, fmt.Errorf("%w: truncated %s.idx header", ErrDecode, stem)
		}
		count := binary.BigEndian.Uint32(buf[0:4])
		length := binary.BigEndian.Uint32(buf[4:8])
		buf = buf[8:]
		if uint32(len(buf)) < length {
			return nil, fmt.Errorf("%w: truncated %s.idx record", ErrDecode, stem)
		}
		data := buf[:length]
		buf = buf[length:]

		if count == 0 {
			continue
		}
		bm, err := decodePosting(count, data)
		if err != nil {
			return nil, err
		}
		idx.postings[i] = bm
	}

	return idx, nil
}
