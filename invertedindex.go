// SPDX-License-Identifier: MIT

package phrasematch

import (
	"fmt"
	"sort"

	roaring "github.com/RoaringBitmap/roaring/v2"

	"github.com/phrasematch/phrasematch/internal/varint"
)

// InvertedIndex is an optional, coarse word->phrase membership index:
// for each word-id, the set of phrase-ids of every indexed phrase that
// contains that word anywhere (not a specific position). It answers
// "could this set of words appear together in some phrase" far more
// cheaply than walking PhraseSet, at the cost of being order- and
// position-blind; callers that need ordering re-verify against the
// phrase's actual word sequence (see MatchSubstring).
type InvertedIndex struct {
	// postings[id] is nil for a word-id with no postings (never
	// indexed, or id beyond the highest word-id seen at build time).
	postings []*roaring.Bitmap
}

// InvertedIndexBuilder accumulates word-id -> phrase-id postings.
type InvertedIndexBuilder struct {
	lists map[WordID][]uint32
	max   WordID
}

// NewInvertedIndexBuilder returns a ready-to-use builder.
func NewInvertedIndexBuilder() *InvertedIndexBuilder {
	return &InvertedIndexBuilder{lists: map[WordID][]uint32{}}
}

// Add records that phraseID's phrase contains wordID.
//
// phraseID is stored as uint32: github.com/RoaringBitmap/roaring/v2
// operates over uint32 ids, and a phrase corpus large enough to need
// more than 2^32 phrase-ids is out of scope for a single build (see
// ErrBuildCapacity on the word-id side for the analogous bound).
func (b *InvertedIndexBuilder) Add(wordID WordID, phraseID uint32) {
	b.lists[wordID] = append(b.lists[wordID], phraseID)
	if wordID > b.max {
		b.max = wordID
	}
}

// Build finalizes the index: each word-id's posting list is sorted,
// deduplicated, and compacted into a roaring bitmap.
func (b *InvertedIndexBuilder) Build() *InvertedIndex {
	postings := make([]*roaring.Bitmap, b.max+1)
	for id, ids := range b.lists {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		bm := roaring.New()
		var prev uint32
		for i, v := range ids {
			if i > 0 && v == prev {
				continue
			}
			bm.Add(v)
			prev = v
		}
		postings[id] = bm
	}
	return &InvertedIndex{postings: postings}
}

// encode returns the delta-varint encoding of id's posting list, for
// on-disk storage (the ".idx" format, see ioutil.go's fileHeader).
func (idx *InvertedIndex) encode(id WordID) (count uint32, data []byte) {
	bm := idx.bitmapFor(id)
	if bm == nil || bm.IsEmpty() {
		return 0, nil
	}
	ids := bm.ToArray()
	return uint32(len(ids)), varint.EncodeDeltas(nil, ids)
}

func decodePosting(count uint32, data []byte) (*roaring.Bitmap, error) {
	ids, _, err := varint.DecodeDeltas(data, int(count))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	bm := roaring.New()
	bm.AddMany(ids)
	return bm, nil
}

func (idx *InvertedIndex) bitmapFor(id WordID) *roaring.Bitmap {
	if int(id) >= len(idx.postings) {
		return nil
	}
	return idx.postings[id]
}

// Contains reports whether some single indexed phrase contains every
// word in phrase, in any order and at any positions. phrase must
// contain only Full candidates.
func (idx *InvertedIndex) Contains(phrase QueryPhrase) (bool, error) {
	words := phrase.Words()
	if phrase.HasPrefix() {
		return false, fmt.Errorf("%w: Contains does not accept a trailing Prefix", ErrQueryShape)
	}

	var acc *roaring.Bitmap
	for _, w := range words {
		bm := idx.bitmapFor(w.ID())
		if bm == nil || bm.IsEmpty() {
			return false, nil
		}
		if acc == nil {
			acc = bm.Clone()
			continue
		}
		acc.And(bm)
		if acc.IsEmpty() {
			return false, nil
		}
	}
	return acc != nil && !acc.IsEmpty(), nil
}

// PhraseWords resolves a phrase-id to its ordered word-ids, supplied
// by the caller (the component that owns phrase-id -> PhraseSet
// insertion order, typically the same build pipeline that filled this
// index).
type PhraseWords func(phraseID uint32) ([]WordID, bool)

// MatchSubstring returns the phrase-ids of every indexed phrase that
// contains phrase's words as a contiguous, ordered run, using the
// coarse bag-of-words intersection as a candidate filter and
// lookupPhrase to verify true containment (the intersection is
// necessary but not sufficient: it ignores order and adjacency).
func (idx *InvertedIndex) MatchSubstring(phrase QueryPhrase, lookupPhrase PhraseWords) ([]uint32, error) {
	words := phrase.Words()
	if phrase.HasPrefix() {
		return nil, fmt.Errorf("%w: MatchSubstring does not accept a trailing Prefix", ErrQueryShape)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty QueryPhrase", ErrQueryShape)
	}

	var acc *roaring.Bitmap
	for _, w := range words {
		bm := idx.bitmapFor(w.ID())
		if bm == nil || bm.IsEmpty() {
			return nil, nil
		}
		if acc == nil {
			acc = bm.Clone()
			continue
		}
		acc.And(bm)
		if acc.IsEmpty() {
			return nil, nil
		}
	}
	if acc == nil {
		return nil, nil
	}

	needle := make([]WordID, len(words))
	for i, w := range words {
		needle[i] = w.ID()
	}

	var matches []uint32
	it := acc.Iterator()
	for it.HasNext() {
		pid := it.Next()
		haystack, ok := lookupPhrase(pid)
		if !ok {
			continue
		}
		if containsContiguous(haystack, needle) {
			matches = append(matches, pid)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
	return matches, nil
}

func containsContiguous(haystack, needle []WordID) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for start := 0; start+len(needle) <= len(haystack); start++ {
		match := true
		for i, w := range needle {
			if haystack[start+i] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ContainsPrefix reports whether some indexed phrase contains a word
// matching phrase's trailing Prefix range, in addition to its leading
// Full words.
//
// This is left unimplemented rather than given ad hoc semantics: the
// bag-of-words posting model has no efficient way to test "some word
// in [minID, maxID] co-occurs with the other words" without either
// scanning the whole range's postings (defeating the index's purpose)
// or building a second range-aware structure this index does not
// otherwise need. See DESIGN.md's Open Question entry.
func (idx *InvertedIndex) ContainsPrefix(phrase QueryPhrase) (bool, error) {
	return false, fmt.Errorf("%w: InvertedIndex.ContainsPrefix", ErrUnimplemented)
}
