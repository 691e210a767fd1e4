// SPDX-License-Identifier: MIT

package phrasematch

import "fmt"

// QueryWord is a single position's candidate set, reduced to one of
// two shapes by fuzzy expansion upstream:
//
//   - a concrete word-id with the edit distance it cost to produce it
//     (Full), or
//   - an inclusive range of word-ids sharing a typed prefix (Prefix).
//
// The zero value is not meaningful; construct with NewFullWord or
// NewPrefixWord.
type QueryWord struct {
	isPrefix     bool
	id           WordID
	editDistance uint8
	minID        WordID
	maxID        WordID
}

// NewFullWord returns a concrete candidate word with its edit cost
// against the user's input token.
func NewFullWord(id WordID, editDistance uint8) QueryWord {
	return QueryWord{id: id, editDistance: editDistance}
}

// NewPrefixWord returns a candidate representing every vocabulary word
// whose id falls in [minID, maxID]. minID must be <= maxID.
func NewPrefixWord(minID, maxID WordID) QueryWord {
	if minID > maxID {
		panic("phrasematch: NewPrefixWord requires minID <= maxID")
	}
	return QueryWord{isPrefix: true, minID: minID, maxID: maxID}
}

// IsPrefix reports whether this candidate is a word-id range rather
// than a concrete word.
func (q QueryWord) IsPrefix() bool { return q.isPrefix }

// ID returns the word-id of a Full candidate. Only meaningful when
// !IsPrefix().
func (q QueryWord) ID() WordID { return q.id }

// EditDistance returns the edit cost of a Full candidate. Only
// meaningful when !IsPrefix().
func (q QueryWord) EditDistance() uint8 { return q.editDistance }

// IDRange returns the inclusive word-id range of a Prefix candidate.
// Only meaningful when IsPrefix().
func (q QueryWord) IDRange() (min, max WordID) { return q.minID, q.maxID }

func (q QueryWord) key() ([]byte, error) {
	if q.isPrefix {
		return nil, fmt.Errorf("%w: Prefix candidate has no single key", ErrQueryShape)
	}
	buf := make([]byte, 3)
	if err := encodeWordID(q.id, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// QueryPhrase is an ordered sequence of QueryWords. A Prefix candidate
// may appear only as the last element.
type QueryPhrase struct {
	words     []QueryWord
	hasPrefix bool
}

// NewQueryPhrase builds a QueryPhrase, enforcing non-emptiness and that
// at most the final element is a Prefix. Returns ErrQueryShape
// otherwise.
func NewQueryPhrase(words ...QueryWord) (QueryPhrase, error) {
	if len(words) == 0 {
		return QueryPhrase{}, fmt.Errorf("%w: empty QueryPhrase", ErrQueryShape)
	}
	for _, w := range words[:len(words)-1] {
		if w.IsPrefix() {
			return QueryPhrase{}, fmt.Errorf("%w: Prefix candidate only allowed at the tail", ErrQueryShape)
		}
	}
	cp := append([]QueryWord(nil), words...)
	return QueryPhrase{words: cp, hasPrefix: cp[len(cp)-1].IsPrefix()}, nil
}

// Words returns the phrase's positions in order. Callers must not
// mutate the returned slice.
func (p QueryPhrase) Words() []QueryWord { return p.words }

// HasPrefix reports whether the last element is a Prefix candidate.
func (p QueryPhrase) HasPrefix() bool { return p.hasPrefix }

// Len returns the number of positions.
func (p QueryPhrase) Len() int { return len(p.words) }
