// SPDX-License-Identifier: MIT

package phrasematch

import (
	"fmt"

	"github.com/phrasematch/phrasematch/internal/trie"
)

// PhraseSet is an immutable, ordered set of phrases (word-id
// sequences), encoded as a trie over each phrase's concatenated 3-byte
// word-id keys. Lexicographic byte order over keys coincides with
// lexicographic word-id order, which both the big-endian codec
// (codec.go) and PhraseSet's range queries rely on.
type PhraseSet struct {
	root *trie.Node
}

// PhraseSetBuilder builds a PhraseSet from phrases presented in
// lexicographic order of their encoded keys.
type PhraseSetBuilder struct {
	tb      *trie.Builder
	nextID  uint64
}

// NewPhraseSetBuilder returns a ready-to-use builder.
func NewPhraseSetBuilder() *PhraseSetBuilder {
	return &PhraseSetBuilder{tb: trie.NewBuilder()}
}

// Insert adds the phrase ids, assigning it the next phrase-id
// (insertion ordinal, 0-based). ids must encode strictly after every
// previously inserted phrase's key; violating this returns
// ErrBuildOrder, not a panic, since build-time ordering mistakes are a
// caller error that must be surfaced (spec §7).
func (b *PhraseSetBuilder) Insert(ids []WordID) (phraseID uint64, err error) {
	key, err := phraseKey(ids)
	if err != nil {
		return 0, err
	}

	id := b.nextID
	if err := b.tb.Insert(key, id); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildOrder, err)
	}
	b.nextID++
	return id, nil
}

// Build finalizes the PhraseSet.
func (b *PhraseSetBuilder) Build() *PhraseSet {
	return &PhraseSet{root: b.tb.Root()}
}

func fullKey(words []QueryWord) ([]byte, error) {
	key := make([]byte, 0, 3*len(words))
	for _, w := range words {
		if w.IsPrefix() {
			return nil, fmt.Errorf("%w: Prefix candidate not allowed here", ErrQueryShape)
		}
		k, err := w.key()
		if err != nil {
			return nil, err
		}
		key = append(key, k...)
	}
	return key, nil
}

// Contains reports whether phrase is, byte for byte, a complete
// indexed phrase. phrase must contain only Full candidates.
func (ps *PhraseSet) Contains(phrase QueryPhrase) (bool, error) {
	if phrase.HasPrefix() {
		return false, fmt.Errorf("%w: Contains does not accept a trailing Prefix", ErrQueryShape)
	}
	key, err := fullKey(phrase.Words())
	if err != nil {
		return false, err
	}
	n, ok := trie.Walk(ps.root, key)
	return ok && n.IsFinal(), nil
}

// ContainsPrefix reports whether phrase is a prefix of some indexed
// phrase. The last element may be a Prefix candidate, representing a
// word-id range; ContainsPrefix then reports whether some phrase
// extends the leading full words with any word-id in that range.
func (ps *PhraseSet) ContainsPrefix(phrase QueryPhrase) (bool, error) {
	words := phrase.Words()

	if !phrase.HasPrefix() {
		key, err := fullKey(words)
		if err != nil {
			return false, err
		}
		_, ok := trie.Walk(ps.root, key)
		return ok, nil
	}

	head, tail := words[:len(words)-1], words[len(words)-1]
	key, err := fullKey(head)
	if err != nil {
		return false, err
	}
	n, ok := trie.Walk(ps.root, key)
	if !ok {
		return false, nil
	}

	lo, hi, err := prefixBounds(tail)
	if err != nil {
		return false, err
	}
	return trie.PrefixRangeWalk(n, lo, hi).Found, nil
}

func prefixBounds(w QueryWord) (lo, hi []byte, err error) {
	if !w.IsPrefix() {
		return nil, nil, fmt.Errorf("%w: expected a Prefix candidate", ErrQueryShape)
	}
	min, max := w.IDRange()
	lo = make([]byte, 3)
	hi = make([]byte, 3)
	if err := encodeWordID(min, lo); err != nil {
		return nil, nil, err
	}
	if err := encodeWordID(max, hi); err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

// MatchKind identifies the shape of a MatchState.
type MatchKind int

const (
	// NotFound means the query phrase does not correspond to any path
	// in the set.
	NotFound MatchKind = iota
	// EndsInFullWord means the query phrase (all Full candidates)
	// reached a node; see FoundFinal/ID/HasContinuations.
	EndsInFullWord
	// EndsInPrefix means the query phrase's trailing Prefix candidate
	// reached a range of phrase-ids; see PrefixRange.
	EndsInPrefix
)

// MatchState is the rich result of PhraseSet.Lookup.
type MatchState struct {
	kind MatchKind
	node *trie.Node

	minNode *trie.Node
	maxNode *trie.Node
}

// Kind reports which shape this MatchState has.
func (m MatchState) Kind() MatchKind { return m.kind }

// FoundFinal reports whether the reached node is itself a complete
// phrase. Only meaningful when Kind() == EndsInFullWord.
func (m MatchState) FoundFinal() bool {
	return m.kind == EndsInFullWord && m.node.IsFinal()
}

// ID returns the phrase-id of the reached node, if it is final. Only
// meaningful when Kind() == EndsInFullWord.
func (m MatchState) ID() (uint64, bool) {
	if m.kind != EndsInFullWord || !m.node.IsFinal() {
		return 0, false
	}
	return m.node.Output(), true
}

// HasContinuations reports whether any indexed phrase extends past the
// reached node. Only meaningful when Kind() == EndsInFullWord.
func (m MatchState) HasContinuations() bool {
	return m.kind == EndsInFullWord && m.node.Len() > 0
}

// PrefixRange returns the closed interval of phrase-ids reachable
// through the matched prefix, without enumerating them. Only
// meaningful when Kind() == EndsInPrefix.
func (m MatchState) PrefixRange() (idMin, idMax uint64, ok bool) {
	if m.kind != EndsInPrefix {
		return 0, 0, false
	}
	idMin, ok1 := trie.DescendSmallestFinal(m.minNode)
	idMax, ok2 := trie.DescendLargestFinal(m.maxNode)
	return idMin, idMax, ok1 && ok2
}

// Lookup walks phrase against the set and returns a MatchState
// describing what was found.
func (ps *PhraseSet) Lookup(phrase QueryPhrase) (MatchState, error) {
	words := phrase.Words()

	if !phrase.HasPrefix() {
		key, err := fullKey(words)
		if err != nil {
			return MatchState{}, err
		}
		n, ok := trie.Walk(ps.root, key)
		if !ok {
			return MatchState{kind: NotFound}, nil
		}
		return MatchState{kind: EndsInFullWord, node: n}, nil
	}

	head, tail := words[:len(words)-1], words[len(words)-1]
	key, err := fullKey(head)
	if err != nil {
		return MatchState{}, err
	}
	n, ok := trie.Walk(ps.root, key)
	if !ok {
		return MatchState{kind: NotFound}, nil
	}

	lo, hi, err := prefixBounds(tail)
	if err != nil {
		return MatchState{}, err
	}
	res := trie.PrefixRangeWalk(n, lo, hi)
	if !res.Found {
		return MatchState{kind: NotFound}, nil
	}
	return MatchState{kind: EndsInPrefix, minNode: res.MinNode, maxNode: res.MaxNode}, nil
}

// Combination is one result of a combination search: the concrete
// word-ids chosen at each position and the total edit-distance cost
// paid to reach it.
type Combination struct {
	Words        []WordID
	EditDistance int
	// IsPrefix is set by MatchCombinationsAsWindows: false for a window
	// that is a complete phrase found before the last position, and
	// equal to endsInPrefix for a result emitted at the last position
	// (so with endsInPrefix the words may be a complete phrase or only
	// a prefix of one).
	IsPrefix bool
}

// MatchCombinations enumerates every Full-only combination of
// possibilities (one candidate list per position) that forms a
// complete indexed phrase within the given edit-distance budget.
//
// Each position's candidates must be sorted by non-decreasing
// EditDistance (caller contract, spec §4.D/§9): as soon as one
// candidate's distance would exceed the remaining budget, the search
// stops considering that position's later candidates entirely (break,
// not continue).
func (ps *PhraseSet) MatchCombinations(possibilities [][]QueryWord, budget int) ([]Combination, error) {
	for _, pos := range possibilities {
		for _, w := range pos {
			if w.IsPrefix() {
				return nil, fmt.Errorf("%w: MatchCombinations does not accept Prefix candidates", ErrQueryShape)
			}
		}
	}

	var results []Combination
	var walk func(node *trie.Node, depth int, budget int, acc []WordID, cost int) error
	walk = func(node *trie.Node, depth, budget int, acc []WordID, cost int) error {
		if depth == len(possibilities) {
			if node.IsFinal() {
				results = append(results, Combination{Words: append([]WordID(nil), acc...), EditDistance: cost})
			}
			return nil
		}

		for _, cand := range possibilities[depth] {
			if int(cand.EditDistance()) > budget {
				break
			}
			k, err := cand.key()
			if err != nil {
				return err
			}
			child, ok := trie.Walk(node, k)
			if !ok {
				continue
			}
			if err := walk(child, depth+1, budget-int(cand.EditDistance()), append(acc, cand.ID()), cost+int(cand.EditDistance())); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(ps.root, 0, budget, nil, 0); err != nil {
		return nil, err
	}
	return results, nil
}

// MatchCombinationsAsPrefixes is MatchCombinations, except the final
// position need not land on a complete phrase: it is enough that the
// accumulated word-ids form a prefix of some indexed phrase. If the
// trailing candidate at the last position is a Prefix, the search uses
// PrefixRangeWalk instead of an exact word match.
func (ps *PhraseSet) MatchCombinationsAsPrefixes(possibilities [][]QueryWord, budget int) ([]Combination, error) {
	if len(possibilities) == 0 {
		return nil, fmt.Errorf("%w: empty possibilities", ErrQueryShape)
	}
	for _, pos := range possibilities[:len(possibilities)-1] {
		for _, w := range pos {
			if w.IsPrefix() {
				return nil, fmt.Errorf("%w: Prefix candidate only allowed at the last position", ErrQueryShape)
			}
		}
	}

	var results []Combination
	last := len(possibilities) - 1

	var walk func(node *trie.Node, depth, budget int, acc []WordID, cost int) error
	walk = func(node *trie.Node, depth, budget int, acc []WordID, cost int) error {
		for _, cand := range possibilities[depth] {
			if int(cand.EditDistance()) > budget && !cand.IsPrefix() {
				break
			}

			if cand.IsPrefix() {
				if depth != last {
					return fmt.Errorf("%w: Prefix candidate only allowed at the last position", ErrQueryShape)
				}
				lo, hi, err := prefixBounds(cand)
				if err != nil {
					return err
				}
				if trie.PrefixRangeWalk(node, lo, hi).Found {
					results = append(results, Combination{Words: append([]WordID(nil), acc...), EditDistance: cost})
				}
				continue
			}

			k, err := cand.key()
			if err != nil {
				return err
			}
			child, ok := trie.Walk(node, k)
			if !ok {
				continue
			}
			nextAcc := append(acc, cand.ID())
			nextCost := cost + int(cand.EditDistance())

			if depth == last {
				results = append(results, Combination{Words: append([]WordID(nil), nextAcc...), EditDistance: nextCost})
				continue
			}
			if err := walk(child, depth+1, budget-int(cand.EditDistance()), nextAcc, nextCost); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(ps.root, 0, budget, nil, 0); err != nil {
		return nil, err
	}
	return results, nil
}

// MatchCombinationsAsWindows enumerates every maximal prefix of
// possibilities that is itself a phrase in the set: at every depth
// after the first, whenever the reached node is final, the
// accumulated word-ids are emitted (IsPrefix=false) before recursing
// further. At the terminal position, a result is also emitted if the
// node is final or endsInPrefix is true (IsPrefix=endsInPrefix,
// whether or not the node is final).
//
// A Prefix candidate is only permitted at the last position, and only
// when endsInPrefix is true; Prefix candidates never recurse further.
func (ps *PhraseSet) MatchCombinationsAsWindows(possibilities [][]QueryWord, budget int, endsInPrefix bool) ([]Combination, error) {
	if len(possibilities) == 0 {
		return nil, fmt.Errorf("%w: empty possibilities", ErrQueryShape)
	}

	last := len(possibilities) - 1
	for depth, pos := range possibilities {
		for _, w := range pos {
			if !w.IsPrefix() {
				continue
			}
			if depth != last || !endsInPrefix {
				return nil, fmt.Errorf("%w: Prefix candidate only allowed at the last position when endsInPrefix", ErrQueryShape)
			}
		}
	}

	var results []Combination

	var walk func(node *trie.Node, depth, budget int, acc []WordID, cost int) error
	walk = func(node *trie.Node, depth, budget int, acc []WordID, cost int) error {
		if depth > 0 && node.IsFinal() {
			results = append(results, Combination{Words: append([]WordID(nil), acc...), EditDistance: cost, IsPrefix: false})
		}

		if depth == len(possibilities) {
			return nil
		}

		for _, cand := range possibilities[depth] {
			if !cand.IsPrefix() && int(cand.EditDistance()) > budget {
				break
			}

			if cand.IsPrefix() {
				lo, hi, err := prefixBounds(cand)
				if err != nil {
					return err
				}
				if trie.PrefixRangeWalk(node, lo, hi).Found {
					results = append(results, Combination{Words: append([]WordID(nil), acc...), EditDistance: cost, IsPrefix: true})
				}
				continue
			}

			k, err := cand.key()
			if err != nil {
				return err
			}
			child, ok := trie.Walk(node, k)
			if !ok {
				continue
			}

			nextAcc := append(acc, cand.ID())
			nextCost := cost + int(cand.EditDistance())

			if depth == last {
				if child.IsFinal() || endsInPrefix {
					results = append(results, Combination{Words: append([]WordID(nil), nextAcc...), EditDistance: nextCost, IsPrefix: endsInPrefix})
				}
				continue
			}
			if err := walk(child, depth+1, budget-int(cand.EditDistance()), nextAcc, nextCost); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(ps.root, 0, budget, nil, 0); err != nil {
		return nil, err
	}
	return results, nil
}
