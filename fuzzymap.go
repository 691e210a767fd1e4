// SPDX-License-Identifier: MIT

package phrasematch

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/phrasematch/phrasematch/internal/trie"
)

// BigNumber discriminates a FuzzyMap trie output that is a direct
// word-id from one that is an indirection index into the overflow
// table: outputs < BigNumber are word-ids, outputs >= BigNumber
// indirect through overflow[output-BigNumber].
const BigNumber = 1 << 30

// FuzzyMap is an immutable fuzzy word index: a trie over the
// vocabulary's words and their deletion-distance variants (see
// variants.go), augmented with an overflow table for keys that several
// distinct vocabulary words collide on.
type FuzzyMap struct {
	root     *trie.Node
	overflow [][]WordID
	d        int
}

// FuzzyMapBuilder builds a FuzzyMap from a vocabulary stream.
//
// Build is a single-threaded, two-pass process: emit (word, id) and
// every generated variant's (variant, id), sort by key with id as
// tiebreak, then group consecutive equal keys into either a direct
// word-id (group size 1) or an overflow table entry (group size > 1).
type FuzzyMapBuilder struct {
	d       int
	entries []fuzzyEntry
}

type fuzzyEntry struct {
	key string
	id  WordID
}

// NewFuzzyMapBuilder returns a builder seeding variants at edit
// distance d (d is normally 1 or 2).
func NewFuzzyMapBuilder(d int) *FuzzyMapBuilder {
	return &FuzzyMapBuilder{d: d}
}

// Add emits word with its assigned id and every one of its deletion
// variants. The caller assigns ids; Add does not itself number words.
func (b *FuzzyMapBuilder) Add(word string, id WordID) error {
	if id >= MaxWordID {
		return fmt.Errorf("%w: word-id %d >= %d", ErrBuildCapacity, id, WordID(MaxWordID))
	}

	b.entries = append(b.entries, fuzzyEntry{key: word, id: id})
	for v := range variants(word, b.d) {
		b.entries = append(b.entries, fuzzyEntry{key: v, id: id})
	}
	return nil
}

// Build sorts and groups the emitted entries, producing the finished
// FuzzyMap.
func (b *FuzzyMapBuilder) Build() (*FuzzyMap, error) {
	sort.Slice(b.entries, func(i, j int) bool {
		if b.entries[i].key != b.entries[j].key {
			return b.entries[i].key < b.entries[j].key
		}
		return b.entries[i].id < b.entries[j].id
	})

	tb := trie.NewBuilder()
	var overflow [][]WordID

	i := 0
	for i < len(b.entries) {
		j := i + 1
		for j < len(b.entries) && b.entries[j].key == b.entries[i].key {
			j++
		}

		ids := dedupIDsInOrder(b.entries[i:j])

		var output uint64
		if len(ids) == 1 {
			output = uint64(ids[0])
		} else {
			if len(overflow) >= BigNumber {
				return nil, fmt.Errorf("%w: overflow table would exceed %d entries", ErrBuildCapacity, BigNumber)
			}
			output = BigNumber + uint64(len(overflow))
			overflow = append(overflow, ids)
		}

		if err := tb.Insert([]byte(b.entries[i].key), output); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}

		i = j
	}

	return &FuzzyMap{root: tb.Root(), overflow: overflow, d: b.d}, nil
}

// dedupIDsInOrder keeps the first occurrence of each id, preserving
// the order of group. Build sorts each key's group by id first, so
// overflow entries hold their ids in ascending order.
func dedupIDsInOrder(group []fuzzyEntry) []WordID {
	seen := make(map[WordID]struct{}, len(group))
	ids := make([]WordID, 0, len(group))
	for _, e := range group {
		if _, ok := seen[e.id]; ok {
			continue
		}
		seen[e.id] = struct{}{}
		ids = append(ids, e.id)
	}
	return ids
}

// WordIDLookup resolves a word-id back to its string, supplied by the
// caller (the tokenizer's vocabulary owns this mapping, see spec §1
// Non-goals).
type WordIDLookup func(WordID) (string, bool)

// FuzzyResult is one verified match from FuzzyMap.Lookup.
type FuzzyResult struct {
	Word string
	ID   WordID
}

// Lookup returns every indexed word within edit distance d of query,
// resolved through idToWord and sorted by ascending id. Candidates
// whose true Damerau–Levenshtein distance from query exceeds d are
// dropped (the FST probe is a conservative overapproximation; the
// final check in this function is mandatory, not optional).
func (m *FuzzyMap) Lookup(query string, d int, idToWord WordIDLookup) ([]FuzzyResult, error) {
	if query == "" {
		return nil, nil
	}

	candidateKeys := map[string]struct{}{query: {}}
	for v := range variants(query, d) {
		candidateKeys[v] = struct{}{}
	}

	idSet := map[WordID]struct{}{}
	for key := range candidateKeys {
		n, ok := trie.Walk(m.root, []byte(key))
		if !ok || !n.IsFinal() {
			continue
		}

		out := n.Output()
		if out < BigNumber {
			idSet[WordID(out)] = struct{}{}
			continue
		}

		idx := out - BigNumber
		if idx >= uint64(len(m.overflow)) {
			return nil, fmt.Errorf("%w: overflow index %d out of range", ErrDecode, idx)
		}
		for _, id := range m.overflow[idx] {
			idSet[id] = struct{}{}
		}
	}

	ids := make([]WordID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	results := make([]FuzzyResult, 0, len(ids))
	for _, id := range ids {
		word, ok := idToWord(id)
		if !ok {
			continue
		}
		if damerauLevenshtein(query, word) <= d {
			results = append(results, FuzzyResult{Word: word, ID: id})
		}
	}
	return results, nil
}

// Suggest is a convenience ranking on top of Lookup's verified results:
// it reorders them by lithammer/fuzzysearch's subsequence-match rank
// against query, for callers that want a "best guess first" ordering
// for display. It is not part of the core contract (Lookup's ascending
// id order is); a word that is a valid edit-distance match but not a
// fuzzy subsequence match of query (e.g. it differs by a transposition
// that breaks subsequence order) is kept, just ranked last.
func (m *FuzzyMap) Suggest(query string, d int, idToWord WordIDLookup) ([]FuzzyResult, error) {
	results, err := m.Lookup(query, d, idToWord)
	if err != nil {
		return nil, err
	}

	words := make([]string, len(results))
	for i, r := range results {
		words[i] = r.Word
	}
	ranked := fuzzy.RankFind(query, words)

	rank := make(map[string]int, len(ranked))
	for _, r := range ranked {
		rank[r.Target] = r.Distance
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, oki := rank[results[i].Word]
		rj, okj := rank[results[j].Word]
		if oki != okj {
			return oki // subsequence matches sort before non-matches
		}
		if !oki {
			return false
		}
		return ri < rj
	})
	return results, nil
}
