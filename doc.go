// SPDX-License-Identifier: MIT

// Package phrasematch implements a fuzzy, phrase-aware lookup engine
// over tokenized strings such as addresses: a FuzzyMap resolves a
// misspelled word to the vocabulary word-ids within some edit
// distance, a PhraseSet tests exact and prefix containment of word-id
// sequences and enumerates edit-distance-bounded combinations against
// an indexed phrase corpus, and an optional InvertedIndex gives a
// coarser, cheaper word/phrase membership test for callers that do not
// need PhraseSet's ordering guarantees.
//
// All three structures are built once, offline, through a builder and
// are then read-only; there is no incremental update after Build. The
// PhraseSet builder takes phrases in sorted key order; the FuzzyMap
// and InvertedIndex builders accept entries in any order.
package phrasematch
