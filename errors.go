// SPDX-License-Identifier: MIT

package phrasematch

import "errors"

// Sentinel error kinds. Callers should test with errors.Is; wrapped
// context is added with %w alongside these.
var (
	// ErrBuildCapacity is returned when a vocabulary or overflow table
	// would exceed BigNumber (2^30) entries, or a word-id does not fit
	// in 24 bits.
	ErrBuildCapacity = errors.New("phrasematch: build capacity exceeded")

	// ErrBuildOrder is returned when phrases are inserted into a
	// PhraseSet builder out of lexicographic key order.
	ErrBuildOrder = errors.New("phrasematch: phrases must be inserted in lexicographic key order")

	// ErrIO wraps filesystem or mmap failures during build or load.
	ErrIO = errors.New("phrasematch: I/O error")

	// ErrDecode is returned for a truncated or corrupt on-disk
	// structure: bad magic, unsupported version, checksum mismatch, or
	// an out-of-range overflow index.
	ErrDecode = errors.New("phrasematch: decode error")

	// ErrQueryShape is returned when a query violates the shape a
	// given operation requires: a Prefix candidate where only Full is
	// allowed, a Prefix with EndsInPrefix=false in window search, or an
	// empty QueryPhrase.
	ErrQueryShape = errors.New("phrasematch: invalid query shape")

	// ErrUnimplemented is returned by operations with no well-defined
	// implementation rather than giving them silently wrong behavior
	// (see InvertedIndex.ContainsPrefix).
	ErrUnimplemented = errors.New("phrasematch: operation not implemented")
)
