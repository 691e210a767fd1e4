// SPDX-License-Identifier: MIT

package phrasematch

import "golang.org/x/text/unicode/norm"

// variants returns the set of strings obtainable from word by deleting
// up to d Unicode scalar values (never fewer than one deletion; the
// original word is handled separately by callers). Deletion operates
// on NFC-normalized scalar-value boundaries, not raw bytes, so that a
// combining-mark sequence that a reader perceives as one character is
// deleted atomically — see DESIGN NOTES §9 on multi-byte scripts.
//
// Order is not observable: callers must treat the result as a set.
func variants(word string, d int) map[string]struct{} {
	out := map[string]struct{}{}
	if d <= 0 || word == "" {
		return out
	}

	runes := []rune(norm.NFC.String(word))
	generateVariants(runes, d, out)
	return out
}

// generateVariants recursively deletes 1..d scalar values from runes,
// collecting every distinct result (including those reachable through
// more than one deletion path) into out.
func generateVariants(runes []rune, d int, out map[string]struct{}) {
	if d <= 0 || len(runes) == 0 {
		return
	}

	for i := range runes {
		next := make([]rune, 0, len(runes)-1)
		next = append(next, runes[:i]...)
		next = append(next, runes[i+1:]...)

		out[string(next)] = struct{}{}
		generateVariants(next, d-1, out)
	}
}
