// SPDX-License-Identifier: MIT

package bitset

// rankMask[i] has all bits [0..i] set and the rest zero, so that
// popcount(b & rankMask[i]) == Rank(i) (inclusive). Computed once at
// init instead of carried as a 256-entry literal table.
var rankMask [256]Set256

func init() {
	for i := range rankMask {
		var m Set256
		for bit := 0; bit <= i; bit++ {
			m.MustSet(uint(bit))
		}
		rankMask[i] = m
	}
}
