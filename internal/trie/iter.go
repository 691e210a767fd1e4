// SPDX-License-Identifier: MIT

package trie

import "iter"

// All enumerates every final key reachable from root, in ascending
// lexicographic order, together with its output. Mirrors the
// range-over-func iterators bart exposes over its routing tables
// (table_iter.go), adapted to trie keys instead of CIDRs.
func All(root *Node) iter.Seq2[[]byte, uint64] {
	return func(yield func([]byte, uint64) bool) {
		var walk func(n *Node, prefix []byte) bool
		walk = func(n *Node, prefix []byte) bool {
			if n.IsFinal() {
				if !yield(append([]byte(nil), prefix...), n.Output()) {
					return false
				}
			}
			for _, bit := range n.present.AsSlice() {
				child, _ := n.child(byte(bit))
				prefix = append(prefix, byte(bit))
				if !walk(child, prefix) {
					return false
				}
				prefix = prefix[:len(prefix)-1]
			}
			return true
		}
		walk(root, make([]byte, 0, 32))
	}
}
