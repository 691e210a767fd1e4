// SPDX-License-Identifier: MIT

// Package trie implements the byte-keyed, popcount-compressed immutable
// trie that backs both FuzzyMap's key->id map and PhraseSet's
// key->phrase-id map. It plays the role the original Rust
// implementation gave to an FST: a deterministic, memory-compact map
// from a byte string to a 64-bit output, queryable by exact match,
// prefix walk, and bounded-range descent.
//
// Node layout follows the popcount-compressed child array used for
// the multibit trie in github.com/gaissmai/bart (node.children): a
// 256-bit presence bitset (internal/bitset.Set256) plus a dense slice
// holding only the present children, indexed via Rank0. Unlike a true
// minimal-acyclic FST, output values are stored as absolute 64-bit
// values on the node where a key ends, not as per-transition deltas
// shared across common suffixes; this trades the last few percent of
// memory compaction a suffix-merging FST would buy for a much simpler,
// auditable implementation. See DESIGN.md.
package trie

import "github.com/phrasematch/phrasematch/internal/bitset"

// Node is one level of the trie: a set of outgoing byte transitions,
// and, if a key ends here, a final output value.
type Node struct {
	present  bitset.Set256
	children []*Node
	final    bool
	output   uint64
}

// IsFinal reports whether a key ends at this node.
func (n *Node) IsFinal() bool { return n.final }

// Output returns the output stored at this node. Only meaningful when
// IsFinal is true.
func (n *Node) Output() uint64 { return n.output }

// Len returns the number of outgoing transitions, i.e. whether queries
// can continue past this node (MatchState.HasContinuations).
func (n *Node) Len() int { return len(n.children) }

// child returns the child reached by byte b, if any.
func (n *Node) child(b byte) (*Node, bool) {
	if !n.present.Test(uint(b)) {
		return nil, false
	}
	return n.children[n.present.Rank0(uint(b))], true
}

// childAtOrAbove returns the smallest transition byte >= b and its node.
func (n *Node) childAtOrAbove(b byte) (byte, *Node, bool) {
	return n.childFrom(uint(b))
}

// childAtOrBelow returns the largest transition byte <= b and its node.
func (n *Node) childAtOrBelow(b byte) (byte, *Node, bool) {
	return n.childUpTo(uint(b))
}

// smallestChild returns the smallest-byte outgoing transition.
func (n *Node) smallestChild() (byte, *Node, bool) {
	return n.childFrom(0)
}

// largestChild returns the largest-byte outgoing transition.
func (n *Node) largestChild() (byte, *Node, bool) {
	return n.childUpTo(255)
}

// childFrom returns the smallest transition byte >= from and its node.
// from is a uint (not a byte) so a caller walking siblings upward can
// pass 256 to mean "past the last possible byte" without wraparound,
// e.g. childFrom(uint(b)+1) to resume just after b.
func (n *Node) childFrom(from uint) (byte, *Node, bool) {
	if from > 255 {
		return 0, nil, false
	}
	nb, ok := n.present.NextSet(from)
	if !ok || nb > 255 {
		return 0, nil, false
	}
	return byte(nb), n.children[n.present.Rank0(nb)], true
}

// childUpTo returns the largest transition byte <= upTo and its node.
// upTo is a uint for the same reason childFrom's from is: a caller
// walking siblings downward from byte b calls childUpTo(uint(b)-1),
// which only needs guarding against underflow at the call site (b==0
// means there is no sibling below).
func (n *Node) childUpTo(upTo uint) (byte, *Node, bool) {
	pb, ok := n.present.PrevSet(upTo)
	if !ok {
		return 0, nil, false
	}
	return byte(pb), n.children[n.present.Rank0(pb)], true
}

// insertChild creates (if absent) the child reached by byte b and
// returns it. Builder guarantees keys are inserted in non-decreasing
// lexicographic order, so within one node the transition byte b is
// always >= every byte already present; the new child always lands at
// the end of the dense slice, no shifting required.
func (n *Node) insertChild(b byte) *Node {
	if c, ok := n.child(b); ok {
		return c
	}

	child := &Node{}
	n.children = append(n.children, child)
	n.present.MustSet(uint(b))
	return child
}
