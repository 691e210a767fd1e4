// SPDX-License-Identifier: MIT

package trie

import "bytes"

// Walk advances from start along key, one byte at a time. It returns
// the reached node and true, or (nil, false) if key has no matching
// transition from start.
func Walk(start *Node, key []byte) (*Node, bool) {
	n := start
	for _, b := range key {
		child, ok := n.child(b)
		if !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}

// RangeResult is the outcome of PrefixRangeWalk.
type RangeResult struct {
	Found           bool
	MinNode         *Node
	MinReachedFinal bool // MinNode.IsFinal() is true at the reached prefix path
	MaxNode         *Node
	MaxReachedFinal bool
}

// PrefixRangeWalk finds, starting from start, the lexicographically
// smallest path reachable whose bytes are >= lo and the largest whose
// bytes are <= hi, both of length len(lo) == len(hi). It reports
// Found=false if no path in [lo, hi] exists from start.
//
// Per spec: descend byte by byte, restricting to transitions in range;
// a byte chosen equal to the bound propagates the constraint to the
// next level ("must_skip"), a byte strictly inside the bound releases
// all deeper constraints (the remaining levels then take the
// smallest/largest available transition unconstrained).
func PrefixRangeWalk(start *Node, lo, hi []byte) RangeResult {
	minPath, minNode, minOK := descendLowerBound(start, lo)
	maxPath, maxNode, maxOK := descendUpperBound(start, hi)

	found := minOK && maxOK &&
		bytes.Compare(minPath, hi) <= 0 &&
		bytes.Compare(maxPath, lo) >= 0

	return RangeResult{
		Found:           found,
		MinNode:         minNode,
		MinReachedFinal: minOK && minNode.IsFinal(),
		MaxNode:         maxNode,
		MaxReachedFinal: maxOK && maxNode.IsFinal(),
	}
}

// descendLowerBound finds the smallest path from start whose bytes are
// >= lo, lexicographically, of length len(lo). Returns the path taken
// and the reached node.
//
// Committing to the first transition byte >= the bound at each level
// is not enough: that branch can dead-end deeper (run out of children,
// or bottom out before len(lo)) while a larger sibling at the same
// level leads to a valid path. So each level retries its next sibling
// on a failed recursion instead of failing outright, mirroring
// find_first_after's for-loop-with-fallthrough shape.
func descendLowerBound(start *Node, lo []byte) ([]byte, *Node, bool) {
	return findLowerBound(start, lo, 0, true)
}

func findLowerBound(n *Node, lo []byte, idx int, tight bool) ([]byte, *Node, bool) {
	if idx == len(lo) {
		return []byte{}, n, true
	}

	want := uint(lo[idx])
	cursor := uint(0)
	if tight {
		cursor = want
	}

	for {
		b, child, ok := n.childFrom(cursor)
		if !ok {
			return nil, nil, false
		}

		// Tight carries forward only while b lands exactly on the
		// bound byte; once a backtrack has forced a byte strictly
		// above it, every deeper level is unconstrained regardless of
		// where the retry cursor itself currently sits.
		childTight := tight && uint(b) == want
		rest, node, ok := findLowerBound(child, lo, idx+1, childTight)
		if ok {
			path := make([]byte, 0, len(lo)-idx)
			path = append(path, b)
			path = append(path, rest...)
			return path, node, true
		}

		cursor = uint(b) + 1
	}
}

// descendUpperBound is the mirror of descendLowerBound, finding the
// largest path <= hi, backtracking to the next smaller sibling on a
// dead end for the same reason.
func descendUpperBound(start *Node, hi []byte) ([]byte, *Node, bool) {
	return findUpperBound(start, hi, 0, true)
}

func findUpperBound(n *Node, hi []byte, idx int, tight bool) ([]byte, *Node, bool) {
	if idx == len(hi) {
		return []byte{}, n, true
	}

	want := uint(hi[idx])
	cursor := uint(255)
	if tight {
		cursor = want
	}

	for {
		b, child, ok := n.childUpTo(cursor)
		if !ok {
			return nil, nil, false
		}

		// See findLowerBound's comment: tight only carries forward
		// while b lands exactly on the bound byte, never based on the
		// retry cursor, which drifts below the bound on backtrack.
		childTight := tight && uint(b) == want
		rest, node, ok := findUpperBound(child, hi, idx+1, childTight)
		if ok {
			path := make([]byte, 0, len(hi)-idx)
			path = append(path, b)
			path = append(path, rest...)
			return path, node, true
		}

		if b == 0 {
			return nil, nil, false
		}
		cursor = uint(b) - 1
	}
}

// DescendSmallestFinal returns the output of the lexicographically
// smallest final node reachable from n (including n itself).
func DescendSmallestFinal(n *Node) (uint64, bool) {
	for {
		if n.IsFinal() {
			return n.Output(), true
		}
		_, child, ok := n.smallestChild()
		if !ok {
			return 0, false
		}
		n = child
	}
}

// DescendLargestFinal follows the largest outgoing transition
// repeatedly until a leaf (a node with no further transitions) is
// reached, and returns its output. By construction every leaf of an
// inserted key is final.
func DescendLargestFinal(n *Node) (uint64, bool) {
	for {
		_, child, ok := n.largestChild()
		if !ok {
			return n.Output(), n.IsFinal()
		}
		n = child
	}
}
