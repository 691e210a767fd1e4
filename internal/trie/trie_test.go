// SPDX-License-Identifier: MIT

package trie

import (
	"bytes"
	"testing"
)

func buildTestTrie(t *testing.T, entries map[string]uint64) *Node {
	t.Helper()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	// simple insertion sort; test inputs are small
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}

	b := NewBuilder()
	for _, k := range keys {
		if err := b.Insert([]byte(k), entries[k]); err != nil {
			t.Fatalf("Insert(%q) failed: %v", k, err)
		}
	}
	return b.Root()
}

func TestWalk(t *testing.T) {
	t.Parallel()

	root := buildTestTrie(t, map[string]uint64{
		"cat": 1, "car": 2, "cart": 3, "dog": 4,
	})

	cases := []struct {
		key      string
		wantOK   bool
		wantFin  bool
		wantOut  uint64
	}{
		{"cat", true, true, 1},
		{"car", true, true, 2},
		{"cart", true, true, 3},
		{"dog", true, true, 4},
		{"ca", true, false, 0},
		{"bird", false, false, 0},
		{"carts", false, false, 0},
	}
	for _, c := range cases {
		n, ok := Walk(root, []byte(c.key))
		if ok != c.wantOK {
			t.Errorf("Walk(%q) ok = %v, want %v", c.key, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if n.IsFinal() != c.wantFin {
			t.Errorf("Walk(%q) final = %v, want %v", c.key, n.IsFinal(), c.wantFin)
		}
		if c.wantFin && n.Output() != c.wantOut {
			t.Errorf("Walk(%q) output = %d, want %d", c.key, n.Output(), c.wantOut)
		}
	}
}

func TestBuilderOutOfOrder(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	if err := b.Insert([]byte("bbb"), 1); err != nil {
		t.Fatalf("Insert(bbb) = %v", err)
	}
	if err := b.Insert([]byte("aaa"), 2); err == nil {
		t.Fatalf("Insert(aaa) after bbb: want ErrOutOfOrder, got nil")
	}
	if err := b.Insert([]byte("bbb"), 3); err == nil {
		t.Fatalf("Insert(bbb) twice: want ErrDuplicateKey, got nil")
	}
}

func TestPrefixRangeWalk(t *testing.T) {
	t.Parallel()

	ids := []string{"aaa", "aab", "aba", "abb", "bba"}
	entries := map[string]uint64{}
	for i, k := range ids {
		entries[k] = uint64(i)
	}
	root := buildTestTrie(t, entries)

	// Range covering "aa*" through "ab*" should find aaa..abb.
	res := PrefixRangeWalk(root, []byte("aaa"), []byte("abz"))
	if !res.Found {
		t.Fatalf("PrefixRangeWalk(aaa, abz).Found = false, want true")
	}

	// Range entirely outside the trie's keys.
	res2 := PrefixRangeWalk(root, []byte("ccc"), []byte("czz"))
	if res2.Found {
		t.Fatalf("PrefixRangeWalk(ccc, czz).Found = true, want false")
	}
}

// TestPrefixRangeWalkBacktracksAcrossSiblings covers a shape the
// earlier cases above miss: the branch that matches the lower bound
// exactly at depth 0 (byte 4) dead-ends at depth 1 (no child >= 6
// under it), while a larger sibling at depth 0 (byte 6) that the
// bound no longer constrains does contain a qualifying path. The
// smallest key >= (4,6,0) is (6,3,4), reached only by abandoning the
// exact-match branch and retrying the next sibling, not by failing
// outright the moment the exact-match branch runs out of children.
func TestPrefixRangeWalkBacktracksAcrossSiblings(t *testing.T) {
	t.Parallel()

	paths := [][3]byte{
		{2, 1, 0}, {2, 3, 2}, {2, 3, 4}, {2, 5, 6},
		{4, 1, 1}, {4, 3, 3}, {4, 5, 5},
		{6, 3, 4}, {6, 3, 7}, {6, 5, 8},
	}
	entries := map[string]uint64{}
	outputs := map[string]uint64{}
	for i, p := range paths {
		k := string(p[:])
		entries[k] = uint64(i)
		outputs[k] = uint64(i)
	}
	root := buildTestTrie(t, entries)

	res := PrefixRangeWalk(root, []byte{4, 6, 0}, []byte{9, 9, 9})
	if !res.Found {
		t.Fatalf("PrefixRangeWalk({4,6,0},{9,9,9}).Found = false, want true (6,3,4) qualifies")
	}
	if !res.MinReachedFinal {
		t.Fatalf("PrefixRangeWalk({4,6,0},{9,9,9}).MinReachedFinal = false, want true")
	}
	wantOut := outputs[string([]byte{6, 3, 4})]
	if res.MinNode.Output() != wantOut {
		t.Errorf("MinNode.Output() = %d, want %d (the (6,3,4) path)", res.MinNode.Output(), wantOut)
	}

	// Mirror case for the upper bound: the branch matching hi exactly
	// at depth 0 must backtrack to a smaller sibling if it dead-ends.
	res2 := PrefixRangeWalk(root, []byte{0, 0, 0}, []byte{4, 0, 9})
	if !res2.Found {
		t.Fatalf("PrefixRangeWalk({0,0,0},{4,0,9}).Found = false, want true (2,5,6) qualifies")
	}
	wantMax := outputs[string([]byte{2, 5, 6})]
	if res2.MaxNode.Output() != wantMax {
		t.Errorf("MaxNode.Output() = %d, want %d (the (2,5,6) path)", res2.MaxNode.Output(), wantMax)
	}
}

func TestDescendSmallestLargestFinal(t *testing.T) {
	t.Parallel()

	root := buildTestTrie(t, map[string]uint64{
		"aa": 10, "ab": 20, "ac": 30,
	})

	n, ok := Walk(root, []byte("a"))
	if !ok {
		t.Fatalf("Walk(a) failed")
	}

	min, ok := DescendSmallestFinal(n)
	if !ok || min != 10 {
		t.Errorf("DescendSmallestFinal = (%d, %v), want (10, true)", min, ok)
	}
	max, ok := DescendLargestFinal(n)
	if !ok || max != 30 {
		t.Errorf("DescendLargestFinal = (%d, %v), want (30, true)", max, ok)
	}
}

func TestAllIteratesInOrder(t *testing.T) {
	t.Parallel()

	entries := map[string]uint64{"bb": 2, "aa": 1, "cc": 3}
	root := buildTestTrie(t, entries)

	var keys []string
	for k, v := range All(root) {
		keys = append(keys, string(k))
		if entries[string(k)] != v {
			t.Errorf("All() yielded (%q, %d), want output %d", k, v, entries[string(k)])
		}
	}
	want := []string{"aa", "bb", "cc"}
	if len(keys) != len(want) {
		t.Fatalf("All() yielded %d keys, want %d", len(keys), len(want))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("All()[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	root := buildTestTrie(t, map[string]uint64{
		"cat": 1, "car": 2, "cart": 3, "dog": 4,
	})

	enc := Encode(nil, root)
	decoded, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	for _, key := range []string{"cat", "car", "cart", "dog"} {
		orig, ok := Walk(root, []byte(key))
		if !ok {
			t.Fatalf("Walk(original, %q) failed", key)
		}
		got, ok := Walk(decoded, []byte(key))
		if !ok {
			t.Fatalf("Walk(decoded, %q) failed", key)
		}
		if got.Output() != orig.Output() {
			t.Errorf("Walk(decoded, %q).Output() = %d, want %d", key, got.Output(), orig.Output())
		}
	}

	reencoded := Encode(nil, decoded)
	if !bytes.Equal(enc, reencoded) {
		t.Errorf("re-encoding a decoded trie did not reproduce the original bytes")
	}
}
