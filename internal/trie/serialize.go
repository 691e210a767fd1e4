// SPDX-License-Identifier: MIT

package trie

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/phrasematch/phrasematch/internal/bitset"
)

// ErrTruncated is returned by Decode when buf ends before a complete
// tree has been read.
var ErrTruncated = errors.New("trie: truncated encoding")

// Encode appends a pre-order encoding of root to dst and returns the
// result: each node writes its 256-bit presence set, a final flag,
// the final output (if any), then recurses into its children in
// ascending transition-byte order. Decode reverses this exactly.
func Encode(dst []byte, root *Node) []byte {
	return encodeNode(dst, root)
}

func encodeNode(dst []byte, n *Node) []byte {
	var presence [32]byte
	words := [4]uint64(n.present)
	for i, w := range words {
		binary.BigEndian.PutUint64(presence[i*8:i*8+8], w)
	}
	dst = append(dst, presence[:]...)

	var flags byte
	if n.final {
		flags = 1
	}
	dst = append(dst, flags)

	if n.final {
		var out [8]byte
		binary.BigEndian.PutUint64(out[:], n.output)
		dst = append(dst, out[:]...)
	}

	for _, child := range n.children {
		dst = encodeNode(dst, child)
	}
	return dst
}

// Decode reconstructs a Node tree from buf, as produced by Encode.
func Decode(buf []byte) (*Node, error) {
	n, rest, err := decodeNode(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trie: %d trailing bytes after decode", len(rest))
	}
	return n, nil
}

func decodeNode(buf []byte) (*Node, []byte, error) {
	if len(buf) < 33 {
		return nil, nil, ErrTruncated
	}

	var present bitset.Set256
	var words [4]uint64
	for i := range words {
		words[i] = binary.BigEndian.Uint64(buf[i*8 : i*8+8])
	}
	present = bitset.Set256(words)
	buf = buf[32:]

	flags := buf[0]
	buf = buf[1:]
	n := &Node{present: present}

	if flags&1 != 0 {
		if len(buf) < 8 {
			return nil, nil, ErrTruncated
		}
		n.final = true
		n.output = binary.BigEndian.Uint64(buf[:8])
		buf = buf[8:]
	}

	count := present.Size()
	n.children = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		child, rest, err := decodeNode(buf)
		if err != nil {
			return nil, nil, err
		}
		n.children = append(n.children, child)
		buf = rest
	}
	return n, buf, nil
}
