// SPDX-License-Identifier: MIT

package phrasematch

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeWordIDRoundTrip(t *testing.T) {
	t.Parallel()

	for _, id := range []WordID{0, 1, 255, 256, 65535, MaxWordID - 1} {
		buf := make([]byte, 3)
		if err := encodeWordID(id, buf); err != nil {
			t.Fatalf("encodeWordID(%d) failed: %v", id, err)
		}
		got := decodeWordID(buf[0], buf[1], buf[2])
		if got != id {
			t.Errorf("decodeWordID(encodeWordID(%d)) = %d", id, got)
		}
	}
}

func TestEncodeWordIDOverflow(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3)
	err := encodeWordID(MaxWordID, buf)
	if !errors.Is(err, ErrBuildCapacity) {
		t.Fatalf("encodeWordID(MaxWordID) = %v, want ErrBuildCapacity", err)
	}
}

func TestPhraseKeyOrderPreserving(t *testing.T) {
	t.Parallel()

	k1, err := phraseKey([]WordID{1, 2})
	if err != nil {
		t.Fatalf("phraseKey failed: %v", err)
	}
	k2, err := phraseKey([]WordID{1, 3})
	if err != nil {
		t.Fatalf("phraseKey failed: %v", err)
	}
	k3, err := phraseKey([]WordID{2, 0})
	if err != nil {
		t.Fatalf("phraseKey failed: %v", err)
	}

	if bytes.Compare(k1, k2) >= 0 {
		t.Errorf("phraseKey([1,2]) should sort before phraseKey([1,3])")
	}
	if bytes.Compare(k2, k3) >= 0 {
		t.Errorf("phraseKey([1,3]) should sort before phraseKey([2,0])")
	}
	if len(k1) != 6 {
		t.Errorf("phraseKey([1,2]) length = %d, want 6", len(k1))
	}
}
