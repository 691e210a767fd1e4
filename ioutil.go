// SPDX-License-Identifier: MIT

package phrasematch

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/natefinch/atomic"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/mod/semver"
)

// FormatVersion is the on-disk format version written into every
// fileHeader. It follows semver so a future incompatible format change
// can be detected by readHeader before any bytes are misinterpreted.
const FormatVersion = "v1.0.0"

var fileMagic = [4]byte{'P', 'M', 'C', 'H'} // "phrasematch"

// fileHeader is the common prefix of every persisted FuzzyMap,
// PhraseSet, and InvertedIndex file: a magic number, a semver format
// version, and a blake2b-256 checksum of the payload that follows.
type fileHeader struct {
	Magic    [4]byte
	Version  string
	Checksum [32]byte
}

func writeHeader(w io.Writer, payload []byte) error {
	sum := blake2b.Sum256(payload)
	h := fileHeader{Magic: fileMagic, Version: FormatVersion, Checksum: sum}

	if _, err := w.Write(h.Magic[:]); err != nil {
		return err
	}
	if err := writeLenPrefixedString(w, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.Checksum[:]); err != nil {
		return err
	}
	return nil
}

func readHeader(r io.Reader) (fileHeader, error) {
	var h fileHeader
	if _, err := io.ReadFull(r, h.Magic[:]); err != nil {
		return h, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if h.Magic != fileMagic {
		return h, fmt.Errorf("%w: bad magic", ErrDecode)
	}

	v, err := readLenPrefixedString(r)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	h.Version = v

	if semver.Compare(semverOf(h.Version), semverOf(FormatVersion)) > 0 {
		return h, fmt.Errorf("%w: file format %s is newer than supported %s", ErrDecode, h.Version, FormatVersion)
	}

	if _, err := io.ReadFull(r, h.Checksum[:]); err != nil {
		return h, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return h, nil
}

// semverOf ensures a bare version string carries the "v" prefix
// golang.org/x/mod/semver requires.
func semverOf(v string) string {
	if len(v) > 0 && v[0] != 'v' {
		return "v" + v
	}
	return v
}

func writeLenPrefixedString(w io.Writer, s string) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readLenPrefixedString(r io.Reader) (string, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeFileAtomic writes header+payload to path via a temp-file-plus-
// rename so a reader never observes a partially written file, and a
// crash mid-write never corrupts a previous version in place.
func writeFileAtomic(path string, payload []byte) error {
	var buf bytes.Buffer
	if err := writeHeader(&buf, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := buf.Write(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// readFileChecked reads path through a memory-mapped region (see
// mmap_unix.go), validates its header (magic, version, checksum), and
// returns a copy of the payload that follows it. The payload is
// copied out before the region is unmapped: nothing in this package
// retains a slice into mmap'd memory past Close, matching the
// explicit-ownership discipline mmap_unix.go documents.
func readFileChecked(path string) ([]byte, error) {
	region, err := openMmap(path)
	if err != nil {
		return nil, err
	}
	defer region.Close()

	r := bytes.NewReader(region.Data)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	sum := blake2b.Sum256(rest)
	if sum != h.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch, file truncated or corrupt", ErrDecode)
	}

	payload := make([]byte, len(rest))
	copy(payload, rest)
	return payload, nil
}
