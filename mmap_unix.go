// SPDX-License-Identifier: MIT

//go:build unix

package phrasematch

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapRegion is an immutable byte buffer backed by a memory-mapped
// file. readFileChecked (ioutil.go) copies the payload out of Data
// before calling Close, and the decoders build trie.Node trees and
// posting lists from that copy, so no decoded value holds a slice or
// offset into the mapping; the region is released by an explicit
// Close instead of a finalizer.
type mmapRegion struct {
	f    *os.File
	Data []byte
}

// openMmap memory-maps path read-only for the lifetime of the returned
// region.
func openMmap(path string) (*mmapRegion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	size := fi.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: empty file %s", ErrDecode, path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap: %v", ErrIO, err)
	}

	return &mmapRegion{f: f, Data: data}, nil
}

// Close unmaps the region and closes the underlying file. Any value
// still referencing offsets into Data becomes invalid; it is the
// caller's responsibility not to use such values past Close, mirroring
// bart's explicit-ownership Table discipline rather than relying on
// a GC finalizer to unmap lazily.
func (m *mmapRegion) Close() error {
	if err := unix.Munmap(m.Data); err != nil {
		m.f.Close()
		return fmt.Errorf("%w: munmap: %v", ErrIO, err)
	}
	return m.f.Close()
}
