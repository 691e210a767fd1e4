// SPDX-License-Identifier: MIT

//go:build !unix

package phrasematch

import (
	"fmt"
	"os"
)

// mmapRegion falls back to a plain in-memory read on platforms without
// the unix mmap syscalls (see mmap_unix.go for the primary
// implementation).
type mmapRegion struct {
	Data []byte
}

func openMmap(path string) (*mmapRegion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file %s", ErrDecode, path)
	}
	return &mmapRegion{Data: data}, nil
}

func (m *mmapRegion) Close() error {
	return nil
}
