// SPDX-License-Identifier: MIT

package phrasematch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadBuildConfigValid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "build.yaml")
	doc := "vocab_path: vocab.txt\ncorpus_path: corpus.txt\noutput_stem: out/data\nedit_distance: 2\nbuild_inverted_index: true\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadBuildConfig(path)
	require.NoError(t, err)
	require.Equal(t, "vocab.txt", cfg.VocabPath)
	require.Equal(t, 2, cfg.EditDistance)
	require.True(t, cfg.BuildInvertedIndex)
}

func TestLoadBuildConfigRejectsUnknownField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "build.yaml")
	doc := "vocab_path: vocab.txt\ncorpus_path: corpus.txt\noutput_stem: out/data\nedit_distance: 2\nnonsense_field: true\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := LoadBuildConfig(path); err == nil {
		t.Fatalf("LoadBuildConfig with unknown field: want error, got nil")
	}
}

func TestLoadBuildConfigRejectsOutOfRangeDistance(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "build.yaml")
	doc := "vocab_path: vocab.txt\ncorpus_path: corpus.txt\noutput_stem: out/data\nedit_distance: 99\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := LoadBuildConfig(path); err == nil {
		t.Fatalf("LoadBuildConfig with edit_distance=99: want error, got nil")
	}
}
