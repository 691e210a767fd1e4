// SPDX-License-Identifier: MIT

package phrasematch

import (
	"sort"
	"testing"
)

func buildFuzzyMap(t *testing.T, words []string) (*FuzzyMap, WordIDLookup) {
	t.Helper()

	b := NewFuzzyMapBuilder(2)
	byID := make(map[WordID]string, len(words))
	for i, w := range words {
		id := WordID(i)
		if err := b.Add(w, id); err != nil {
			t.Fatalf("Add(%q) failed: %v", w, err)
		}
		byID[id] = w
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	lookup := func(id WordID) (string, bool) {
		w, ok := byID[id]
		return w, ok
	}
	return m, lookup
}

func TestFuzzyMapExactLookup(t *testing.T) {
	t.Parallel()

	m, lookup := buildFuzzyMap(t, []string{"street", "avenue", "boulevard"})

	got, err := m.Lookup("street", 1, lookup)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(got) != 1 || got[0].Word != "street" {
		t.Fatalf("Lookup(street) = %v, want [street]", got)
	}
}

func TestFuzzyMapFuzzyLookup(t *testing.T) {
	t.Parallel()

	m, lookup := buildFuzzyMap(t, []string{"street", "avenue"})

	got, err := m.Lookup("stret", 1, lookup) // one deletion away from "street"
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	found := false
	for _, r := range got {
		if r.Word == "street" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Lookup(stret, d=1) = %v, want to include street", got)
	}
}

func TestFuzzyMapRecallViaTransposition(t *testing.T) {
	t.Parallel()

	// "hte" is a transposition of "the", true Damerau-Levenshtein
	// distance 1. Neither word is a deletion variant of the other, but
	// one deletion on each side meets at a shared candidate key ("he"
	// or "te"), and the mandatory edit-distance verification confirms
	// the true distance is within budget.
	m, lookup := buildFuzzyMap(t, []string{"the"})

	got, err := m.Lookup("hte", 2, lookup)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	found := false
	for _, r := range got {
		if r.Word == "the" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Lookup(hte, d=2) = %v, want to include the", got)
	}
}

func TestFuzzyMapRejectsOverBudget(t *testing.T) {
	t.Parallel()

	m, lookup := buildFuzzyMap(t, []string{"street"})

	got, err := m.Lookup("zzzzzz", 1, lookup)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Lookup(zzzzzz, d=1) = %v, want empty", got)
	}
}

func TestFuzzyMapEmptyQuery(t *testing.T) {
	t.Parallel()

	m, lookup := buildFuzzyMap(t, []string{"street"})
	got, err := m.Lookup("", 2, lookup)
	if err != nil {
		t.Fatalf("Lookup(\"\") failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Lookup(\"\") = %v, want empty", got)
	}
}

func TestFuzzyMapResultsSortedByID(t *testing.T) {
	t.Parallel()

	m, lookup := buildFuzzyMap(t, []string{"cot", "cat", "cut"})

	got, err := m.Lookup("cat", 1, lookup)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].ID < got[j].ID }) {
		t.Errorf("Lookup results not sorted by id: %v", got)
	}
}

func TestFuzzyMapSuggestNeverDropsResults(t *testing.T) {
	t.Parallel()

	m, lookup := buildFuzzyMap(t, []string{"the", "cat"})

	lookupResults, err := m.Lookup("hte", 2, lookup)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	suggestResults, err := m.Suggest("hte", 2, lookup)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(suggestResults) != len(lookupResults) {
		t.Fatalf("Suggest dropped results: Lookup=%v Suggest=%v", lookupResults, suggestResults)
	}
}
