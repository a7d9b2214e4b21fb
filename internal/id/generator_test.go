package id

import "testing"

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id := Generate()
		if id == "" {
			t.Fatal("Expected a non-empty id")
		}
		if seen[id] {
			t.Fatalf("Duplicate id %q", id)
		}
		seen[id] = true
	}
}
