package search

import (
	"strings"
	"testing"
)

func TestDefaultAliases(t *testing.T) {
	aliases := DefaultAliases()

	if len(aliases) == 0 {
		t.Fatal("Expected built-in alias table to be non-empty")
	}

	seen := make(map[string]bool)
	for _, ga := range aliases {
		if ga.Genre == "" {
			t.Error("Alias entry has an empty genre key")
		}
		if len(ga.Aliases) == 0 {
			t.Errorf("Genre %q has no aliases", ga.Genre)
		}
		if seen[ga.Genre] {
			t.Errorf("Duplicate genre key %q", ga.Genre)
		}
		seen[ga.Genre] = true

		if ga.Genre != strings.ToLower(ga.Genre) {
			t.Errorf("Genre key %q is not lowercase", ga.Genre)
		}
		for _, alias := range ga.Aliases {
			if alias != strings.ToLower(alias) {
				t.Errorf("Alias %q of genre %q is not lowercase", alias, ga.Genre)
			}
			if strings.TrimSpace(alias) != alias {
				t.Errorf("Alias %q of genre %q has surrounding whitespace", alias, ga.Genre)
			}
		}
	}
}

func TestParseAliases(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		data := []byte(`
- genre: " Hip Hop "
  aliases: ["Hip-Hop", " RAP "]
- genre: rock
  aliases: ["Rock"]
`)

		aliases, err := ParseAliases(data)
		if err != nil {
			t.Fatalf("ParseAliases failed: %v", err)
		}

		if len(aliases) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(aliases))
		}
		if aliases[0].Genre != "hip hop" {
			t.Errorf("Genre = %q, want %q", aliases[0].Genre, "hip hop")
		}
		if aliases[0].Aliases[0] != "hip-hop" || aliases[0].Aliases[1] != "rap" {
			t.Errorf("Aliases = %v, want [hip-hop rap]", aliases[0].Aliases)
		}
	})

	t.Run("preserves declaration order", func(t *testing.T) {
		data := []byte(`
- genre: first
  aliases: ["a"]
- genre: second
  aliases: ["b"]
- genre: third
  aliases: ["c"]
`)

		aliases, err := ParseAliases(data)
		if err != nil {
			t.Fatalf("ParseAliases failed: %v", err)
		}

		want := []string{"first", "second", "third"}
		for i, key := range want {
			if aliases[i].Genre != key {
				t.Errorf("Entry %d = %q, want %q", i, aliases[i].Genre, key)
			}
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		if _, err := ParseAliases([]byte("{not a list")); err == nil {
			t.Error("Expected error for malformed YAML")
		}
	})
}
