package search

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed genre_aliases.yaml
var genreAliasesYAML []byte

// GenreAlias maps a canonical genre key to the variant spellings that may
// appear in catalog genre labels.
type GenreAlias struct {
	Genre   string   `yaml:"genre" json:"genre"`
	Aliases []string `yaml:"aliases" json:"aliases"`
}

var defaultAliases = mustParseAliases(genreAliasesYAML)

// DefaultAliases returns the built-in genre alias table. The table is
// ordered: the first key contained in a query wins.
func DefaultAliases() []GenreAlias {
	return defaultAliases
}

// ParseAliases parses a YAML alias table. Keys and variants are trimmed
// and lowercased so matching stays case-insensitive.
func ParseAliases(data []byte) ([]GenreAlias, error) {
	var aliases []GenreAlias
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse genre aliases: %w", err)
	}

	for i := range aliases {
		aliases[i].Genre = strings.ToLower(strings.TrimSpace(aliases[i].Genre))
		for j := range aliases[i].Aliases {
			aliases[i].Aliases[j] = strings.ToLower(strings.TrimSpace(aliases[i].Aliases[j]))
		}
	}

	return aliases, nil
}

func mustParseAliases(data []byte) []GenreAlias {
	aliases, err := ParseAliases(data)
	if err != nil {
		panic(err)
	}
	return aliases
}
