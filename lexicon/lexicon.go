package lexicon

import (
	"fmt"
	"strings"

	"github.com/domino14/lexicard/tilemapping"
)

type Word = tilemapping.MachineWord

type Lexicon interface {
	Name() string
	HasWord(word Word) bool
}

type AcceptAll struct{}

func (lex AcceptAll) Name() string {
	return "AcceptAll"
}

func (lex AcceptAll) HasWord(word Word) bool {
	return true
}

// Category is a word stage. Cards and dictionaries are tagged with one or
// more categories; CategoryAll matches any of them.
type Category string

const (
	CategoryAnimals Category = "animals"
	CategoryFood    Category = "food"
	CategoryJobs    Category = "jobs"
	CategoryHobby   Category = "hobby"
	CategoryAll     Category = "all"
)

// Categories lists the playable categories, CategoryAll last.
var Categories = []Category{CategoryAnimals, CategoryFood, CategoryJobs, CategoryHobby, CategoryAll}

// ParseCategory parses a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
