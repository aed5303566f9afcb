package lexicon

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/domino14/lexicard/tilemapping"
)

// MaxLookupResults caps the number of entries a meaning lookup returns.
const MaxLookupResults = 5

//go:embed data/*.json
var embeddedDictionaries embed.FS

// Entry is a dictionary word and its meaning.
type Entry struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// Dictionary is the set of valid words for one category, plus the entries
// used by the spell-check helper.
type Dictionary struct {
	name     string
	category Category
	set      map[string]struct{}
	words    []tilemapping.MachineWord
	entries  []Entry
}

// Normalize upper-cases a word and trims surrounding space.
func Normalize(word string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(word))
}

// NewDictionary builds a dictionary from entries. Words that are not made
// only of the letters A-Z are skipped.
func NewDictionary(name string, category Category, entries []Entry) *Dictionary {
	d := &Dictionary{
		name:     name,
		category: category,
		set:      make(map[string]struct{}, len(entries)),
	}
	caser := cases.Upper(language.Und)
	for _, e := range entries {
		w := caser.String(strings.TrimSpace(e.Word))
		mw, err := tilemapping.ToMachineWord(w)
		if err != nil || len(mw) == 0 {
			log.Debug().Str("word", e.Word).Str("dict", name).Msg("skipping-unplayable-word")
			continue
		}
		d.entries = append(d.entries, Entry{Word: w, Meaning: e.Meaning})
		if _, ok := d.set[w]; ok {
			continue
		}
		d.set[w] = struct{}{}
		d.words = append(d.words, mw)
	}
	slices.SortFunc(d.words, func(a, b tilemapping.MachineWord) int {
		return strings.Compare(a.UserVisible(), b.UserVisible())
	})
	return d
}

func (d *Dictionary) Name() string {
	return d.name
}

func (d *Dictionary) Category() Category {
	return d.category
}

func (d *Dictionary) HasWord(word Word) bool {
	_, ok := d.set[word.UserVisible()]
	return ok
}

// Contains checks a user-visible word, case-insensitively.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.set[Normalize(word)]
	return ok
}

// Words returns every word in alphabetical order. The slice must not be
// modified.
func (d *Dictionary) Words() []tilemapping.MachineWord {
	return d.words
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// Entries returns the dictionary entries in file order.
func (d *Dictionary) Entries() []Entry {
	return d.entries
}

// Lookup returns up to MaxLookupResults entries whose meaning contains the
// query. An empty query matches nothing.
func (d *Dictionary) Lookup(query string) []Entry {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	results := []Entry{}
	for _, e := range d.entries {
		if strings.Contains(e.Meaning, q) {
			results = append(results, e)
			if len(results) == MaxLookupResults {
				break
			}
		}
	}
	return results
}

// Load reads a dictionary file. A .json file holds a list of
// {"word", "meaning"} objects; anything else is read as plain text, one
// word per line, with an optional tab-separated meaning.
func Load(path string, category Category) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: opening %s: %w", path, err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f, name, category)
	}
	return LoadText(f, name, category)
}

// LoadJSON reads a JSON entry list.
func LoadJSON(r io.Reader, name string, category Category) (*Dictionary, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("lexicon: decoding %s: %w", name, err)
	}
	return NewDictionary(name, category, entries), nil
}

// LoadText reads a plain word list.
func LoadText(r io.Reader, name string, category Category) (*Dictionary, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, meaning, _ := strings.Cut(line, "\t")
		entries = append(entries, Entry{Word: word, Meaning: strings.TrimSpace(meaning)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lexicon: reading %s: %w", name, err)
	}
	return NewDictionary(name, category, entries), nil
}

// Embedded returns the built-in dictionary for a category. The "all"
// dictionary is the union of the others.
func Embedded(category Category) (*Dictionary, error) {
	if category == CategoryAll {
		var entries []Entry
		for _, c := range Categories {
			if c == CategoryAll {
				continue
			}
			d, err := Embedded(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, d.entries...)
		}
		return NewDictionary(string(CategoryAll), CategoryAll, entries), nil
	}
	bts, err := embeddedDictionaries.ReadFile("data/" + string(category) + ".json")
	if err != nil {
		return nil, fmt.Errorf("lexicon: no embedded dictionary for %s: %w", category, err)
	}
	return LoadJSON(bytes.NewReader(bts), string(category), category)
}
