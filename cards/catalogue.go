package cards

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalogue.yaml
var defaultCatalogue []byte

// Catalogue is the static table of card definitions.
type Catalogue struct {
	defs []*Definition
	byID map[string]*Definition
}

type catalogueDoc struct {
	Cards []definitionDoc `yaml:"cards"`
}

// ParseCatalogue parses a YAML catalogue.
func ParseCatalogue(bts []byte) (*Catalogue, error) {
	var doc catalogueDoc
	if err := yaml.Unmarshal(bts, &doc); err != nil {
		return nil, fmt.Errorf("cards: parsing catalogue: %w", err)
	}
	cat := &Catalogue{byID: make(map[string]*Definition, len(doc.Cards))}
	for _, d := range doc.Cards {
		def, err := d.definition()
		if err != nil {
			return nil, fmt.Errorf("cards: %w", err)
		}
		if _, ok := cat.byID[def.ID]; ok {
			return nil, fmt.Errorf("cards: duplicate card id %s", def.ID)
		}
		cat.byID[def.ID] = def
		cat.defs = append(cat.defs, def)
	}
	return cat, nil
}

// LoadCatalogue reads a catalogue file.
func LoadCatalogue(path string) (*Catalogue, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cards: reading catalogue: %w", err)
	}
	return ParseCatalogue(bts)
}

// DefaultCatalogue returns the built-in catalogue.
func DefaultCatalogue() *Catalogue {
	cat, err := ParseCatalogue(defaultCatalogue)
	if err != nil {
		panic(err)
	}
	return cat
}

// Lookup finds a definition by id.
func (c *Catalogue) Lookup(id string) (*Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Definitions returns all definitions in catalogue order.
func (c *Catalogue) Definitions() []*Definition {
	return c.defs
}

func (c *Catalogue) Len() int {
	return len(c.defs)
}
