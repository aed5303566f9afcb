package cards

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/lexicard/lexicon"
)

type Rarity string

const (
	RarityN   Rarity = "N"
	RarityR   Rarity = "R"
	RaritySR  Rarity = "SR"
	RaritySSR Rarity = "SSR"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityN, RarityR, RaritySR, RaritySSR:
		return true
	}
	return false
}

// Definition is an immutable catalogue entry.
type Definition struct {
	ID          string
	Word        string
	Meaning     string
	Description string
	Icon        string
	Rarity      Rarity
	Categories  []lexicon.Category
	Effect      Effect
	// BattleOnly cards never go into solo decks.
	BattleOnly bool
}

type definitionDoc struct {
	ID          string             `yaml:"id" json:"id"`
	Word        string             `yaml:"word" json:"word"`
	Meaning     string             `yaml:"meaning" json:"meaning"`
	Description string             `yaml:"description" json:"description"`
	Icon        string             `yaml:"icon,omitempty" json:"icon,omitempty"`
	Rarity      Rarity             `yaml:"rarity" json:"rarity"`
	Categories  []lexicon.Category `yaml:"categories" json:"categories"`
	Effect      EffectSpec         `yaml:"effect" json:"effect"`
	BattleOnly  bool               `yaml:"battle_only,omitempty" json:"battle_only,omitempty"`
}

func (d *Definition) doc() definitionDoc {
	return definitionDoc{
		ID: d.ID, Word: d.Word, Meaning: d.Meaning, Description: d.Description,
		Icon: d.Icon, Rarity: d.Rarity, Categories: d.Categories,
		Effect: d.Effect.Spec(), BattleOnly: d.BattleOnly,
	}
}

func (doc definitionDoc) definition() (*Definition, error) {
	if doc.ID == "" {
		return nil, errors.New("card has no id")
	}
	if !doc.Rarity.Valid() {
		return nil, fmt.Errorf("card %s: bad rarity %q", doc.ID, doc.Rarity)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("card %s: no categories", doc.ID)
	}
	for _, c := range doc.Categories {
		if _, err := lexicon.ParseCategory(string(c)); err != nil {
			return nil, fmt.Errorf("card %s: %w", doc.ID, err)
		}
	}
	eff, err := NewEffect(doc.Effect)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", doc.ID, err)
	}
	return &Definition{
		ID: doc.ID, Word: lexicon.Normalize(doc.Word), Meaning: doc.Meaning,
		Description: doc.Description, Icon: doc.Icon, Rarity: doc.Rarity,
		Categories: doc.Categories, Effect: eff, BattleOnly: doc.BattleOnly,
	}, nil
}

func (d *Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.doc())
}

func (d *Definition) UnmarshalJSON(data []byte) error {
	var doc definitionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	nd, err := doc.definition()
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}

// Matches returns true if the card can fire in a match of the given
// category.
func (d *Definition) Matches(category lexicon.Category) bool {
	if category == lexicon.CategoryAll {
		return true
	}
	return lo.Contains(d.Categories, category) || lo.Contains(d.Categories, lexicon.CategoryAll)
}

// GuardCategory is the category that becomes blocked for the next turn
// once this card fires: its first category other than "all", or "" if it
// only has "all".
func (d *Definition) GuardCategory() lexicon.Category {
	c, _ := lo.Find(d.Categories, func(c lexicon.Category) bool {
		return c != lexicon.CategoryAll
	})
	return c
}

// BlockedBy returns true if the guard category forbids setting this card.
func (d *Definition) BlockedBy(guard lexicon.Category) bool {
	return guard != "" && lo.Contains(d.Categories, guard)
}

// Card is an owned instance of a definition.
type Card struct {
	InstanceID string      `json:"instance_id"`
	Level      int         `json:"level"`
	Def        *Definition `json:"def"`
}

// NewCard makes a new instance with a random id.
func NewCard(def *Definition, level int) *Card {
	b := frand.Bytes(6)
	return &Card{
		InstanceID: def.ID + "-" + hex.EncodeToString(b),
		Level:      ClampLevel(level),
		Def:        def,
	}
}

func (c *Card) String() string {
	return fmt.Sprintf("%s[%s Lv%d %s]", c.Def.Word, c.Def.Rarity, c.Level, c.Def.Effect.Kind())
}

// Activates returns true if the card fires for the given formed words in
// a match of the given category.
func (c *Card) Activates(category lexicon.Category, words []string) bool {
	if !c.Def.Matches(category) {
		return false
	}
	return lo.ContainsBy(words, func(w string) bool {
		return strings.EqualFold(w, c.Def.Word)
	})
}

// Magnitude returns the card's scaled effect value at its level.
func (c *Card) Magnitude() float64 {
	return c.Def.Effect.Scale(c.Level)
}
