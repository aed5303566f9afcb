package cards

import (
	"errors"
	"fmt"

	"lukechampine.com/frand"

	"github.com/domino14/lexicard/lexicon"
)

// Deck building limits.
const (
	DeckMax = 20
	SRMax   = 2
	SSRMax  = 1
)

var (
	ErrDeckFull      = fmt.Errorf("a deck holds at most %d cards", DeckMax)
	ErrDuplicateCard = errors.New("a deck holds at most one copy of a card")
	ErrTooManySR     = fmt.Errorf("a deck holds at most %d SR cards", SRMax)
	ErrTooManySSR    = fmt.Errorf("a deck holds at most %d SSR cards", SSRMax)
)

// CanAddToDeck checks the deck building rules.
func CanAddToDeck(deck []*Card, card *Card) error {
	if len(deck) >= DeckMax {
		return ErrDeckFull
	}
	sr, ssr := 0, 0
	for _, c := range deck {
		if c.Def.ID == card.Def.ID {
			return ErrDuplicateCard
		}
		switch c.Def.Rarity {
		case RaritySR:
			sr++
		case RaritySSR:
			ssr++
		}
	}
	if card.Def.Rarity == RaritySR && sr >= SRMax {
		return ErrTooManySR
	}
	if card.Def.Rarity == RaritySSR && ssr >= SSRMax {
		return ErrTooManySSR
	}
	return nil
}

// PrepareDeck returns a shuffled copy of the deck. If solo is true,
// battle-only cards are left out.
func PrepareDeck(deck []*Card, solo bool, rng *frand.RNG) []*Card {
	out := make([]*Card, 0, len(deck))
	for _, c := range deck {
		if solo && c.Def.BattleOnly {
			continue
		}
		out = append(out, c)
	}
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng == nil {
		frand.Shuffle(len(out), swap)
	} else {
		rng.Shuffle(len(out), swap)
	}
	return out
}

// BuildDeck picks a legal deck from the catalogue for the given category,
// all at the given level. Cards are taken in catalogue order; ones that
// break a deck rule are skipped.
func BuildDeck(cat *Catalogue, category lexicon.Category, solo bool, level int) []*Card {
	deck := []*Card{}
	for _, def := range cat.Definitions() {
		if solo && def.BattleOnly {
			continue
		}
		if !def.Matches(category) {
			continue
		}
		c := NewCard(def, level)
		if CanAddToDeck(deck, c) != nil {
			continue
		}
		deck = append(deck, c)
	}
	return deck
}
