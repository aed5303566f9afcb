package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

func seededRNG() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func testDict() *lexicon.Dictionary {
	var entries []lexicon.Entry
	for _, w := range []string{"cat", "cats", "at", "act", "rat", "tar", "art", "dog", "cop", "go"} {
		entries = append(entries, lexicon.Entry{Word: w, Meaning: "a word: " + w})
	}
	return lexicon.NewDictionary("test", lexicon.CategoryAnimals, entries)
}

func testCard(word string, effect cards.Effect, cats ...lexicon.Category) *cards.Card {
	if len(cats) == 0 {
		cats = []lexicon.Category{lexicon.CategoryAll}
	}
	def := &cards.Definition{
		ID:         strings.ToLower(word),
		Word:       word,
		Rarity:     cards.RarityN,
		Categories: cats,
		Effect:     effect,
	}
	return cards.NewCard(def, 1)
}

func ml(r rune) tilemapping.MachineLetter {
	m, err := tilemapping.FromRune(r)
	if err != nil {
		panic(err)
	}
	return m
}

func newSolo(t *testing.T, rack string, deck ...*cards.Card) *State {
	t.Helper()
	st, err := NewState(DefaultRules(lexicon.CategoryAnimals),
		[]SideConfig{{Name: "solo", Kind: SideHuman, Deck: deck}}, seededRNG())
	if err != nil {
		t.Fatal(err)
	}
	if rack != "" {
		st.Sides[0].Rack = mustRack(rack)
	}
	return st
}

func newBattle(t *testing.T, bt BattleType, decks ...[]*cards.Card) *State {
	t.Helper()
	rules := DefaultRules(lexicon.CategoryAll)
	rules.BattleType = bt
	sides := []SideConfig{{Name: "alice", Kind: SideHuman}, {Name: "bob", Kind: SideCPU}}
	for i := range decks {
		sides[i].Deck = decks[i]
	}
	st, err := NewState(rules, sides, seededRNG())
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func mustRack(s string) *tilemapping.Rack {
	r, err := tilemapping.RackFromString(s)
	if err != nil {
		panic(err)
	}
	return r
}

// place lays a word down from the mounted rack, one tile per letter.
// Squares that already hold the right letter are skipped.
func place(t *testing.T, st *State, row, col int, vertical bool, word string) *State {
	t.Helper()
	for i, r := range word {
		rr, cc := row, col+i
		if vertical {
			rr, cc = row+i, col
		}
		if st.Board.GetLetter(rr, cc) == ml(r) {
			continue
		}
		idx := freeRackIndex(st, ml(r))
		if idx < 0 {
			t.Fatalf("rack %s has no spare %c", st.Mounted().Rack, r)
		}
		var err error
		st, err = st.PlaceTile(rr, cc, idx)
		if err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func freeRackIndex(st *State, letter tilemapping.MachineLetter) int {
	used := map[int]bool{}
	for _, p := range st.Pending {
		used[p.RackIndex] = true
	}
	rack := st.Mounted().Rack
	for i := 0; i < rack.Len(); i++ {
		if rack.At(i) == letter && !used[i] {
			return i
		}
	}
	return -1
}

func TestNewState(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "")
	is.Equal(len(st.Sides), 1)
	is.Equal(st.Mounted().Rack.Len(), DefaultRackSize)
	is.Equal(st.Bag.TilesRemaining(), 98-DefaultRackSize)
	is.Equal(st.TilesInPlay(), 98)
	is.Equal(st.Mounted().SpellChecksLeft, DefaultSpellCheckAllowance)
	is.Equal(st.Mounted().NextTurnMultiplier, 1.0)
	is.True(st.Opponent() == nil)

	b := newBattle(t, BattleHP)
	is.Equal(b.Bag.TilesRemaining(), 98-2*DefaultRackSize)
	is.Equal(b.Sides[0].HP, DefaultMaxHP)
	is.Equal(b.Opponent(), b.Sides[1])
	is.Equal(b.TurnLimit(), 2*DefaultMaxTurns)
}

func TestInitialHandIsFirstCardsOfDeck(t *testing.T) {
	is := is.New(t)
	var deck []*cards.Card
	for _, w := range []string{"CAT", "AT", "ACT", "RAT", "TAR", "ART"} {
		deck = append(deck, testCard(w, cards.BonusFlat{Points: 5}))
	}
	st := newSolo(t, "", deck...)
	side := st.Mounted()
	is.Equal(len(side.SpecialHand), DefaultSpecialHandSize)
	is.Equal(len(side.SpecialDeck), 2)
}

func TestTileConservation(t *testing.T) {
	is := is.New(t)
	st := newBattle(t, BattleScore)
	lex := lexicon.AcceptAll{}
	var err error
	// Each side plays three tiles down a column, the second one hooking
	// onto the first.
	for turn, col := range []int{7, 8, 9, 10} {
		for i := 0; i < 3; i++ {
			st, err = st.PlaceTile(4+i+turn%2, col, i)
			is.NoErr(err)
		}
		st, err = st.Confirm(lex)
		is.NoErr(err)
		is.Equal(st.TilesInPlay(), 98)
	}
	st, err = st.Pass()
	is.NoErr(err)
	is.Equal(st.TilesInPlay(), 98)
}

func TestCATScore(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "CATXYZQ")
	bagBefore := st.Bag.TilesRemaining()
	st = place(t, st, 7, 2, false, "CAT")
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	side := ns.Mounted()
	is.Equal(side.Score, 12)
	is.Equal(ns.LastWords, []string{"CAT"})
	is.Equal(side.Rack.Len(), 7)
	is.Equal(ns.Bag.TilesRemaining(), bagBefore-3)
	is.Equal(ns.Turn, 1)
	is.Equal(len(ns.History), 1)
	is.Equal(ns.History[0].TotalScore, 12)
	is.Equal(side.WordHistory, []string{"CAT"})
	is.Equal(ns.Board.GetSquare(7, 3).Source(), move.SourceNormal)
	is.Equal(len(ns.Pending), 0)
}

func TestTransitionsDoNotMutate(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "CATXYZQ")
	before := st.Board.Copy()
	placed := place(t, st, 7, 2, false, "CAT")
	is.Equal(len(st.Pending), 0)
	is.True(st.Board.Equals(before))

	committed, err := placed.Confirm(testDict())
	is.NoErr(err)
	is.Equal(len(placed.Pending), 3)
	is.Equal(placed.Mounted().Score, 0)
	is.Equal(placed.Mounted().Rack.String(), "CATXYZQ")
	is.Equal(committed.Mounted().Score, 12)
}

func TestValidateRejections(t *testing.T) {
	dict := testDict()
	for _, tc := range []struct {
		name  string
		setup func(st *State) (*State, error)
		want  error
	}{
		{"no tiles", func(st *State) (*State, error) { return st, nil }, ErrNoTiles},
		{"not in line", func(st *State) (*State, error) {
			st, _ = st.PlaceTile(7, 7, 0)
			return st.PlaceTile(8, 8, 1)
		}, ErrNotInLine},
		{"gap", func(st *State) (*State, error) {
			st, _ = st.PlaceTile(2, 5, 0)
			return st.PlaceTile(4, 5, 1)
		}, ErrGap},
		{"single tile", func(st *State) (*State, error) {
			return st.PlaceTile(7, 7, 0)
		}, ErrNoWords},
		{"not a word", func(st *State) (*State, error) {
			st, _ = st.PlaceTile(7, 7, 3)
			return st.PlaceTile(7, 8, 4)
		}, ErrNotInDictionary},
	} {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			st, err := tc.setup(newSolo(t, "CATXYZQ"))
			is.NoErr(err)
			_, err = st.Confirm(dict)
			is.True(errors.Is(err, tc.want))
			var ime *IllegalMoveError
			is.True(errors.As(err, &ime))
		})
	}
}

func TestNotInDictionaryNamesWord(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "CATXYZQ")
	st, _ = st.PlaceTile(7, 7, 3)
	st, _ = st.PlaceTile(7, 8, 4)
	_, err := st.Confirm(testDict())
	var ime *IllegalMoveError
	is.True(errors.As(err, &ime))
	is.Equal(ime.Word, "XY")
}

func TestMustConnectAfterFirstMove(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "CATCATS")
	st = place(t, st, 7, 2, false, "CAT")
	st, err := st.Confirm(testDict())
	is.NoErr(err)
	st.Mounted().Rack = mustRack("CATSXYZ")

	far := place(t, st, 0, 0, false, "AT")
	_, err = far.Confirm(testDict())
	is.True(errors.Is(err, ErrNotConnected))

	// Extending CAT into CATS touches the board.
	hook := place(t, st, 7, 5, false, "S")
	hooked, err := hook.Confirm(testDict())
	is.NoErr(err)
	is.Equal(hooked.LastWords, []string{"CATS"})
}

func TestGapFilledByConfirmedTile(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "ATCSXYZ")
	st.Board.SetLetter(7, 3, ml('A'), move.SourceNormal)
	st, _ = st.PlaceTile(7, 2, freeRackIndex(st, ml('C')))
	st, _ = st.PlaceTile(7, 4, freeRackIndex(st, ml('T')))
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(ns.LastWords, []string{"CAT"})
	// The A was already there, so the letter bonus under it is not counted.
	is.Equal(ns.Mounted().Score, 9)
}

func TestPassThenFirstMove(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "CATXYZQ")
	passed, err := st.Pass()
	is.NoErr(err)
	is.Equal(passed.Turn, 1)
	is.True(passed.History[0].Passed)

	// With nothing on the board, the first play can go anywhere.
	a := place(t, st, 0, 0, false, "CAT")
	b := place(t, passed, 0, 0, false, "CAT")
	na, err := a.Confirm(testDict())
	is.NoErr(err)
	nb, err := b.Confirm(testDict())
	is.NoErr(err)
	is.Equal(na.Mounted().Score, nb.Mounted().Score)
	is.True(na.Board.Equals(nb.Board))
}

func TestFreeTilesAndUndo(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "XYZQXYZ")
	var err error
	st, err = st.PlaceFree(7, 7, ml('A'))
	is.NoErr(err)
	st, err = st.PlaceFree(7, 8, ml('A'))
	is.NoErr(err)
	_, err = st.PlaceFree(7, 9, ml('A'))
	is.True(errors.Is(err, ErrFreeExhausted))
	is.Equal(st.Mounted().FreePool.Used(ml('A')), 2)

	undone := st.Undo()
	is.Equal(undone.Mounted().FreePool.Used(ml('A')), 0)
	is.Equal(len(undone.Pending), 0)
	is.True(undone.Board.GetSquare(7, 7).IsEmpty())
	is.Equal(undone.Turn, st.Turn)

	removed, err := st.RemoveTile(7, 8)
	is.NoErr(err)
	is.Equal(removed.Mounted().FreePool.Used(ml('A')), 1)
	_, err = st.RemoveTile(0, 0)
	is.True(errors.Is(err, ErrNoPending))
}

func TestFreeTileScoresOne(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "CTXYZQX")
	st = place(t, st, 7, 0, false, "C")
	st, _ = st.PlaceFree(7, 1, ml('A'))
	st = place(t, st, 7, 2, false, "T")
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	// C on the triple word square: (3 + 1 + 3) x 3.
	is.Equal(ns.Mounted().Score, 21)
	is.Equal(ns.Mounted().FreePool.Used(ml('A')), 1)
	is.Equal(ns.TilesInPlay(), st.TilesInPlay())
}

func TestPlaceTileErrors(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "CATXYZQ")
	st, err := st.PlaceTile(7, 7, 0)
	is.NoErr(err)
	_, err = st.PlaceTile(7, 7, 1)
	is.True(errors.Is(err, ErrOccupied))
	_, err = st.PlaceTile(7, 8, 0)
	is.True(errors.Is(err, ErrRackIndexUsed))
	_, err = st.PlaceTile(7, 8, 9)
	is.True(errors.Is(err, ErrRackIndex))
	_, err = st.PlaceTile(20, 8, 1)
	is.True(errors.Is(err, ErrOccupied))
}

func TestSoloFinishes(t *testing.T) {
	is := is.New(t)
	rules := DefaultRules(lexicon.CategoryAnimals)
	rules.MaxTurns = 2
	st, err := NewState(rules, []SideConfig{{Name: "solo"}}, seededRNG())
	is.NoErr(err)
	st, err = st.Pass()
	is.NoErr(err)
	is.True(!st.Finished)
	st = st.ForcePass()
	is.True(st.Finished)
	is.True(st.History[1].TimedOut)
	_, err = st.Pass()
	is.True(errors.Is(err, ErrGameOver))
}

func TestBattleAlternatesAndFinishes(t *testing.T) {
	is := is.New(t)
	st := newBattle(t, BattleScore)
	st.Rules.MaxTurns = 1
	is.Equal(st.OnTurn, 0)
	st, _ = st.Pass()
	is.Equal(st.OnTurn, 1)
	is.True(!st.Finished)
	st, _ = st.Pass()
	is.True(st.Finished)
	is.Equal(st.Winner, -1)
}

func TestSpellCheck(t *testing.T) {
	is := is.New(t)
	st := newSolo(t, "")
	dict := testDict()
	var err error
	var res []lexicon.Entry
	for i := 0; i < DefaultSpellCheckAllowance; i++ {
		res, st, err = st.UseSpellCheck("word", dict)
		is.NoErr(err)
		is.Equal(len(res), lexicon.MaxLookupResults)
	}
	_, _, err = st.UseSpellCheck("word", dict)
	is.True(errors.Is(err, ErrNoSpellChecks))
	st, _ = st.Pass()
	is.Equal(st.Mounted().SpellChecksLeft, DefaultSpellCheckAllowance)
}
