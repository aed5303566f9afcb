package game

import (
	"github.com/samber/lo"

	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

// The commands below are the inputs a side gives during its turn. Each
// returns a new state and leaves the receiver alone.

func (st *State) checkSquare(row, col int) error {
	if st.Finished {
		return illegal(ErrGameOver)
	}
	if !st.Board.PosExists(row, col) || !st.Board.GetSquare(row, col).IsEmpty() {
		return illegal(ErrOccupied)
	}
	return nil
}

func (st *State) placePending(p move.Placement) *State {
	ns := st.Clone()
	if err := ns.Board.SetPending(p.Row, p.Col, p.Letter); err != nil {
		panic(err)
	}
	ns.Pending = append(ns.Pending, p)
	return ns
}

// PlaceTile puts the rack tile at rackIndex on an empty square.
func (st *State) PlaceTile(row, col, rackIndex int) (*State, error) {
	if err := st.checkSquare(row, col); err != nil {
		return nil, err
	}
	rack := st.Mounted().Rack
	if rackIndex < 0 || rackIndex >= rack.Len() {
		return nil, illegal(ErrRackIndex)
	}
	if lo.ContainsBy(st.Pending, func(p move.Placement) bool { return p.RackIndex == rackIndex }) {
		return nil, illegal(ErrRackIndexUsed)
	}
	return st.placePending(move.Placement{
		Row: row, Col: col, Letter: rack.At(rackIndex), RackIndex: rackIndex, Source: move.SourceNormal,
	}), nil
}

// PlaceFree conjures a letter from the free pool. Each letter can only be
// used a limited number of times per game.
func (st *State) PlaceFree(row, col int, letter tilemapping.MachineLetter) (*State, error) {
	if err := st.checkSquare(row, col); err != nil {
		return nil, err
	}
	if !letter.IsValid() {
		return nil, illegal(ErrBadLetter)
	}
	if st.Mounted().FreePool.Remaining(letter, st.Rules.FreeUsesPerLetter) == 0 {
		return nil, &IllegalMoveError{Reason: ErrFreeExhausted, Word: letter.String()}
	}
	ns := st.placePending(move.Placement{
		Row: row, Col: col, Letter: letter, RackIndex: move.NoRackIndex, Source: move.SourceFree,
	})
	ns.Mounted().FreePool.Use(letter, ns.Rules.FreeUsesPerLetter)
	return ns, nil
}

// CardLetters returns the letters of the set card's word not yet placed
// this turn.
func (st *State) CardLetters() tilemapping.LetterCounts {
	var lc tilemapping.LetterCounts
	set := st.Mounted().SetCard()
	if set == nil {
		return lc
	}
	mw, err := tilemapping.ToMachineWord(set.Def.Word)
	if err != nil {
		return lc
	}
	lc = mw.Counts()
	for _, p := range st.Pending {
		if p.Source == move.SourceSpecial {
			lc.Take(p.Letter)
		}
	}
	return lc
}

// PlaceCardLetter places one of the set card's letters as a special tile.
// Every letter of the card's word can be used once per turn.
func (st *State) PlaceCardLetter(row, col int, letter tilemapping.MachineLetter) (*State, error) {
	if err := st.checkSquare(row, col); err != nil {
		return nil, err
	}
	if st.Mounted().SetCard() == nil {
		return nil, illegal(ErrNoCardSet)
	}
	avail := st.CardLetters()
	if !avail.Has(letter) {
		return nil, &IllegalMoveError{Reason: ErrNotCardLetter, Word: letter.String()}
	}
	return st.placePending(move.Placement{
		Row: row, Col: col, Letter: letter, RackIndex: move.NoRackIndex, Source: move.SourceSpecial,
	}), nil
}

// RemoveTile takes back a single pending placement.
func (st *State) RemoveTile(row, col int) (*State, error) {
	idx := -1
	for i, p := range st.Pending {
		if p.Row == row && p.Col == col {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, illegal(ErrNoPending)
	}
	ns := st.Clone()
	p := ns.Pending[idx]
	ns.Board.ClearPending(row, col)
	ns.Pending = append(ns.Pending[:idx:idx], ns.Pending[idx+1:]...)
	if p.Source == move.SourceFree {
		ns.Mounted().FreePool.Refund(p.Letter)
	}
	return ns, nil
}

// SetCard sets a card from the hand for this turn. It has to happen before
// any tile is placed, and a card sharing the category of the card that
// fired last turn cannot be set.
func (st *State) SetCard(instanceID string) (*State, error) {
	if st.Finished {
		return nil, illegal(ErrGameOver)
	}
	if len(st.Pending) > 0 {
		return nil, illegal(ErrCardAfterPlace)
	}
	side := st.Mounted()
	c := side.HandCard(instanceID)
	if c == nil {
		return nil, illegal(ErrCardNotInHand)
	}
	if c.Def.BlockedBy(side.LastSpecialCategory) {
		return nil, &IllegalMoveError{Reason: ErrCardGuarded, Word: string(side.LastSpecialCategory)}
	}
	ns := st.Clone()
	ns.Mounted().SpecialSet = instanceID
	return ns, nil
}

// UnsetCard clears the set card. Special tiles placed from it are taken
// back.
func (st *State) UnsetCard() (*State, error) {
	if st.Finished {
		return nil, illegal(ErrGameOver)
	}
	ns := st
	for _, p := range st.Pending {
		if p.Source == move.SourceSpecial {
			var err error
			if ns, err = ns.RemoveTile(p.Row, p.Col); err != nil {
				return nil, err
			}
		}
	}
	ns = ns.Clone()
	ns.Mounted().SpecialSet = ""
	return ns, nil
}

// UseSpellCheck spends one spell check and looks up dictionary entries
// whose meaning contains the query.
func (st *State) UseSpellCheck(query string, dict *lexicon.Dictionary) ([]lexicon.Entry, *State, error) {
	if st.Finished {
		return nil, nil, illegal(ErrGameOver)
	}
	if st.Mounted().SpellChecksLeft <= 0 {
		return nil, nil, illegal(ErrNoSpellChecks)
	}
	ns := st.Clone()
	ns.Mounted().SpellChecksLeft--
	return dict.Lookup(query), ns, nil
}
