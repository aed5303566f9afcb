// Package game holds the rules engine: the shared game state, the two
// per-player sides, move validation and the pure turn transitions.
//
// Every transition works on a clone, so callers can keep the state they
// passed in as the "before" picture for undo, replay or persistence.
package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

// State is the whole game. Sides holds one side for solo play and two
// for battles; OnTurn indexes the side currently mounted.
type State struct {
	Board   *board.GameBoard `json:"board"`
	Bag     *tilemapping.Bag `json:"bag"`
	Pending []move.Placement `json:"pending"`
	Sides   []*Side          `json:"sides"`
	OnTurn  int              `json:"on_turn"`
	// Turn counts completed turns. In battles each side's turn counts once,
	// so a battle ends at 2 × MaxTurns.
	Turn      int           `json:"turn"`
	Finished  bool          `json:"finished"`
	LastWords []string      `json:"last_words"`
	History   []TurnEntry   `json:"history"`
	Rules     *Rules        `json:"rules"`
	Winner    int           `json:"winner"`
	LastEvent *cards.Result `json:"last_event,omitempty"`
}

// NewState deals a fresh game. Pass a seeded rng for reproducible games,
// or nil to use the global generator.
func NewState(rules *Rules, sides []SideConfig, rng *frand.RNG) (*State, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(sides) < 1 || len(sides) > 2 {
		return nil, fmt.Errorf("a game needs one or two sides, got %d", len(sides))
	}
	bag := rules.distribution().MakeBag(rng)
	st := &State{
		Board:  board.NewBoard(rules.layout()),
		Bag:    bag,
		Rules:  rules,
		Winner: -1,
	}
	solo := len(sides) == 1
	for _, sc := range sides {
		s := &Side{
			Name:               sc.Name,
			Kind:               sc.Kind,
			Rack:               tilemapping.NewRack(nil),
			NextTurnMultiplier: 1,
			SpellChecksLeft:    rules.SpellCheckAllowance,
		}
		if rules.BattleType == BattleHP && !solo {
			s.HP = rules.MaxHP
		}
		s.Rack.Fill(bag, rules.RackSize)
		s.SpecialDeck = cards.PrepareDeck(sc.Deck, solo, rng)
		s.drawSpecials(rules.SpecialHandSize, rules.SpecialHandSize)
		st.Sides = append(st.Sides, s)
	}
	log.Debug().Int("sides", len(st.Sides)).Str("category", string(rules.Category)).
		Int("bag", bag.TilesRemaining()).Msg("new-game")
	return st, nil
}

// Clone returns a deep copy. Card instances are shared; they are never
// mutated once dealt.
func (st *State) Clone() *State {
	cp := *st
	cp.Board = st.Board.Copy()
	cp.Bag = st.Bag.Copy()
	cp.Pending = append([]move.Placement(nil), st.Pending...)
	cp.Sides = make([]*Side, len(st.Sides))
	for i, s := range st.Sides {
		cp.Sides[i] = s.copy()
	}
	cp.LastWords = append([]string(nil), st.LastWords...)
	cp.History = append([]TurnEntry(nil), st.History...)
	if st.LastEvent != nil {
		ev := *st.LastEvent
		cp.LastEvent = &ev
	}
	return &cp
}

// IsBattle returns true for two-sided games.
func (st *State) IsBattle() bool {
	return len(st.Sides) == 2
}

// Mounted returns the side on turn.
func (st *State) Mounted() *Side {
	return st.Sides[st.OnTurn]
}

// Opponent returns the side not on turn, or nil in solo play.
func (st *State) Opponent() *Side {
	if !st.IsBattle() {
		return nil
	}
	return st.Sides[1-st.OnTurn]
}

// Category is the match's dictionary category.
func (st *State) Category() lexicon.Category {
	return st.Rules.Category
}

// TurnLimit is the number of turns after which the game ends.
func (st *State) TurnLimit() int {
	if st.IsBattle() {
		return 2 * st.Rules.MaxTurns
	}
	return st.Rules.MaxTurns
}

// checkFinished ends the game when the turn limit is reached or, in an HP
// battle, when a side runs out of HP.
func (st *State) checkFinished() {
	if st.Finished {
		return
	}
	if st.IsBattle() && st.Rules.BattleType == BattleHP {
		for i, s := range st.Sides {
			if s.HP <= 0 {
				st.Finished = true
				st.Winner = 1 - i
				return
			}
		}
	}
	if st.Turn >= st.TurnLimit() {
		st.Finished = true
		st.Winner = st.leader()
	}
	if st.Finished {
		log.Debug().Int("turn", st.Turn).Int("winner", st.Winner).Msg("game-finished")
	}
}

// leader returns the index of the side ahead, or -1 on a tie. In HP
// battles the side with more HP is ahead.
func (st *State) leader() int {
	if !st.IsBattle() {
		return 0
	}
	a, b := st.Sides[0].Score, st.Sides[1].Score
	if st.Rules.BattleType == BattleHP {
		a, b = st.Sides[0].HP, st.Sides[1].HP
	}
	switch {
	case a > b:
		return 0
	case b > a:
		return 1
	}
	return -1
}

// TilesInPlay counts every bag tile still in the game: bag, racks, and
// board tiles that came from racks.
func (st *State) TilesInPlay() int {
	n := st.Bag.TilesRemaining()
	for _, s := range st.Sides {
		n += s.Rack.Len()
	}
	dim := st.Board.Dim()
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			sq := st.Board.GetSquare(r, c)
			if sq.HasConfirmed() && sq.Source() == move.SourceNormal {
				n++
			}
		}
	}
	return n
}
