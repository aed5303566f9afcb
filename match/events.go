package match

import (
	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/move"
)

// Event is an input to a match. Events are handled one at a time by Run.
type Event interface {
	matchEvent()
	side() int
}

// MoveEvent submits a whole turn: an optional card to set, then the
// placements in order. Placement sources say where each tile comes from.
type MoveEvent struct {
	Side       int
	CardID     string
	Placements []move.Placement
}

func (MoveEvent) matchEvent() {}
func (e MoveEvent) side() int { return e.Side }

// PassEvent gives up the turn.
type PassEvent struct {
	Side int
}

func (PassEvent) matchEvent() {}
func (e PassEvent) side() int { return e.Side }

// TimeoutEvent force-passes the side on turn when its clock runs out.
type TimeoutEvent struct {
	Side int
	Turn int
}

func (TimeoutEvent) matchEvent() {}
func (e TimeoutEvent) side() int { return e.Side }

// CPUResultEvent carries a finished search back into the match. A nil
// Candidate means the CPU found nothing and passes.
type CPUResultEvent struct {
	Side      int
	Turn      int
	Candidate *move.Candidate
	Err       error
}

func (CPUResultEvent) matchEvent() {}
func (e CPUResultEvent) side() int { return e.Side }

// spellCheckEvent is sent by SpellCheck. It changes the state without
// ending the turn.
type spellCheckEvent struct {
	Side  int
	Query string
}

func (spellCheckEvent) matchEvent() {}
func (e spellCheckEvent) side() int { return e.Side }

// Update is sent to watchers after every handled event.
type Update struct {
	MatchID ID
	Phase   Phase
	State   *game.State
	// Err is set when the event was rejected.
	Err error
}
