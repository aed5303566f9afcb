package game

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
)

// Confirm validates, scores and commits the pending placements of the side
// on turn, resolving its set card on the way. The receiver is not changed.
func (st *State) Confirm(lex lexicon.Lexicon) (*State, error) {
	if st.Finished {
		return nil, illegal(ErrGameOver)
	}
	fws, words, err := validate(st.Board, st.Pending, lex)
	if err != nil {
		return nil, err
	}
	side := st.Mounted()
	if side.LetterLimit > 0 && len(st.Pending) != side.LetterLimit {
		return nil, &IllegalMoveError{Reason: ErrLetterLimit, Word: fmt.Sprintf("need %d", side.LetterLimit)}
	}
	ns := st.Clone()
	ns.commit(fws, words)
	return ns, nil
}

// PlayCandidate lays out a searched move as pending placements and
// confirms it.
func (st *State) PlayCandidate(c *move.Candidate, lex lexicon.Lexicon) (*State, error) {
	if len(st.Pending) > 0 {
		st = st.Undo()
	}
	ns := st.Clone()
	if err := ns.Board.ApplyPending(c.Placements); err != nil {
		return nil, illegal(ErrOccupied)
	}
	ns.Pending = append(ns.Pending, c.Placements...)
	return ns.Confirm(lex)
}

func (st *State) commit(fws []board.FormedWord, words []string) {
	side := st.Mounted()
	bd := board.ScoreWords(st.Board, fws, st.Pending)
	mult := side.NextTurnMultiplier
	entry := TurnEntry{
		Turn:       st.Turn + 1,
		Player:     side.Name,
		Words:      bd.Words,
		BaseScore:  bd.Total,
		Multiplier: mult,
		Tiles:      len(st.Pending),
	}

	st.Board.ConfirmPlacements(st.Pending)
	used := lo.FilterMap(st.Pending, func(p move.Placement, _ int) (int, bool) {
		return p.RackIndex, p.RackIndex >= 0
	})
	if err := side.Rack.RemoveIndices(used); err != nil {
		panic(fmt.Sprintf("committing placements the rack does not hold: %v", err))
	}
	side.Rack.Fill(st.Bag, st.Rules.RackSize)

	// A reflected card can poison or limit the acting side, so both are
	// settled before the card resolves.
	poisoned := side.Poison.Turns > 0
	side.LetterLimit = 0

	// The card fires after the refill so extra draws go past capacity.
	var res *cards.Result
	set := side.SetCard()
	if set != nil && set.Activates(st.Rules.Category, words) {
		r := st.activate(set, bd.Total, len(st.Pending))
		res = &r
		entry.SpecialCard = set.Def.Word
		entry.SpecialEffect = r.Detail
		entry.SpecialBonus = r.Bonus
		entry.HPHealed = r.HPHealed
		entry.DamageDealt += r.DamageDealt
	}
	total := bd.Total
	if res != nil {
		total += res.Bonus
	}
	if mult > 1 {
		total = int(math.Round(float64(total) * mult))
	}
	side.Score += total

	if opp := st.Opponent(); opp != nil && st.Rules.BattleType == BattleHP {
		entry.DamageDealt += sideView{st, opp}.Damage(total)
	}
	side.drawSpecials(1, st.Rules.SpecialHandSize)

	side.LastSpecialCategory = ""
	if set != nil {
		side.LastSpecialCategory = set.Def.GuardCategory()
	}
	side.SpecialSet = ""
	side.NextTurnMultiplier = 1
	if res != nil && res.NextTurnMultiplier > 0 {
		side.NextTurnMultiplier = res.NextTurnMultiplier
	}
	side.SpellChecksLeft = st.Rules.SpellCheckAllowance
	side.WordHistory = append(side.WordHistory, words...)

	entry.TotalScore = total
	entry.CumulativeScore = side.Score
	st.Pending = nil
	st.LastWords = words
	st.LastEvent = res
	log.Debug().Str("side", side.Name).Strs("words", words).Int("base", bd.Total).
		Int("total", total).Msg("committed-move")
	st.endTurn(entry, poisoned)
}

// activate resolves the set card's effect against the clone being
// committed and takes the card out of the hand.
func (st *State) activate(c *cards.Card, turnScore, tiles int) cards.Result {
	side := st.Mounted()
	ctx := cards.Context{
		Level:       c.Level,
		Rarity:      c.Def.Rarity,
		TurnScore:   turnScore,
		TilesPlaced: tiles,
		HPBattle:    st.IsBattle() && st.Rules.BattleType == BattleHP,
		Self:        sideView{st, side},
		Board:       st.Board,
	}
	if opp := st.Opponent(); opp != nil {
		ctx.Opponent = sideView{st, opp}
	}
	res := cards.Resolve(c.Def.Effect, ctx)
	side.removeFromHand(c.InstanceID)
	side.UsedSpecialIDs = append(side.UsedSpecialIDs, c.InstanceID)
	log.Debug().Str("card", c.String()).Str("detail", res.Detail).Int("bonus", res.Bonus).
		Bool("blocked", res.Blocked).Bool("reflected", res.Reflected).Msg("card-activated")
	return res
}

// Pass gives up the turn. Any placements are taken back.
func (st *State) Pass() (*State, error) {
	if st.Finished {
		return nil, illegal(ErrGameOver)
	}
	return st.pass(false), nil
}

// ForcePass ends the turn when the side on turn runs out of time or the
// CPU finds nothing to play. It is a no-op on a finished game.
func (st *State) ForcePass() *State {
	if st.Finished {
		return st.Clone()
	}
	return st.pass(true)
}

func (st *State) pass(timedOut bool) *State {
	ns := st.Undo()
	side := ns.Mounted()
	side.drawSpecials(1, ns.Rules.SpecialHandSize)
	side.SpecialSet = ""
	side.LastSpecialCategory = ""
	side.NextTurnMultiplier = 1
	side.SpellChecksLeft = ns.Rules.SpellCheckAllowance
	side.LetterLimit = 0
	ns.LastWords = nil
	ns.LastEvent = nil
	log.Debug().Str("side", side.Name).Bool("timed-out", timedOut).Msg("passed")
	poisoned := side.Poison.Turns > 0
	ns.endTurn(TurnEntry{
		Turn:            ns.Turn + 1,
		Player:          side.Name,
		Multiplier:      1,
		CumulativeScore: side.Score,
		Passed:          true,
		TimedOut:        timedOut,
	}, poisoned)
	return ns
}

// endTurn ticks the acting side's poison if it was poisoned when the turn
// began, records the turn and hands the board to the other side.
func (st *State) endTurn(entry TurnEntry, poisoned bool) {
	side := st.Mounted()
	if poisoned {
		entry.PoisonDamage = sideView{st, side}.tickPoison()
	}
	entry.CumulativeScore = side.Score
	st.History = append(st.History, entry)
	st.Turn++
	st.checkFinished()
	if st.IsBattle() && !st.Finished {
		st.OnTurn = 1 - st.OnTurn
	}
}

// Undo takes back every pending placement, refunding free-pool uses. The
// turn does not change.
func (st *State) Undo() *State {
	ns := st.Clone()
	side := ns.Mounted()
	for _, p := range ns.Pending {
		ns.Board.ClearPending(p.Row, p.Col)
		if p.Source == move.SourceFree {
			side.FreePool.Refund(p.Letter)
		}
	}
	ns.Pending = nil
	return ns
}
