package board

import (
	"github.com/domino14/lexicard/move"
)

// Breakdown is the result of scoring one turn.
type Breakdown struct {
	Total int              `json:"total"`
	Words []move.WordScore `json:"words"`
}

// ScoreMove scores the words formed by the given placements. The board
// must carry the placements as pending letters. Bonus squares count only
// under tiles placed this turn; tiles already on the board are worth their
// recorded source's base value.
func ScoreMove(g *GameBoard, placements []move.Placement) Breakdown {
	return ScoreWords(g, FormedWords(g, placements), placements)
}

// ScoreWords scores already-extracted words.
func ScoreWords(g *GameBoard, words []FormedWord, placements []move.Placement) Breakdown {
	newTiles := make(map[Pos]move.Placement, len(placements))
	for _, p := range placements {
		newTiles[Pos{p.Row, p.Col}] = p
	}
	bd := Breakdown{Words: make([]move.WordScore, 0, len(words))}
	for _, fw := range words {
		letterTotal := 0
		wordMult := 1
		for _, pos := range fw.Cells {
			sq := g.GetSquare(pos.Row, pos.Col)
			if p, ok := newTiles[pos]; ok {
				letterTotal += p.Source.BaseValue() * sq.bonus.LetterMultiplier()
				wordMult *= sq.bonus.WordMultiplier()
				continue
			}
			letterTotal += sq.source.BaseValue()
		}
		ws := move.WordScore{Word: fw.Word.UserVisible(), Score: letterTotal * wordMult}
		bd.Words = append(bd.Words, ws)
		bd.Total += ws.Score
	}
	return bd
}
