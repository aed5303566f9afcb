package game

import (
	"errors"
	"fmt"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

// Reasons a move is rejected.
var (
	ErrNoTiles         = errors.New("no tiles were placed")
	ErrNotInLine       = errors.New("tiles must be in a single row or column")
	ErrGap             = errors.New("there is a gap between the placed tiles")
	ErrNotConnected    = errors.New("tiles must touch a tile already on the board")
	ErrNoWords         = errors.New("no word was formed")
	ErrNotInDictionary = errors.New("word is not in the dictionary")
	ErrLetterLimit     = errors.New("wrong number of tiles for this turn")
)

// Reasons a command is rejected.
var (
	ErrGameOver       = errors.New("the game is over")
	ErrOccupied       = errors.New("that square is taken")
	ErrRackIndex      = errors.New("no such rack tile")
	ErrRackIndexUsed  = errors.New("that rack tile is already on the board")
	ErrFreeExhausted  = errors.New("no free uses left for that letter")
	ErrNoPending      = errors.New("no tile placed there this turn")
	ErrCardNotInHand  = errors.New("card is not in hand")
	ErrCardAfterPlace = errors.New("cards must be set before placing tiles")
	ErrCardGuarded    = errors.New("a card of that category fired last turn")
	ErrNoCardSet      = errors.New("no card is set")
	ErrNotCardLetter  = errors.New("letter is not available from the set card")
	ErrNoSpellChecks  = errors.New("no spell checks left this turn")
	ErrBadLetter      = errors.New("not a letter")
)

// IllegalMoveError is a rejected move or command. The game state is left
// untouched whenever one is returned.
type IllegalMoveError struct {
	Reason error
	Word   string
}

func (e *IllegalMoveError) Error() string {
	if e.Word != "" {
		return fmt.Sprintf("%v: %s", e.Reason, e.Word)
	}
	return e.Reason.Error()
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Reason
}

func illegal(reason error) *IllegalMoveError {
	return &IllegalMoveError{Reason: reason}
}

// ValidateMove checks a turn's placements. The board must already carry
// them as pending letters. On success it returns the formed words, upper
// case, in extraction order. It does not modify anything.
func ValidateMove(b *board.GameBoard, placements []move.Placement, lex lexicon.Lexicon) ([]string, error) {
	_, words, err := validate(b, placements, lex)
	return words, err
}

func validate(b *board.GameBoard, placements []move.Placement, lex lexicon.Lexicon) ([]board.FormedWord, []string, error) {
	if len(placements) == 0 {
		return nil, nil, illegal(ErrNoTiles)
	}
	sameRow, sameCol := true, true
	minRow, maxRow := placements[0].Row, placements[0].Row
	minCol, maxCol := placements[0].Col, placements[0].Col
	for _, p := range placements[1:] {
		sameRow = sameRow && p.Row == placements[0].Row
		sameCol = sameCol && p.Col == placements[0].Col
		minRow, maxRow = min(minRow, p.Row), max(maxRow, p.Row)
		minCol, maxCol = min(minCol, p.Col), max(maxCol, p.Col)
	}
	if !sameRow && !sameCol {
		return nil, nil, illegal(ErrNotInLine)
	}
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			if b.Effective(r, c) == tilemapping.EmptyMachineLetter {
				return nil, nil, illegal(ErrGap)
			}
		}
	}
	if b.HasConfirmed() && !connected(b, placements) {
		return nil, nil, illegal(ErrNotConnected)
	}
	fws := board.FormedWords(b, placements)
	if len(fws) == 0 {
		return nil, nil, illegal(ErrNoWords)
	}
	words := make([]string, len(fws))
	for i, fw := range fws {
		words[i] = lexicon.Normalize(fw.Word.UserVisible())
	}
	for i, fw := range fws {
		if !lex.HasWord(fw.Word) {
			return nil, words, &IllegalMoveError{Reason: ErrNotInDictionary, Word: words[i]}
		}
	}
	return fws, words, nil
}

func connected(b *board.GameBoard, placements []move.Placement) bool {
	for _, p := range placements {
		if b.HasConfirmedNeighbor(p.Row, p.Col) {
			return true
		}
	}
	return false
}
