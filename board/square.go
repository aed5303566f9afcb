package board

import (
	"fmt"
	"os"
	"strings"

	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

var (
	ColorSupport = os.Getenv("LEXICARD_DISABLE_COLOR") != "on"
)

// A BonusSquare is a bonus square (duh)
type BonusSquare rune

const (
	NoBonus BonusSquare = ' '
	// Bonus3WS is a triple word score
	Bonus3WS BonusSquare = '='
	// Bonus3LS is a triple letter score
	Bonus3LS BonusSquare = '"'
	// Bonus2LS is a double letter score
	Bonus2LS BonusSquare = '\''
	// Bonus2WS is a double word score
	Bonus2WS BonusSquare = '-'
)

// LetterMultiplier returns 2 or 3 for letter bonuses and 1 otherwise.
func (b BonusSquare) LetterMultiplier() int {
	switch b {
	case Bonus2LS:
		return 2
	case Bonus3LS:
		return 3
	}
	return 1
}

// WordMultiplier returns 2 or 3 for word bonuses and 1 otherwise.
func (b BonusSquare) WordMultiplier() int {
	switch b {
	case Bonus2WS:
		return 2
	case Bonus3WS:
		return 3
	}
	return 1
}

// BonusFromName parses the short names used in layout files.
func BonusFromName(name string) (BonusSquare, error) {
	switch strings.ToUpper(name) {
	case "", "NONE":
		return NoBonus, nil
	case "DL":
		return Bonus2LS, nil
	case "TL":
		return Bonus3LS, nil
	case "DW":
		return Bonus2WS, nil
	case "TW":
		return Bonus3WS, nil
	}
	return NoBonus, fmt.Errorf("unknown bonus %q", name)
}

func (b BonusSquare) Name() string {
	switch b {
	case Bonus2LS:
		return "DL"
	case Bonus3LS:
		return "TL"
	case Bonus2WS:
		return "DW"
	case Bonus3WS:
		return "TW"
	}
	return "NONE"
}

func bonusFromRune(r rune) BonusSquare {
	switch b := BonusSquare(r); b {
	case Bonus2LS, Bonus3LS, Bonus2WS, Bonus3WS:
		return b
	}
	return NoBonus
}

// A Square is a single square in a game board. It holds the bonus marking,
// a confirmed letter or a pending letter (never both), and the source of
// the confirmed tile.
type Square struct {
	letter  tilemapping.MachineLetter
	pending tilemapping.MachineLetter
	bonus   BonusSquare
	source  move.TileSource
}

func (s Square) String() string {
	return fmt.Sprintf("<(%v/%v) (%s) %v>", s.letter, s.pending, string(s.bonus), s.source)
}

// Letter returns the confirmed letter.
func (s *Square) Letter() tilemapping.MachineLetter {
	return s.letter
}

// Pending returns the letter placed this turn, if any.
func (s *Square) Pending() tilemapping.MachineLetter {
	return s.pending
}

// Effective returns the pending letter if there is one, else the confirmed
// letter.
func (s *Square) Effective() tilemapping.MachineLetter {
	if s.pending != tilemapping.EmptyMachineLetter {
		return s.pending
	}
	return s.letter
}

func (s *Square) Bonus() BonusSquare {
	return s.bonus
}

// Source is only meaningful when the square holds a confirmed letter.
func (s *Square) Source() move.TileSource {
	return s.source
}

func (s *Square) IsEmpty() bool {
	return s.Effective() == tilemapping.EmptyMachineLetter
}

func (s *Square) HasConfirmed() bool {
	return s.letter != tilemapping.EmptyMachineLetter
}

func (b BonusSquare) displayString() string {
	if !ColorSupport {
		return string(b)
	}
	switch b {
	case Bonus3WS:
		return fmt.Sprintf("\033[31m%s\033[0m", string(b))
	case Bonus2WS:
		return fmt.Sprintf("\033[35m%s\033[0m", string(b))
	case Bonus3LS:
		return fmt.Sprintf("\033[34m%s\033[0m", string(b))
	case Bonus2LS:
		return fmt.Sprintf("\033[36m%s\033[0m", string(b))
	default:
		return " "
	}
}

// DisplayString shows pending letters in lowercase.
func (s Square) DisplayString() string {
	if s.pending != tilemapping.EmptyMachineLetter {
		return strings.ToLower(s.pending.String())
	}
	if s.letter != tilemapping.EmptyMachineLetter {
		return s.letter.String()
	}
	if s.bonus == NoBonus {
		return string(tilemapping.ASCIIEmpty)
	}
	return s.bonus.displayString()
}
