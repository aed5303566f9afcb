package board

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

func (g *GameBoard) ToDisplayText() string {
	var str strings.Builder
	n := g.Dim()
	str.WriteString("\n   ")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&str, "%c ", 'A'+i)
	}
	str.WriteString("\n   " + strings.Repeat("-", n*2) + "\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&str, "%2d|", i+1)
		for j := 0; j < n; j++ {
			str.WriteString(g.squares[i][j].DisplayString() + " ")
		}
		str.WriteString("|\n")
	}
	str.WriteString("   " + strings.Repeat("-", n*2) + "\n")
	return str.String()
}

// SetRow sets the row to the passed-in letters, as normal tiles. Spaces
// leave squares empty. It returns the letters that were placed.
func (g *GameBoard) SetRow(rowNum int, letters string) []tilemapping.MachineLetter {
	for idx := 0; idx < g.Dim(); idx++ {
		g.SetLetter(rowNum, idx, tilemapping.EmptyMachineLetter, move.SourceNormal)
	}
	lettersPlayed := []tilemapping.MachineLetter{}
	for idx, r := range letters {
		if r == ' ' {
			continue
		}
		ml, err := tilemapping.FromRune(r)
		if err != nil {
			panic(err)
		}
		g.SetLetter(rowNum, idx, ml, move.SourceNormal)
		lettersPlayed = append(lettersPlayed, ml)
	}
	return lettersPlayed
}

var sourceChars = map[move.TileSource]byte{
	move.SourceNormal:  'n',
	move.SourceSpecial: 's',
	move.SourceFree:    'f',
}

// boardJSON is the serialized form of a board: one string per row for the
// bonuses, the confirmed letters, their sources and the pending letters.
type boardJSON struct {
	Bonuses []string `json:"bonuses"`
	Letters []string `json:"letters"`
	Sources []string `json:"sources"`
	Pending []string `json:"pending,omitempty"`
}

func (g *GameBoard) MarshalJSON() ([]byte, error) {
	n := g.Dim()
	bj := boardJSON{
		Bonuses: make([]string, n),
		Letters: make([]string, n),
		Sources: make([]string, n),
	}
	anyPending := false
	pending := make([]string, n)
	for i, row := range g.squares {
		var b, l, s, p strings.Builder
		for _, sq := range row {
			b.WriteRune(rune(sq.bonus))
			l.WriteRune(sq.letter.Rune())
			p.WriteRune(sq.pending.Rune())
			if sq.HasConfirmed() {
				s.WriteByte(sourceChars[sq.source])
			} else {
				s.WriteByte('.')
			}
			if sq.pending != tilemapping.EmptyMachineLetter {
				anyPending = true
			}
		}
		bj.Bonuses[i], bj.Letters[i], bj.Sources[i], pending[i] = b.String(), l.String(), s.String(), p.String()
	}
	if anyPending {
		bj.Pending = pending
	}
	return json.Marshal(bj)
}

func (g *GameBoard) UnmarshalJSON(data []byte) error {
	var bj boardJSON
	if err := json.Unmarshal(data, &bj); err != nil {
		return err
	}
	n := len(bj.Bonuses)
	if len(bj.Letters) != n || len(bj.Sources) != n || (bj.Pending != nil && len(bj.Pending) != n) {
		return fmt.Errorf("board: inconsistent row counts")
	}
	nb := MakeBoard(bj.Bonuses)
	for i := 0; i < n; i++ {
		letters := []rune(bj.Letters[i])
		sources := []rune(bj.Sources[i])
		var pending []rune
		if bj.Pending != nil {
			pending = []rune(bj.Pending[i])
		}
		if len(letters) != n || len(sources) != n || (pending != nil && len(pending) != n) {
			return fmt.Errorf("board: row %d has the wrong width", i)
		}
		for j := 0; j < n; j++ {
			if letters[j] != tilemapping.ASCIIEmpty {
				ml, err := tilemapping.FromRune(letters[j])
				if err != nil {
					return err
				}
				src := move.SourceNormal
				for k, v := range sourceChars {
					if rune(v) == sources[j] {
						src = k
					}
				}
				nb.SetLetter(i, j, ml, src)
			}
			if pending != nil && pending[j] != tilemapping.ASCIIEmpty {
				ml, err := tilemapping.FromRune(pending[j])
				if err != nil {
					return err
				}
				nb.squares[i][j].pending = ml
			}
		}
	}
	g.squares = nb.squares
	return nil
}
