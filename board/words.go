package board

import (
	"fmt"

	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

// FormedWord is a maximal run of two or more letters that touches at least
// one of this turn's placements.
type FormedWord struct {
	Word     tilemapping.MachineWord `json:"word"`
	Vertical bool                    `json:"vertical"`
	Cells    []Pos                   `json:"cells"`
}

func (fw FormedWord) String() string {
	return fw.Word.UserVisible()
}

func (fw FormedWord) key() string {
	axis := "H"
	if fw.Vertical {
		axis = "V"
	}
	return fmt.Sprintf("%s:%d,%d:%s", axis, fw.Cells[0].Row, fw.Cells[0].Col, fw.Word.UserVisible())
}

// FormedWords returns every distinct word made by the given placements.
// The board must already carry the placements as pending letters. Words
// come back in placement order, with the horizontal run of a placement
// before its vertical one.
func FormedWords(g *GameBoard, placements []move.Placement) []FormedWord {
	var words []FormedWord
	seen := map[string]bool{}
	for _, p := range placements {
		for _, vertical := range []bool{false, true} {
			fw, ok := g.runThrough(p.Row, p.Col, vertical)
			if !ok {
				continue
			}
			k := fw.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			words = append(words, fw)
		}
	}
	return words
}

// runThrough traces back to the start of the run containing (row, col)
// along one axis and then collects it going forward.
func (g *GameBoard) runThrough(row, col int, vertical bool) (FormedWord, bool) {
	dr, dc := 0, 1
	if vertical {
		dr, dc = 1, 0
	}
	r, c := row, col
	for g.Effective(r-dr, c-dc) != tilemapping.EmptyMachineLetter {
		r, c = r-dr, c-dc
	}
	fw := FormedWord{Vertical: vertical}
	for {
		ml := g.Effective(r, c)
		if ml == tilemapping.EmptyMachineLetter {
			break
		}
		fw.Word = append(fw.Word, ml)
		fw.Cells = append(fw.Cells, Pos{r, c})
		r, c = r+dr, c+dc
	}
	return fw, len(fw.Word) >= 2
}
