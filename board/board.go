package board

import (
	"fmt"

	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

// Pos is a board coordinate.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Pos) String() string {
	return move.ToBoardGameCoords(p.Row, p.Col, false)
}

// A GameBoard is the main board structure. It contains all of the Squares,
// with bonuses and any confirmed or pending letters.
type GameBoard struct {
	squares [][]*Square
}

// NewBoard allocates an empty board for the given layout. Squares the
// layout does not mention get no bonus.
func NewBoard(layout *Layout) *GameBoard {
	n := layout.Size
	rows := make([][]*Square, n)
	for i := range rows {
		rows[i] = make([]*Square, n)
		for j := range rows[i] {
			rows[i][j] = &Square{bonus: layout.bonusAt(i, j)}
		}
	}
	return &GameBoard{squares: rows}
}

// MakeBoard creates a board from a description string, one string per row.
func MakeBoard(desc []string) *GameBoard {
	return NewBoard(&Layout{Size: len(desc), Rows: desc})
}

// Dim is the dimension of the board. It assumes the board is square.
func (g *GameBoard) Dim() int {
	return len(g.squares)
}

// PosExists returns true if the coordinate is on the board.
func (g *GameBoard) PosExists(row int, col int) bool {
	return row >= 0 && row < g.Dim() && col >= 0 && col < g.Dim()
}

func (g *GameBoard) GetSquare(row int, col int) *Square {
	return g.squares[row][col]
}

func (g *GameBoard) GetBonus(row int, col int) BonusSquare {
	return g.squares[row][col].bonus
}

func (g *GameBoard) GetLetter(row int, col int) tilemapping.MachineLetter {
	return g.squares[row][col].letter
}

// Effective returns the effective letter at the given square, or the empty
// letter if the coordinate is off the board.
func (g *GameBoard) Effective(row int, col int) tilemapping.MachineLetter {
	if !g.PosExists(row, col) {
		return tilemapping.EmptyMachineLetter
	}
	return g.squares[row][col].Effective()
}

// SetLetter places a confirmed tile. It is meant for setting up positions;
// turn commits go through ConfirmPlacements.
func (g *GameBoard) SetLetter(row int, col int, letter tilemapping.MachineLetter, source move.TileSource) {
	sq := g.squares[row][col]
	sq.letter = letter
	sq.pending = tilemapping.EmptyMachineLetter
	sq.source = source
}

// SetPending marks a tentative letter. The square must be empty.
func (g *GameBoard) SetPending(row int, col int, letter tilemapping.MachineLetter) error {
	if !g.PosExists(row, col) {
		return fmt.Errorf("square %v is off the board", Pos{row, col})
	}
	sq := g.squares[row][col]
	if !sq.IsEmpty() {
		return fmt.Errorf("square %v is occupied", Pos{row, col})
	}
	sq.pending = letter
	return nil
}

// ClearPending removes a tentative letter and returns it.
func (g *GameBoard) ClearPending(row int, col int) tilemapping.MachineLetter {
	sq := g.squares[row][col]
	ml := sq.pending
	sq.pending = tilemapping.EmptyMachineLetter
	return ml
}

// ClearAllPending removes every tentative letter on the board.
func (g *GameBoard) ClearAllPending() {
	for _, row := range g.squares {
		for _, sq := range row {
			sq.pending = tilemapping.EmptyMachineLetter
		}
	}
}

// ApplyPending marks every placement as pending. Placements on occupied
// squares are an error.
func (g *GameBoard) ApplyPending(placements []move.Placement) error {
	for _, p := range placements {
		if err := g.SetPending(p.Row, p.Col, p.Letter); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmPlacements turns the given placements into confirmed tiles,
// recording each tile's source.
func (g *GameBoard) ConfirmPlacements(placements []move.Placement) {
	for _, p := range placements {
		g.SetLetter(p.Row, p.Col, p.Letter, p.Source)
	}
}

// HasConfirmed returns true if at least one confirmed tile is on the board.
func (g *GameBoard) HasConfirmed() bool {
	for _, row := range g.squares {
		for _, sq := range row {
			if sq.HasConfirmed() {
				return true
			}
		}
	}
	return false
}

// TilesPlayed counts the confirmed tiles on the board.
func (g *GameBoard) TilesPlayed() int {
	n := 0
	for _, row := range g.squares {
		for _, sq := range row {
			if sq.HasConfirmed() {
				n++
			}
		}
	}
	return n
}

// ConfirmedLetters returns the multiset of confirmed letters.
func (g *GameBoard) ConfirmedLetters() tilemapping.LetterCounts {
	var lc tilemapping.LetterCounts
	for _, row := range g.squares {
		for _, sq := range row {
			lc.Add(sq.letter)
		}
	}
	return lc
}

// HasConfirmedNeighbor returns true if any orthogonal neighbor of the
// square holds a confirmed tile.
func (g *GameBoard) HasConfirmedNeighbor(row int, col int) bool {
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		r, c := row+d[0], col+d[1]
		if g.PosExists(r, c) && g.squares[r][c].HasConfirmed() {
			return true
		}
	}
	return false
}

// UpgradeBonuses upgrades up to n empty premium squares in row-major order:
// double letter becomes triple letter, and double word becomes triple word.
// It returns the number of squares upgraded.
func (g *GameBoard) UpgradeBonuses(n int) int {
	upgraded := 0
	for _, row := range g.squares {
		for _, sq := range row {
			if upgraded >= n {
				return upgraded
			}
			if !sq.IsEmpty() {
				continue
			}
			switch sq.bonus {
			case Bonus2LS:
				sq.bonus = Bonus3LS
				upgraded++
			case Bonus2WS:
				sq.bonus = Bonus3WS
				upgraded++
			}
		}
	}
	return upgraded
}

// Copy returns a deep copy of this board.
func (g *GameBoard) Copy() *GameBoard {
	newg := &GameBoard{squares: make([][]*Square, len(g.squares))}
	for i, row := range g.squares {
		newg.squares[i] = make([]*Square, len(row))
		for j, sq := range row {
			cp := *sq
			newg.squares[i][j] = &cp
		}
	}
	return newg
}

// Equals checks the boards for equality, square by square.
func (g *GameBoard) Equals(g2 *GameBoard) bool {
	if g.Dim() != g2.Dim() {
		return false
	}
	for i := range g.squares {
		for j := range g.squares[i] {
			if *g.squares[i][j] != *g2.squares[i][j] {
				return false
			}
		}
	}
	return true
}
