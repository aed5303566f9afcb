package board

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/lexicard/move"
	"github.com/domino14/lexicard/tilemapping"
)

func ml(r rune) tilemapping.MachineLetter {
	l, err := tilemapping.FromRune(r)
	if err != nil {
		panic(err)
	}
	return l
}

func placements(row, col int, vertical bool, word string) []move.Placement {
	ps := []move.Placement{}
	for i, r := range word {
		p := move.Placement{Row: row, Col: col + i, Letter: ml(r), RackIndex: i, Source: move.SourceNormal}
		if vertical {
			p.Row, p.Col = row+i, col
		}
		ps = append(ps, p)
	}
	return ps
}

func TestNewBoardDefaults(t *testing.T) {
	is := is.New(t)
	b := NewBoard(&Layout{Size: 5, Multipliers: []Multiplier{{Row: 2, Col: 2, Kind: "DW"}}})
	is.Equal(b.Dim(), 5)
	is.Equal(b.GetBonus(2, 2), Bonus2WS)
	is.Equal(b.GetBonus(0, 0), NoBonus)
	is.True(!b.HasConfirmed())
}

func TestStandardLayout(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	is.Equal(b.GetBonus(0, 0), Bonus3WS)
	is.Equal(b.GetBonus(7, 3), Bonus2LS)
	is.Equal(b.GetBonus(7, 7), Bonus2WS)

	small := NewBoard(StandardLayout(9))
	is.Equal(small.Dim(), 9)
	is.Equal(small.GetBonus(0, 0), Bonus3WS)
	is.Equal(small.GetBonus(4, 4), Bonus2WS)
	// symmetric
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			is.Equal(small.GetBonus(i, j), small.GetBonus(8-i, 8-j))
			is.Equal(small.GetBonus(i, j), small.GetBonus(j, i))
		}
	}
}

func TestParseLayout(t *testing.T) {
	is := is.New(t)
	l, err := ParseLayout([]byte(`
size: 3
rows:
  - "= ="
multipliers:
  - {row: 1, col: 1, kind: TL}
  - {row: 0, col: 0, kind: none}
`))
	is.NoErr(err)
	b := NewBoard(l)
	is.Equal(b.GetBonus(0, 0), NoBonus)
	is.Equal(b.GetBonus(0, 2), Bonus3WS)
	is.Equal(b.GetBonus(1, 1), Bonus3LS)
	is.Equal(b.GetBonus(2, 2), NoBonus)

	_, err = ParseLayout([]byte(`{"size": 2, "multipliers": [{"row": 5, "col": 0, "kind": "DL"}]}`))
	is.True(err != nil)
	_, err = ParseLayout([]byte(`size: 0`))
	is.True(err != nil)
}

func TestCopyIsDeep(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	cp := b.Copy()
	is.NoErr(cp.SetPending(7, 7, ml('A')))
	cp.SetLetter(0, 0, ml('Z'), move.SourceFree)
	is.True(b.GetSquare(7, 7).IsEmpty())
	is.Equal(b.GetLetter(0, 0), tilemapping.EmptyMachineLetter)
	is.True(!b.Equals(cp))
}

func TestEffectivePrefersPending(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	is.NoErr(b.SetPending(3, 3, ml('Q')))
	is.Equal(b.GetSquare(3, 3).Effective(), ml('Q'))
	is.Equal(b.GetLetter(3, 3), tilemapping.EmptyMachineLetter)
	is.True(b.SetPending(3, 3, ml('R')) != nil)
	is.Equal(b.ClearPending(3, 3), ml('Q'))
	is.True(b.GetSquare(3, 3).IsEmpty())
}

func TestFormedWordsSingleAxis(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	ps := placements(7, 2, false, "CAT")
	is.NoErr(b.ApplyPending(ps))
	words := FormedWords(b, ps)
	is.Equal(len(words), 1)
	is.Equal(words[0].String(), "CAT")
	is.True(!words[0].Vertical)
	is.Equal(words[0].Cells, []Pos{{7, 2}, {7, 3}, {7, 4}})
}

// A single tile that completes a horizontal and a vertical word yields
// exactly two words, and extraction is repeatable.
func TestFormedWordsBothAxes(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	b.SetLetter(7, 5, ml('A'), move.SourceNormal)
	b.SetLetter(7, 6, ml('T'), move.SourceNormal)
	b.SetLetter(5, 4, ml('O'), move.SourceNormal)
	b.SetLetter(6, 4, ml('A'), move.SourceNormal)
	ps := []move.Placement{{Row: 7, Col: 4, Letter: ml('R'), RackIndex: 0}}
	is.NoErr(b.ApplyPending(ps))

	words := FormedWords(b, ps)
	is.Equal(len(words), 2)
	is.Equal(words[0].String(), "RAT")
	is.True(!words[0].Vertical)
	is.Equal(words[1].String(), "OAR")
	is.True(words[1].Vertical)

	again := FormedWords(b, ps)
	is.Equal(words, again)
}

func TestFormedWordsDedupes(t *testing.T) {
	b := NewBoard(StandardLayout(15))
	ps := placements(3, 3, true, "DOGS")
	assert.NoError(t, b.ApplyPending(ps))
	words := FormedWords(b, ps)
	assert.Len(t, words, 1)
	assert.Equal(t, "DOGS", words[0].String())
}

func TestFormedWordsLoneTile(t *testing.T) {
	b := NewBoard(StandardLayout(15))
	ps := placements(7, 7, false, "A")
	assert.NoError(t, b.ApplyPending(ps))
	assert.Empty(t, FormedWords(b, ps))
}

func TestScoreCAT(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	is.Equal(b.GetBonus(7, 2), NoBonus)
	is.Equal(b.GetBonus(7, 3), Bonus2LS)
	is.Equal(b.GetBonus(7, 4), NoBonus)

	ps := placements(7, 2, false, "CAT")
	is.NoErr(b.ApplyPending(ps))
	bd := ScoreMove(b, ps)
	is.Equal(bd.Total, 3+3*2+3)
	is.Equal(bd.Words, []move.WordScore{{Word: "CAT", Score: 12}})
}

func TestScoreSources(t *testing.T) {
	is := is.New(t)
	b := NewBoard(&Layout{Size: 5})
	ps := placements(0, 0, false, "DOG")
	ps[1].Source = move.SourceSpecial
	ps[2].Source = move.SourceFree
	ps[2].RackIndex = move.NoRackIndex
	is.NoErr(b.ApplyPending(ps))
	is.Equal(ScoreMove(b, ps).Total, 3+2+1)
}

// Bonus squares under tiles from earlier turns are not counted again.
func TestScoreNoRetroactiveBonus(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	first := placements(7, 2, false, "CAT")
	is.NoErr(b.ApplyPending(first))
	b.ConfirmPlacements(first)
	is.Equal(b.GetSquare(7, 3).Source(), move.SourceNormal)

	// S at (7,5) makes CATS, reusing A on the double letter.
	second := []move.Placement{{Row: 7, Col: 5, Letter: ml('S'), RackIndex: 0}}
	is.NoErr(b.ApplyPending(second))
	bd := ScoreMove(b, second)
	is.Equal(bd.Total, 3*4)

	// Old free tiles stay cheap.
	b2 := NewBoard(StandardLayout(15))
	b2.SetLetter(7, 3, ml('A'), move.SourceFree)
	ps := []move.Placement{{Row: 7, Col: 4, Letter: ml('T'), RackIndex: 0}}
	is.NoErr(b2.ApplyPending(ps))
	is.Equal(ScoreMove(b2, ps).Total, 1+3)
}

func TestScoreWordMultipliers(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	// Row 0: TW at A1, DL at D1.
	ps := placements(0, 0, false, "ZEBRA")
	is.NoErr(b.ApplyPending(ps))
	is.Equal(ScoreMove(b, ps).Total, (3+3+3+6+3)*3)
}

func TestUpgradeBonuses(t *testing.T) {
	is := is.New(t)
	b := NewBoard(&Layout{Size: 3, Rows: []string{`'-'`, `"=-`, `  '`}})
	b.SetLetter(0, 0, ml('A'), move.SourceNormal)
	is.Equal(b.UpgradeBonuses(2), 2)
	is.Equal(b.GetBonus(0, 0), Bonus2LS)
	is.Equal(b.GetBonus(0, 1), Bonus3WS)
	is.Equal(b.GetBonus(0, 2), Bonus3LS)
	is.Equal(b.GetBonus(1, 2), Bonus2WS)
	is.Equal(b.UpgradeBonuses(10), 2)
	is.Equal(b.GetBonus(2, 2), Bonus3LS)
}

func TestBoardJSON(t *testing.T) {
	is := is.New(t)
	b := NewBoard(StandardLayout(15))
	b.SetLetter(7, 7, ml('Q'), move.SourceFree)
	is.NoErr(b.SetPending(7, 8, ml('I')))
	bts, err := json.Marshal(b)
	is.NoErr(err)

	b2 := &GameBoard{}
	is.NoErr(json.Unmarshal(bts, b2))
	is.True(b.Equals(b2))
	is.Equal(b2.GetSquare(7, 7).Source(), move.SourceFree)
}
