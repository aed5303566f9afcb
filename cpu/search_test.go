package cpu

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/tilemapping"
)

func testDict() *lexicon.Dictionary {
	var entries []lexicon.Entry
	for _, w := range []string{"cat", "cats", "at", "act", "tax", "ax", "scat", "ta"} {
		entries = append(entries, lexicon.Entry{Word: w})
	}
	return lexicon.NewDictionary("test", lexicon.CategoryAnimals, entries)
}

func rack(s string) *tilemapping.Rack {
	r, err := tilemapping.RackFromString(s)
	if err != nil {
		panic(err)
	}
	return r
}

func seeded() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

// checkSound replays every candidate through the validator and the scorer.
func checkSound(t *testing.T, b *board.GameBoard, r *tilemapping.Rack, dict *lexicon.Dictionary, opts Options) int {
	t.Helper()
	is := is.New(t)
	cands, err := GenAll(context.Background(), b, r, dict, opts)
	is.NoErr(err)
	for i, c := range cands {
		if i > 0 {
			is.True(cands[i-1].Score >= c.Score)
		}
		scratch := b.Copy()
		is.NoErr(scratch.ApplyPending(c.Placements))
		_, err := game.ValidateMove(scratch, c.Placements, dict)
		is.NoErr(err)
		is.Equal(board.ScoreMove(scratch, c.Placements).Total, c.Score)

		seen := map[int]bool{}
		for _, p := range c.Placements {
			is.True(!seen[p.RackIndex])
			seen[p.RackIndex] = true
			is.Equal(r.At(p.RackIndex), p.Letter)
		}
	}
	return len(cands)
}

func TestEmptyBoard(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.StandardLayout(15))
	n := checkSound(t, b, rack("CATSXQZ"), testDict(), DefaultOptions())
	is.True(n > 0)

	cands, err := GenAll(context.Background(), b, rack("CATSXQZ"), testDict(), DefaultOptions())
	is.NoErr(err)
	// A four letter word from a triple word square to a double letter square
	// scores (3+3+3+6) x 3.
	is.Equal(cands[0].Score, 45)
}

func TestConnectsToBoard(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.StandardLayout(15))
	b.SetRow(7, "  CAT")
	n := checkSound(t, b, rack("SXATQZZ"), testDict(), DefaultOptions())
	is.True(n > 0)
	cands, _ := GenAll(context.Background(), b, rack("SXATQZZ"), testDict(), DefaultOptions())
	for _, c := range cands {
		touches := false
		for _, p := range c.Placements {
			touches = touches || b.HasConfirmedNeighbor(p.Row, p.Col)
		}
		is.True(touches)
	}
}

func TestNoMove(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.StandardLayout(15))
	c, err := Search(context.Background(), b, rack("QZQZQZQ"), testDict(), DefaultOptions())
	is.NoErr(err)
	is.True(c == nil)
}

func TestLetterLimit(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.StandardLayout(15))
	b.SetRow(7, "  CAT")
	opts := DefaultOptions()
	opts.LetterLimit = 2
	n := checkSound(t, b, rack("SXATQZZ"), testDict(), opts)
	is.True(n > 0)
	cands, _ := GenAll(context.Background(), b, rack("SXATQZZ"), testDict(), opts)
	for _, c := range cands {
		is.Equal(c.TilesPlayed(), 2)
	}

	opts.LetterLimit = 7
	c, err := Search(context.Background(), b, rack("SXATQZZ"), testDict(), opts)
	is.NoErr(err)
	is.True(c == nil)
}

func TestPickIsReproducible(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.StandardLayout(15))
	opts := DefaultOptions()
	opts.RNG = seeded()
	a, err := Search(context.Background(), b, rack("CATSXQZ"), testDict(), opts)
	is.NoErr(err)
	opts.RNG = seeded()
	opts.Threads = 1
	c, err := Search(context.Background(), b, rack("CATSXQZ"), testDict(), opts)
	is.NoErr(err)
	is.Equal(a.ShortDescription(), c.ShortDescription())
}

func TestTopOneIsBest(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.StandardLayout(15))
	opts := DefaultOptions()
	opts.TopN = 1
	c, err := Search(context.Background(), b, rack("CATSXQZ"), testDict(), opts)
	is.NoErr(err)
	is.Equal(c.Score, 45)
}

func TestCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := board.NewBoard(board.StandardLayout(15))
	_, err := Search(ctx, b, rack("CATSXQZ"), testDict(), DefaultOptions())
	is.True(errors.Is(err, context.Canceled))
}

func TestNodeBudget(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.StandardLayout(15))
	opts := DefaultOptions()
	opts.NodeBudget = 10
	cands, err := GenAll(context.Background(), b, rack("CATSXQZ"), testDict(), opts)
	is.NoErr(err)
	full, _ := GenAll(context.Background(), b, rack("CATSXQZ"), testDict(), DefaultOptions())
	is.True(len(cands) < len(full))
}
