package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/match"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newState(t *testing.T) *game.State {
	t.Helper()
	cat := cards.DefaultCatalogue()
	deck := cards.BuildDeck(cat, lexicon.CategoryAnimals, false, 2)
	st, err := game.NewState(game.DefaultRules(lexicon.CategoryAnimals),
		[]game.SideConfig{{Name: "a", Deck: deck}, {Name: "b"}},
		frand.NewCustom(make([]byte, 32), 1024, 12))
	require.NoError(t, err)
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)
	ctx := context.Background()
	st := newState(t)
	st, err := st.Pass()
	is.NoErr(err)

	id := match.NewID()
	is.NoErr(s.SaveSnapshot(ctx, id, st))
	// Saving again replaces the row.
	is.NoErr(s.SaveSnapshot(ctx, id, st))

	snap, err := s.LoadSnapshot(ctx, id)
	is.NoErr(err)
	is.Equal(snap.Turn, 1)
	is.True(!snap.Finished)
	got := snap.State
	is.Equal(got.OnTurn, st.OnTurn)
	is.Equal(got.Bag.TilesRemaining(), st.Bag.TilesRemaining())
	is.Equal(got.Sides[0].Rack.String(), st.Sides[0].Rack.String())
	is.Equal(len(got.Sides[0].SpecialHand), len(st.Sides[0].SpecialHand))
	is.Equal(got.Sides[0].SpecialHand[0].Def.ID, st.Sides[0].SpecialHand[0].Def.ID)
	is.True(got.Board.Equals(st.Board))
	is.Equal(len(got.History), 1)
	is.True(time.Since(snap.UpdatedAt) < time.Hour)

	open, err := s.OpenMatches(ctx)
	is.NoErr(err)
	is.Equal(open, []match.ID{id})
}

func TestSnapshotNotFound(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)
	_, err := s.LoadSnapshot(context.Background(), match.NewID())
	is.Equal(err, ErrNotFound)
}

func TestCorruptSnapshot(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	id := match.NewID()
	require.NoError(t, s.SaveSnapshot(ctx, id, newState(t)))
	_, err := s.db.Exec(`UPDATE snapshots SET state = replace(state, '"turn":0', '"turn":5')`)
	require.NoError(t, err)

	_, err = s.LoadSnapshot(ctx, id)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestResults(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	first := match.Result{
		MatchID: match.NewID(), Mode: match.ModeOnlinePvP, Category: lexicon.CategoryAnimals,
		Players: []match.PlayerResult{{Name: "alice", Score: 40}, {Name: "bob", Score: 25}},
		Winner:  0, Turns: 20, Words: []string{"CAT", "DOG"},
	}
	second := match.Result{
		MatchID: match.NewID(), Mode: match.ModeSolo, Category: lexicon.CategoryFood,
		Players: []match.PlayerResult{{Name: "alice", Score: 55}},
		Winner:  0, Turns: 10, Words: []string{"PIE"},
	}
	require.NoError(t, s.SaveSnapshot(ctx, first.MatchID, newState(t)))
	require.NoError(t, s.SaveResult(ctx, first))
	require.NoError(t, s.SaveResult(ctx, second))

	top, err := s.TopResults(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 55, top[0].Score)
	assert.Equal(t, "solo", top[0].Mode)
	assert.Equal(t, 40, top[1].Score)
	assert.True(t, top[1].Won)
	assert.False(t, top[2].Won)
	assert.Equal(t, []string{"CAT", "DOG"}, top[2].Words)

	animals, err := s.TopResults(ctx, lexicon.CategoryAnimals, 1)
	require.NoError(t, err)
	require.Len(t, animals, 1)
	assert.Equal(t, "alice", animals[0].Player)

	bob, err := s.PlayerResults(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, first.MatchID.String(), bob[0].MatchID)

	// The finished match no longer shows as open.
	open, err := s.OpenMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}
