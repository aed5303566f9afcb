package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/lexicon"
)

func TestCardActivates(t *testing.T) {
	is := is.New(t)
	cat := testCard("CAT", cards.BonusFlat{Points: 10}, lexicon.CategoryAnimals)
	st := newSolo(t, "CATXYZQ", cat)
	st, err := st.SetCard(cat.InstanceID)
	is.NoErr(err)
	st = place(t, st, 7, 2, false, "CAT")
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	side := ns.Mounted()
	is.Equal(side.Score, 22)
	is.Equal(len(side.SpecialHand), 0)
	is.Equal(side.UsedSpecialIDs, []string{cat.InstanceID})
	is.Equal(side.SpecialSet, "")
	is.Equal(side.LastSpecialCategory, lexicon.CategoryAnimals)
	is.Equal(ns.History[0].SpecialCard, "CAT")
	is.Equal(ns.History[0].SpecialBonus, 10)
	is.True(ns.LastEvent != nil)
}

func TestSetCardThatDoesNotFire(t *testing.T) {
	is := is.New(t)
	cat := testCard("CAT", cards.BonusFlat{Points: 10}, lexicon.CategoryAnimals)
	st := newSolo(t, "CATXYZQ", cat)
	st, _ = st.SetCard(cat.InstanceID)
	st = place(t, st, 7, 2, false, "AT")
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	side := ns.Mounted()
	is.Equal(len(side.SpecialHand), 1)
	is.Equal(side.SpecialSet, "")
	is.Equal(len(side.UsedSpecialIDs), 0)
	// The guard follows the set card whether or not it fired.
	is.Equal(side.LastSpecialCategory, lexicon.CategoryAnimals)
}

func TestCardGuard(t *testing.T) {
	is := is.New(t)
	cat := testCard("CAT", cards.BonusFlat{Points: 10}, lexicon.CategoryAnimals)
	dog := testCard("DOG", cards.BonusFlat{Points: 10}, lexicon.CategoryAnimals)
	wild := testCard("AT", cards.BonusFlat{Points: 4})
	st := newSolo(t, "CATXYZQ", cat, dog, wild)
	st, _ = st.SetCard(cat.InstanceID)
	st = place(t, st, 7, 2, false, "CAT")
	st, err := st.Confirm(testDict())
	is.NoErr(err)

	_, err = st.SetCard(dog.InstanceID)
	is.True(errors.Is(err, ErrCardGuarded))
	_, err = st.SetCard(wild.InstanceID)
	is.NoErr(err)

	st, _ = st.Pass()
	is.Equal(st.Mounted().LastSpecialCategory, lexicon.Category(""))
	_, err = st.SetCard(dog.InstanceID)
	is.NoErr(err)
}

func TestSetCardRules(t *testing.T) {
	is := is.New(t)
	cat := testCard("CAT", cards.BonusFlat{Points: 10})
	st := newSolo(t, "CATXYZQ", cat)
	_, err := st.SetCard("nope")
	is.True(errors.Is(err, ErrCardNotInHand))
	placed, _ := st.PlaceTile(7, 7, 0)
	_, err = placed.SetCard(cat.InstanceID)
	is.True(errors.Is(err, ErrCardAfterPlace))

	set, err := st.SetCard(cat.InstanceID)
	is.NoErr(err)
	is.Equal(set.Mounted().SetCard(), cat)
	unset, err := set.UnsetCard()
	is.NoErr(err)
	is.Equal(unset.Mounted().SpecialSet, "")

	set.Finished = true
	_, err = set.UnsetCard()
	is.True(errors.Is(err, ErrGameOver))
}

func TestCardLetters(t *testing.T) {
	is := is.New(t)
	cat := testCard("CAT", cards.BonusFlat{Points: 10})
	st := newSolo(t, "XYZQXYZ", cat)
	_, err := st.PlaceCardLetter(7, 7, ml('C'))
	is.True(errors.Is(err, ErrNoCardSet))

	st, _ = st.SetCard(cat.InstanceID)
	st, err = st.PlaceCardLetter(7, 7, ml('C'))
	is.NoErr(err)
	_, err = st.PlaceCardLetter(7, 8, ml('C'))
	is.True(errors.Is(err, ErrNotCardLetter))
	st, _ = st.PlaceCardLetter(7, 8, ml('A'))
	st, _ = st.PlaceCardLetter(7, 9, ml('T'))
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	// Special tiles are worth 2 each, doubled by the centre square, and the
	// card adds 10.
	is.Equal(ns.History[0].BaseScore, 12)
	is.Equal(ns.Mounted().Score, 22)
	is.Equal(ns.Mounted().Rack.String(), "XYZQXYZ")

	unset, err := st.UnsetCard()
	is.NoErr(err)
	is.Equal(len(unset.Pending), 0)
}

func TestNextTurnMultiplier(t *testing.T) {
	is := is.New(t)
	cake := testCard("CAT", cards.NextTurnMult{Multiplier: 1.5})
	st := newSolo(t, "CATSXYZ", cake)
	st, _ = st.SetCard(cake.InstanceID)
	st = place(t, st, 7, 2, false, "CAT")
	st, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(st.Mounted().Score, 12)
	is.Equal(st.Mounted().NextTurnMultiplier, 1.5)

	st = place(t, st, 7, 5, false, "S")
	st, err = st.Confirm(testDict())
	is.NoErr(err)
	// CATS is 12, times 1.5.
	is.Equal(st.Mounted().Score, 12+18)
	is.Equal(st.Mounted().NextTurnMultiplier, 1.0)
}

func TestDrawNormalGoesPastCapacity(t *testing.T) {
	is := is.New(t)
	dog := testCard("CAT", cards.DrawNormal{Count: 2})
	st := newSolo(t, "CATXYZQ", dog)
	st, _ = st.SetCard(dog.InstanceID)
	st = place(t, st, 7, 2, false, "CAT")
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(ns.Mounted().Rack.Len(), DefaultRackSize+2)
	is.Equal(ns.Bag.TilesRemaining(), st.Bag.TilesRemaining()-5)
}

// battleSetup gives alice the CAT rack and a card, and bob the given rack.
func battleSetup(t *testing.T, bt BattleType, card *cards.Card, bobRack string) *State {
	t.Helper()
	st := newBattle(t, bt, []*cards.Card{card})
	st.Sides[0].Rack = mustRack("CATXYZQ")
	st.Sides[1].Rack = mustRack(bobRack)
	var err error
	st, err = st.SetCard(card.InstanceID)
	if err != nil {
		t.Fatal(err)
	}
	return place(t, st, 7, 2, false, "CAT")
}

func TestForceLetterCount(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleScore, testCard("CAT", cards.ForceLetterCount{Count: 2}), "ATSXYZQ")
	st, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(st.OnTurn, 1)
	is.Equal(st.Mounted().LetterLimit, 2)

	one := place(t, st, 7, 5, false, "S")
	_, err = one.Confirm(testDict())
	is.True(errors.Is(err, ErrLetterLimit))

	two := place(t, st, 8, 4, true, "AT")
	ns, err := two.Confirm(lexicon.AcceptAll{})
	is.NoErr(err)
	is.Equal(ns.Sides[1].LetterLimit, 0)
	is.Equal(ns.LastWords, []string{"TAT"})
}

func TestShieldBlocks(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleScore, testCard("CAT", cards.ReduceOpponent{Points: 10}), "ATSXYZQ")
	st.Sides[1].Score = 30
	st.Sides[1].Shield = 1
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(ns.Sides[1].Score, 30)
	is.Equal(ns.Sides[1].Shield, 0)
	is.True(ns.LastEvent.Blocked)
}

func TestMirrorReflects(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleScore, testCard("CAT", cards.ReduceOpponent{Points: 10}), "ATSXYZQ")
	st.Sides[0].Score = 20
	st.Sides[1].Score = 30
	st.Sides[1].Mirror = 1
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.True(ns.LastEvent.Reflected)
	is.Equal(ns.Sides[1].Score, 30)
	is.Equal(ns.Sides[1].Mirror, 0)
	is.Equal(ns.Sides[0].Score, 20-10+12)
}

func TestMirrorReflectsLetterLimit(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleScore, testCard("CAT", cards.ForceLetterCount{Count: 2}), "ATSXYZQ")
	st.Sides[1].Mirror = 1
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.True(ns.LastEvent.Reflected)
	is.Equal(ns.Sides[1].Mirror, 0)
	is.Equal(ns.Sides[1].LetterLimit, 0)
	is.Equal(ns.Sides[0].LetterLimit, 2)

	// The limit binds alice on her next turn and is cleared by it.
	ns, err = ns.Pass() // bob
	is.NoErr(err)
	is.Equal(ns.Mounted().LetterLimit, 2)
	ns, err = ns.Pass() // alice
	is.NoErr(err)
	is.Equal(ns.Sides[0].LetterLimit, 0)
}

func TestMirrorReflectsPoison(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleScore, testCard("CAT", cards.Poison{Damage: 5, Turns: 2}), "ATSXYZQ")
	st.Sides[0].Score = 20
	st.Sides[1].Mirror = 1
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.True(ns.LastEvent.Reflected)
	// Nothing ticks on the turn the poison lands.
	is.Equal(ns.Sides[0].Score, 20+12)
	is.Equal(ns.Sides[0].Poison, Poison{Damage: 5, Turns: 2})
	is.Equal(ns.History[0].PoisonDamage, 0)
	is.Equal(ns.Sides[1].Poison, Poison{})

	ns, _ = ns.Pass() // bob
	ns, _ = ns.Pass() // alice
	is.Equal(ns.Sides[0].Score, 20+12-5)
	is.Equal(ns.Sides[0].Poison, Poison{Damage: 5, Turns: 1})
	is.Equal(ns.History[2].PoisonDamage, 5)
}

func TestStealPoints(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleScore, testCard("CAT", cards.StealPoints{Points: 8}), "ATSXYZQ")
	st.Sides[1].Score = 20
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(ns.Sides[1].Score, 12)
	is.Equal(ns.Sides[0].Score, 8+12)
}

func TestHPBattleDamageAndPoison(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleHP, testCard("CAT", cards.Poison{Damage: 4, Turns: 2}), "ATSXYZQ")
	st, err := st.Confirm(testDict())
	is.NoErr(err)
	bob := st.Sides[1]
	is.Equal(bob.HP, DefaultMaxHP-12)
	is.Equal(bob.Poison, Poison{Damage: 4, Turns: 2})
	is.Equal(st.History[0].DamageDealt, 12)

	st, _ = st.Pass() // bob
	is.Equal(st.Sides[1].HP, DefaultMaxHP-16)
	is.Equal(st.History[1].PoisonDamage, 4)
	st, _ = st.Pass() // alice
	st, _ = st.Pass() // bob
	is.Equal(st.Sides[1].HP, DefaultMaxHP-20)
	is.Equal(st.Sides[1].Poison, Poison{})
}

func TestHPBattleEndsAtZero(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleHP, testCard("CAT", cards.BonusFlat{Points: 10}), "ATSXYZQ")
	st.Sides[1].HP = 5
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(ns.Sides[1].HP, 0)
	is.True(ns.Finished)
	is.Equal(ns.Winner, 0)
}

func TestHealCappedAtMax(t *testing.T) {
	is := is.New(t)
	st := battleSetup(t, BattleHP, testCard("CAT", cards.HealHP{Amount: 10}), "ATSXYZQ")
	st.Sides[0].HP = 95
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(ns.Sides[0].HP, DefaultMaxHP)
	is.Equal(ns.History[0].HPHealed, 5)
}

func TestOpponentEffectsNoOpInSolo(t *testing.T) {
	is := is.New(t)
	judge := testCard("CAT", cards.ReduceOpponent{Points: 10})
	st := newSolo(t, "CATXYZQ", judge)
	st, _ = st.SetCard(judge.InstanceID)
	st = place(t, st, 7, 2, false, "CAT")
	ns, err := st.Confirm(testDict())
	is.NoErr(err)
	is.Equal(ns.Mounted().Score, 12)
	is.Equal(ns.LastEvent.Detail, "no opponent")
}
