package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/tilemapping"
)

// SideKind says who controls a side.
type SideKind string

const (
	SideHuman SideKind = "human"
	SideCPU   SideKind = "cpu"
)

// Poison is a pending damage-over-time status.
type Poison struct {
	Damage int `json:"damage"`
	Turns  int `json:"turns"`
}

// Side is one player's own state: everything that is not shared with the
// other side. Exactly one side is on turn at a time.
type Side struct {
	Name  string            `json:"name"`
	Kind  SideKind          `json:"kind"`
	Rack  *tilemapping.Rack `json:"rack"`
	Score int               `json:"score"`
	HP    int               `json:"hp"`

	FreePool tilemapping.FreePool `json:"free_pool"`

	SpecialDeck    []*cards.Card `json:"special_deck"`
	SpecialHand    []*cards.Card `json:"special_hand"`
	SpecialSet     string        `json:"special_set,omitempty"`
	UsedSpecialIDs []string      `json:"used_special_ids"`
	// LastSpecialCategory blocks setting a card of this category for the
	// side's next turn.
	LastSpecialCategory lexicon.Category `json:"last_special_category,omitempty"`
	NextTurnMultiplier  float64          `json:"next_turn_multiplier"`
	// LetterLimit, if nonzero, is the exact number of tiles the side's next
	// play must use.
	LetterLimit int `json:"letter_limit,omitempty"`

	Shield int    `json:"shield"`
	Mirror int    `json:"mirror"`
	Poison Poison `json:"poison"`

	SpellChecksLeft int      `json:"spell_checks_left"`
	WordHistory     []string `json:"word_history"`
}

// SideConfig describes a side at match start.
type SideConfig struct {
	Name string
	Kind SideKind
	Deck []*cards.Card
}

func (s *Side) copy() *Side {
	cp := *s
	cp.Rack = s.Rack.Copy()
	cp.SpecialDeck = append([]*cards.Card(nil), s.SpecialDeck...)
	cp.SpecialHand = append([]*cards.Card(nil), s.SpecialHand...)
	cp.UsedSpecialIDs = append([]string(nil), s.UsedSpecialIDs...)
	cp.WordHistory = append([]string(nil), s.WordHistory...)
	return &cp
}

// HandCard finds a card in the side's special hand.
func (s *Side) HandCard(instanceID string) *cards.Card {
	for _, c := range s.SpecialHand {
		if c.InstanceID == instanceID {
			return c
		}
	}
	return nil
}

// SetCard returns the currently set card, or nil.
func (s *Side) SetCard() *cards.Card {
	if s.SpecialSet == "" {
		return nil
	}
	return s.HandCard(s.SpecialSet)
}

func (s *Side) removeFromHand(instanceID string) {
	for i, c := range s.SpecialHand {
		if c.InstanceID == instanceID {
			s.SpecialHand = append(s.SpecialHand[:i:i], s.SpecialHand[i+1:]...)
			return
		}
	}
}

// drawSpecials moves up to n cards from the deck into the hand without
// going over the hand limit.
func (s *Side) drawSpecials(n, handLimit int) int {
	drawn := 0
	for drawn < n && len(s.SpecialHand) < handLimit && len(s.SpecialDeck) > 0 {
		s.SpecialHand = append(s.SpecialHand, s.SpecialDeck[0])
		s.SpecialDeck = s.SpecialDeck[1:]
		drawn++
	}
	return drawn
}

func (s *Side) stateString(myturn bool, hpBattle bool) string {
	onturn := ""
	if myturn {
		onturn = "-> "
	}
	rack := s.Rack.String()
	if !myturn {
		rack = ""
	}
	line := fmt.Sprintf("%4v%20v%9v %4v", onturn, s.Name, rack, s.Score)
	if hpBattle {
		line += fmt.Sprintf(" HP %d", s.HP)
	}
	return line
}

// sideView lets card effects reach a side and the shared parts of the
// state that belong to it (the bag, the hand limit, HP caps).
type sideView struct {
	st   *State
	side *Side
}

var _ cards.Side = sideView{}

func (v sideView) Score() int { return v.side.Score }

func (v sideView) AddScore(delta int) {
	v.side.Score = max(v.side.Score+delta, 0)
}

func (v sideView) DrawTiles(n int) int {
	drawn := v.st.Bag.DrawAtMost(n)
	v.side.Rack.Add(drawn...)
	return len(drawn)
}

func (v sideView) RecoverFree(n int) int {
	return v.side.FreePool.Recover(n)
}

func (v sideView) DrawSpecials(n int) int {
	return v.side.drawSpecials(n, v.st.Rules.SpecialHandSize)
}

func (v sideView) SetNextTurnMultiplier(m float64) {
	v.side.NextTurnMultiplier = m
}

func (v sideView) SetLetterLimit(n int) {
	v.side.LetterLimit = n
}

func (v sideView) AddShield(n int) { v.side.Shield += n }

func (v sideView) ConsumeShield() bool {
	if v.side.Shield <= 0 {
		return false
	}
	v.side.Shield--
	return true
}

func (v sideView) AddMirror(n int) { v.side.Mirror += n }

func (v sideView) ConsumeMirror() bool {
	if v.side.Mirror <= 0 {
		return false
	}
	v.side.Mirror--
	return true
}

// AddPoison replaces any running poison with the stronger of the two.
func (v sideView) AddPoison(damage, turns int) {
	p := &v.side.Poison
	p.Damage = max(p.Damage, damage)
	p.Turns = max(p.Turns, turns)
}

func (v sideView) ClearPoison() bool {
	had := v.side.Poison.Turns > 0
	v.side.Poison = Poison{}
	return had
}

func (v sideView) Heal(n int) int {
	healed := max(min(n, v.st.Rules.MaxHP-v.side.HP), 0)
	v.side.HP += healed
	return healed
}

func (v sideView) Damage(n int) int {
	dmg := max(min(n, v.side.HP), 0)
	v.side.HP -= dmg
	return dmg
}

// tickPoison applies one turn of poison to the side. In HP battles poison
// hurts HP; otherwise it costs points.
func (v sideView) tickPoison() int {
	p := &v.side.Poison
	if p.Turns <= 0 {
		return 0
	}
	var dealt int
	if v.st.Rules.BattleType == BattleHP && v.st.IsBattle() {
		dealt = v.Damage(p.Damage)
	} else {
		dealt = min(p.Damage, v.side.Score)
		v.AddScore(-dealt)
	}
	p.Turns--
	if p.Turns == 0 {
		p.Damage = 0
	}
	log.Debug().Str("side", v.side.Name).Int("dealt", dealt).Int("turns-left", p.Turns).Msg("poison-tick")
	return dealt
}
