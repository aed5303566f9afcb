package cards

import (
	"fmt"
	"sort"
)

// Kind names an effect variant. The names are the ones used in catalogue
// files.
type Kind string

const (
	KindBonusFlat        Kind = "bonus_flat"
	KindWordMultiplier   Kind = "word_multiplier"
	KindDrawNormal       Kind = "draw_normal"
	KindRecoverFree      Kind = "recover_free"
	KindUpgradeBonus     Kind = "upgrade_bonus"
	KindNextTurnMult     Kind = "next_turn_mult"
	KindReduceOpponent   Kind = "reduce_opponent"
	KindForceLetterCount Kind = "force_letter_count"
	KindPerLetterBonus   Kind = "per_letter_bonus"
	KindDrawSpecial      Kind = "draw_special"
	KindStealPoints      Kind = "steal_points"
	KindShield           Kind = "shield"
	KindPoison           Kind = "poison"
	KindMirror           Kind = "mirror"
	KindHealHP           Kind = "heal_hp"
	KindDamageHP         Kind = "damage_hp"
	KindCleanse          Kind = "cleanse"
)

// Target says who an effect lands on.
type Target uint8

const (
	TargetSelf Target = iota
	TargetOpponent
	TargetBoard
)

// Side is the part of a player's state that effects can touch.
type Side interface {
	Score() int
	// AddScore changes the side's score. Scores do not go below zero.
	AddScore(delta int)
	// DrawTiles draws up to n tiles from the bag into the rack and
	// returns how many were drawn.
	DrawTiles(n int) int
	RecoverFree(n int) int
	DrawSpecials(n int) int
	SetNextTurnMultiplier(m float64)
	SetLetterLimit(n int)
	AddShield(n int)
	ConsumeShield() bool
	AddMirror(n int)
	ConsumeMirror() bool
	AddPoison(damage, turns int)
	ClearPoison() bool
	// Heal and Damage change HP and return the amount actually changed.
	Heal(n int) int
	Damage(n int) int
}

// BonusUpgrader is implemented by the board.
type BonusUpgrader interface {
	UpgradeBonuses(n int) int
}

// Context is everything an effect needs to apply itself. Self is the side
// the effect is applied for; Opponent is nil in solo play.
type Context struct {
	Level       int
	Rarity      Rarity
	TurnScore   int
	TilesPlaced int
	HPBattle    bool
	Self        Side
	Opponent    Side
	Board       BonusUpgrader
}

// Result describes what an activation did.
type Result struct {
	Kind        Kind    `json:"kind"`
	Magnitude   float64 `json:"magnitude"`
	Bonus       int     `json:"bonus"`
	Blocked     bool    `json:"blocked,omitempty"`
	Reflected   bool    `json:"reflected,omitempty"`
	HPHealed    int     `json:"hp_healed,omitempty"`
	DamageDealt int     `json:"damage_dealt,omitempty"`
	// NextTurnMultiplier is set when the effect changes the next turn's
	// multiplier. It has to be applied after the commit resets it.
	NextTurnMultiplier float64 `json:"next_turn_multiplier,omitempty"`
	Detail             string  `json:"detail"`
}

// Effect is one special-card effect variant. Each variant carries only the
// fields it needs and knows its own scaling law.
type Effect interface {
	Kind() Kind
	Target() Target
	// Scale returns the effect's magnitude at the given level. It never
	// decreases as the level goes up.
	Scale(level int) float64
	// Apply applies the effect to ctx and records what happened in res.
	Apply(ctx *Context, res *Result)
	Spec() EffectSpec
}

// EffectSpec is the serialized form of an effect.
type EffectSpec struct {
	Kind  Kind    `yaml:"kind" json:"kind"`
	Value float64 `yaml:"value" json:"value"`
	Turns int     `yaml:"turns,omitempty" json:"turns,omitempty"`
}

var effectTable = map[Kind]func(EffectSpec) Effect{
	KindBonusFlat:        func(s EffectSpec) Effect { return BonusFlat{Points: s.Value} },
	KindWordMultiplier:   func(s EffectSpec) Effect { return WordMultiplier{Multiplier: s.Value} },
	KindDrawNormal:       func(s EffectSpec) Effect { return DrawNormal{Count: roundInt(s.Value)} },
	KindRecoverFree:      func(s EffectSpec) Effect { return RecoverFree{Count: roundInt(s.Value)} },
	KindUpgradeBonus:     func(s EffectSpec) Effect { return UpgradeBonus{Count: roundInt(s.Value)} },
	KindNextTurnMult:     func(s EffectSpec) Effect { return NextTurnMult{Multiplier: s.Value} },
	KindReduceOpponent:   func(s EffectSpec) Effect { return ReduceOpponent{Points: s.Value} },
	KindForceLetterCount: func(s EffectSpec) Effect { return ForceLetterCount{Count: roundInt(s.Value)} },
	KindPerLetterBonus:   func(s EffectSpec) Effect { return PerLetterBonus{Points: s.Value} },
	KindDrawSpecial:      func(s EffectSpec) Effect { return DrawSpecial{Count: roundInt(s.Value)} },
	KindStealPoints:      func(s EffectSpec) Effect { return StealPoints{Points: s.Value} },
	KindShield:           func(s EffectSpec) Effect { return Shield{Stacks: roundInt(s.Value)} },
	KindPoison: func(s EffectSpec) Effect {
		turns := s.Turns
		if turns <= 0 {
			turns = 2
		}
		return Poison{Damage: s.Value, Turns: turns}
	},
	KindMirror:   func(s EffectSpec) Effect { return Mirror{Stacks: max(roundInt(s.Value), 1)} },
	KindHealHP:   func(s EffectSpec) Effect { return HealHP{Amount: s.Value} },
	KindDamageHP: func(s EffectSpec) Effect { return DamageHP{Amount: s.Value} },
	KindCleanse:  func(s EffectSpec) Effect { return Cleanse{} },
}

// Kinds returns every known effect kind, sorted.
func Kinds() []Kind {
	ks := make([]Kind, 0, len(effectTable))
	for k := range effectTable {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

// NewEffect builds an effect from its serialized form.
func NewEffect(spec EffectSpec) (Effect, error) {
	mk, ok := effectTable[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown effect kind %q", spec.Kind)
	}
	if spec.Value < 0 {
		return nil, fmt.Errorf("effect %s has negative value %v", spec.Kind, spec.Value)
	}
	return mk(spec), nil
}

// Resolve applies an effect at the given level. Effects aimed at the
// opponent are no-ops without one; otherwise a shield stack blocks the
// effect, or failing that a mirror stack turns it back on the caster.
func Resolve(e Effect, ctx Context) Result {
	res := Result{Kind: e.Kind(), Magnitude: e.Scale(ctx.Level)}
	if e.Target() == TargetOpponent {
		switch {
		case ctx.Opponent == nil:
			res.Detail = "no opponent"
			return res
		case ctx.Opponent.ConsumeShield():
			res.Blocked = true
			res.Detail = "blocked by shield"
			return res
		case ctx.Opponent.ConsumeMirror():
			res.Reflected = true
			ctx.Self, ctx.Opponent = ctx.Opponent, ctx.Self
		}
	}
	e.Apply(&ctx, &res)
	if res.Reflected {
		res.Detail = "reflected: " + res.Detail
	}
	return res
}
