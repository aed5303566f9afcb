package cards

import "fmt"

// BonusFlat adds a flat number of points to the turn.
type BonusFlat struct{ Points float64 }

func (e BonusFlat) Kind() Kind              { return KindBonusFlat }
func (e BonusFlat) Target() Target          { return TargetSelf }
func (e BonusFlat) Scale(level int) float64 { return linear(e.Points, 0.25, level) }
func (e BonusFlat) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Points} }

func (e BonusFlat) Apply(ctx *Context, res *Result) {
	res.Bonus = roundInt(e.Scale(ctx.Level))
	res.Detail = fmt.Sprintf("+%d points", res.Bonus)
}

// SSR word multipliers cap their bonus points.
const (
	ssrMultiplierCap      = 40
	ssrMultiplierCapLevel = 10
)

// WordMultiplier multiplies the turn's word score.
type WordMultiplier struct{ Multiplier float64 }

func (e WordMultiplier) Kind() Kind              { return KindWordMultiplier }
func (e WordMultiplier) Target() Target          { return TargetSelf }
func (e WordMultiplier) Scale(level int) float64 { return increment(e.Multiplier, 0.25, level) }
func (e WordMultiplier) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Multiplier} }

func (e WordMultiplier) Apply(ctx *Context, res *Result) {
	m := e.Scale(ctx.Level)
	extra := roundInt(float64(ctx.TurnScore) * (m - 1))
	if ctx.Rarity == RaritySSR {
		extra = min(extra, ssrMultiplierCap+(ClampLevel(ctx.Level)-1)*ssrMultiplierCapLevel)
	}
	res.Bonus = max(extra, 0)
	res.Detail = fmt.Sprintf("x%.2f (+%d points)", m, res.Bonus)
}

// DrawNormal draws extra tiles into the rack, past its capacity if need be.
type DrawNormal struct{ Count int }

func (e DrawNormal) Kind() Kind     { return KindDrawNormal }
func (e DrawNormal) Target() Target { return TargetSelf }
func (e DrawNormal) Scale(level int) float64 {
	return float64(drawTable.scale(e.Count, level))
}
func (e DrawNormal) Spec() EffectSpec { return EffectSpec{Kind: e.Kind(), Value: float64(e.Count)} }

func (e DrawNormal) Apply(ctx *Context, res *Result) {
	n := ctx.Self.DrawTiles(roundInt(e.Scale(ctx.Level)))
	res.Detail = fmt.Sprintf("drew %d tiles", n)
}

// RecoverFree gives back used free-pool letters.
type RecoverFree struct{ Count int }

func (e RecoverFree) Kind() Kind     { return KindRecoverFree }
func (e RecoverFree) Target() Target { return TargetSelf }
func (e RecoverFree) Scale(level int) float64 {
	return float64(recoverTable.scale(e.Count, level))
}
func (e RecoverFree) Spec() EffectSpec { return EffectSpec{Kind: e.Kind(), Value: float64(e.Count)} }

func (e RecoverFree) Apply(ctx *Context, res *Result) {
	n := ctx.Self.RecoverFree(roundInt(e.Scale(ctx.Level)))
	res.Detail = fmt.Sprintf("recovered %d free letters", n)
}

// UpgradeBonus upgrades empty double squares on the board to triples.
type UpgradeBonus struct{ Count int }

func (e UpgradeBonus) Kind() Kind     { return KindUpgradeBonus }
func (e UpgradeBonus) Target() Target { return TargetBoard }
func (e UpgradeBonus) Scale(level int) float64 {
	return float64(upgradeTable.scale(e.Count, level))
}
func (e UpgradeBonus) Spec() EffectSpec { return EffectSpec{Kind: e.Kind(), Value: float64(e.Count)} }

func (e UpgradeBonus) Apply(ctx *Context, res *Result) {
	if ctx.Board == nil {
		res.Detail = "no board"
		return
	}
	n := ctx.Board.UpgradeBonuses(roundInt(e.Scale(ctx.Level)))
	res.Detail = fmt.Sprintf("upgraded %d bonus squares", n)
}

// NextTurnMult multiplies the caster's next turn total.
type NextTurnMult struct{ Multiplier float64 }

func (e NextTurnMult) Kind() Kind              { return KindNextTurnMult }
func (e NextTurnMult) Target() Target          { return TargetSelf }
func (e NextTurnMult) Scale(level int) float64 { return increment(e.Multiplier, 0.1, level) }
func (e NextTurnMult) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Multiplier} }

func (e NextTurnMult) Apply(ctx *Context, res *Result) {
	m := e.Scale(ctx.Level)
	ctx.Self.SetNextTurnMultiplier(m)
	res.NextTurnMultiplier = m
	res.Detail = fmt.Sprintf("next turn x%.2f", m)
}

// ReduceOpponent takes points away from the opponent.
type ReduceOpponent struct{ Points float64 }

func (e ReduceOpponent) Kind() Kind              { return KindReduceOpponent }
func (e ReduceOpponent) Target() Target          { return TargetOpponent }
func (e ReduceOpponent) Scale(level int) float64 { return linear(e.Points, 0.25, level) }
func (e ReduceOpponent) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Points} }

func (e ReduceOpponent) Apply(ctx *Context, res *Result) {
	n := min(roundInt(e.Scale(ctx.Level)), ctx.Opponent.Score())
	ctx.Opponent.AddScore(-n)
	res.Detail = fmt.Sprintf("opponent -%d points", n)
}

// ForceLetterCount makes the opponent's next play use exactly this many
// tiles. It does not scale.
type ForceLetterCount struct{ Count int }

func (e ForceLetterCount) Kind() Kind              { return KindForceLetterCount }
func (e ForceLetterCount) Target() Target          { return TargetOpponent }
func (e ForceLetterCount) Scale(level int) float64 { return float64(e.Count) }
func (e ForceLetterCount) Spec() EffectSpec {
	return EffectSpec{Kind: e.Kind(), Value: float64(e.Count)}
}

func (e ForceLetterCount) Apply(ctx *Context, res *Result) {
	ctx.Opponent.SetLetterLimit(e.Count)
	res.Detail = fmt.Sprintf("opponent must play exactly %d tiles", e.Count)
}

// PerLetterBonus scores extra points for every tile placed this turn.
type PerLetterBonus struct{ Points float64 }

func (e PerLetterBonus) Kind() Kind              { return KindPerLetterBonus }
func (e PerLetterBonus) Target() Target          { return TargetSelf }
func (e PerLetterBonus) Scale(level int) float64 { return linear(e.Points, 0.25, level) }
func (e PerLetterBonus) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Points} }

func (e PerLetterBonus) Apply(ctx *Context, res *Result) {
	res.Bonus = roundInt(e.Scale(ctx.Level) * float64(ctx.TilesPlaced))
	res.Detail = fmt.Sprintf("+%d points for %d tiles", res.Bonus, ctx.TilesPlaced)
}

// DrawSpecial draws extra special cards, up to the hand limit.
type DrawSpecial struct{ Count int }

func (e DrawSpecial) Kind() Kind     { return KindDrawSpecial }
func (e DrawSpecial) Target() Target { return TargetSelf }
func (e DrawSpecial) Scale(level int) float64 {
	return float64(specialTable.scale(e.Count, level))
}
func (e DrawSpecial) Spec() EffectSpec { return EffectSpec{Kind: e.Kind(), Value: float64(e.Count)} }

func (e DrawSpecial) Apply(ctx *Context, res *Result) {
	n := ctx.Self.DrawSpecials(roundInt(e.Scale(ctx.Level)))
	res.Detail = fmt.Sprintf("drew %d special cards", n)
}

// StealPoints moves points from the opponent to the caster.
type StealPoints struct{ Points float64 }

func (e StealPoints) Kind() Kind              { return KindStealPoints }
func (e StealPoints) Target() Target          { return TargetOpponent }
func (e StealPoints) Scale(level int) float64 { return linear(e.Points, 0.25, level) }
func (e StealPoints) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Points} }

func (e StealPoints) Apply(ctx *Context, res *Result) {
	n := min(roundInt(e.Scale(ctx.Level)), ctx.Opponent.Score())
	ctx.Opponent.AddScore(-n)
	ctx.Self.AddScore(n)
	res.Detail = fmt.Sprintf("stole %d points", n)
}

// Shield absorbs the next harmful effects aimed at the caster.
type Shield struct{ Stacks int }

func (e Shield) Kind() Kind              { return KindShield }
func (e Shield) Target() Target          { return TargetSelf }
func (e Shield) Scale(level int) float64 { return float64(shieldTable.scale(e.Stacks, level)) }
func (e Shield) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: float64(e.Stacks)} }

func (e Shield) Apply(ctx *Context, res *Result) {
	n := roundInt(e.Scale(ctx.Level))
	ctx.Self.AddShield(n)
	res.Detail = fmt.Sprintf("+%d shield", n)
}

// Poison damages the opponent at the end of each of their next turns.
type Poison struct {
	Damage float64
	Turns  int
}

func (e Poison) Kind() Kind              { return KindPoison }
func (e Poison) Target() Target          { return TargetOpponent }
func (e Poison) Scale(level int) float64 { return linear(e.Damage, 0.25, level) }
func (e Poison) Spec() EffectSpec {
	return EffectSpec{Kind: e.Kind(), Value: e.Damage, Turns: e.Turns}
}

// Duration returns how many turns the poison lasts at the given level.
func (e Poison) Duration(level int) int {
	return everyOtherLevel(e.Turns, level)
}

func (e Poison) Apply(ctx *Context, res *Result) {
	dmg, turns := roundInt(e.Scale(ctx.Level)), e.Duration(ctx.Level)
	ctx.Opponent.AddPoison(dmg, turns)
	res.Detail = fmt.Sprintf("poisoned for %d x %d turns", dmg, turns)
}

// Mirror reflects the next harmful effects back at their caster. It does
// not scale.
type Mirror struct{ Stacks int }

func (e Mirror) Kind() Kind              { return KindMirror }
func (e Mirror) Target() Target          { return TargetSelf }
func (e Mirror) Scale(level int) float64 { return float64(e.Stacks) }
func (e Mirror) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: float64(e.Stacks)} }

func (e Mirror) Apply(ctx *Context, res *Result) {
	ctx.Self.AddMirror(e.Stacks)
	res.Detail = fmt.Sprintf("+%d mirror", e.Stacks)
}

// HealHP restores HP in an HP battle.
type HealHP struct{ Amount float64 }

func (e HealHP) Kind() Kind              { return KindHealHP }
func (e HealHP) Target() Target          { return TargetSelf }
func (e HealHP) Scale(level int) float64 { return linear(e.Amount, 0.25, level) }
func (e HealHP) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Amount} }

func (e HealHP) Apply(ctx *Context, res *Result) {
	if !ctx.HPBattle {
		res.Detail = "no HP to heal"
		return
	}
	res.HPHealed = ctx.Self.Heal(roundInt(e.Scale(ctx.Level)))
	res.Detail = fmt.Sprintf("healed %d HP", res.HPHealed)
}

// DamageHP hits the opponent's HP directly. Outside HP battles it costs
// them points instead.
type DamageHP struct{ Amount float64 }

func (e DamageHP) Kind() Kind              { return KindDamageHP }
func (e DamageHP) Target() Target          { return TargetOpponent }
func (e DamageHP) Scale(level int) float64 { return linear(e.Amount, 0.25, level) }
func (e DamageHP) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: e.Amount} }

func (e DamageHP) Apply(ctx *Context, res *Result) {
	n := roundInt(e.Scale(ctx.Level))
	if !ctx.HPBattle {
		n = min(n, ctx.Opponent.Score())
		ctx.Opponent.AddScore(-n)
		res.Detail = fmt.Sprintf("opponent -%d points", n)
		return
	}
	res.DamageDealt = ctx.Opponent.Damage(n)
	res.Detail = fmt.Sprintf("dealt %d damage", res.DamageDealt)
}

// Cleanse removes poison from the caster.
type Cleanse struct{}

func (e Cleanse) Kind() Kind              { return KindCleanse }
func (e Cleanse) Target() Target          { return TargetSelf }
func (e Cleanse) Scale(level int) float64 { return 1 }
func (e Cleanse) Spec() EffectSpec        { return EffectSpec{Kind: e.Kind(), Value: 1} }

func (e Cleanse) Apply(ctx *Context, res *Result) {
	if ctx.Self.ClearPoison() {
		res.Detail = "poison cleansed"
		return
	}
	res.Detail = "nothing to cleanse"
}
