package cards

import "math"

const (
	// MinLevel and MaxLevel bound a card's level.
	MinLevel = 1
	MaxLevel = 5
)

// ClampLevel forces a level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return min(max(level, MinLevel), MaxLevel)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// linear grows the base value by step (a fraction of base) per level.
func linear(base, step float64, level int) float64 {
	return round2(base * (1 + step*float64(ClampLevel(level)-1)))
}

// increment adds a fixed amount per level; used for multipliers.
func increment(base, inc float64, level int) float64 {
	return round2(base + inc*float64(ClampLevel(level)-1))
}

// small integer counts grow through a lookup table indexed by level-1.
type countTable [MaxLevel]int

var (
	drawTable    = countTable{0, 0, 1, 1, 2}
	recoverTable = countTable{0, 1, 1, 2, 2}
	upgradeTable = countTable{0, 0, 1, 1, 2}
	specialTable = countTable{0, 0, 0, 1, 1}
	shieldTable  = countTable{0, 0, 1, 1, 2}
)

func (t countTable) scale(base int, level int) int {
	return base + t[ClampLevel(level)-1]
}

// everyOtherLevel adds one turn of duration at levels 3 and 5.
func everyOtherLevel(base int, level int) int {
	return base + (ClampLevel(level)-1)/2
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
