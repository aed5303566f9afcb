package game

import (
	"fmt"
	"strings"

	"github.com/domino14/lexicard/move"
)

// TurnEntry records one completed turn.
type TurnEntry struct {
	Turn            int              `json:"turn"`
	Player          string           `json:"player"`
	Words           []move.WordScore `json:"words,omitempty"`
	Tiles           int              `json:"tiles,omitempty"`
	BaseScore       int              `json:"base_score"`
	SpecialCard     string           `json:"special_card,omitempty"`
	SpecialEffect   string           `json:"special_effect,omitempty"`
	SpecialBonus    int              `json:"special_bonus,omitempty"`
	Multiplier      float64          `json:"multiplier"`
	TotalScore      int              `json:"total_score"`
	CumulativeScore int              `json:"cumulative_score"`
	DamageDealt     int              `json:"damage_dealt,omitempty"`
	HPHealed        int              `json:"hp_healed,omitempty"`
	PoisonDamage    int              `json:"poison_damage,omitempty"`
	Passed          bool             `json:"passed,omitempty"`
	TimedOut        bool             `json:"timed_out,omitempty"`
}

func (e TurnEntry) String() string {
	if e.Passed {
		reason := "pass"
		if e.TimedOut {
			reason = "time out"
		}
		return fmt.Sprintf("%2d %-12s (%s) %d", e.Turn, e.Player, reason, e.CumulativeScore)
	}
	words := make([]string, len(e.Words))
	for i, w := range e.Words {
		words[i] = fmt.Sprintf("%s %d", w.Word, w.Score)
	}
	s := fmt.Sprintf("%2d %-12s %s +%d %d", e.Turn, e.Player, strings.Join(words, ", "),
		e.TotalScore, e.CumulativeScore)
	if e.SpecialCard != "" {
		s += fmt.Sprintf(" [%s: %s]", e.SpecialCard, e.SpecialEffect)
	}
	if e.Multiplier > 1 {
		s += fmt.Sprintf(" x%.2f", e.Multiplier)
	}
	return s
}
