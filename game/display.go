package game

import (
	"fmt"
	"strings"

	"github.com/domino14/lexicard/tilemapping"
)

// ToDisplayText renders the board, the sides and the latest history for a
// terminal.
func (st *State) ToDisplayText() string {
	var b strings.Builder
	b.WriteString(st.Board.ToDisplayText())
	hp := st.IsBattle() && st.Rules.BattleType == BattleHP
	for i, s := range st.Sides {
		b.WriteString(s.stateString(i == st.OnTurn, hp))
		b.WriteString("\n")
	}
	side := st.Mounted()
	fmt.Fprintf(&b, "Turn %d/%d  Bag: %d  Category: %s\n", st.Turn+1, st.TurnLimit(),
		st.Bag.TilesRemaining(), st.Rules.Category)
	if len(side.SpecialHand) > 0 {
		b.WriteString("Cards:")
		for _, c := range side.SpecialHand {
			mark := ""
			if c.InstanceID == side.SpecialSet {
				mark = "*"
			}
			fmt.Fprintf(&b, " %s%s(%s)", mark, c, c.InstanceID)
		}
		b.WriteString("\n")
	}
	var free []string
	for ml := tilemapping.MachineLetter(1); ml <= tilemapping.NumLetters; ml++ {
		if n := side.FreePool.Remaining(ml, st.Rules.FreeUsesPerLetter); n > 0 {
			free = append(free, fmt.Sprintf("%s%d", ml, n))
		}
	}
	fmt.Fprintf(&b, "Free: %s\n", strings.Join(free, " "))
	var status []string
	if side.NextTurnMultiplier > 1 {
		status = append(status, fmt.Sprintf("next x%.2f", side.NextTurnMultiplier))
	}
	if side.LetterLimit > 0 {
		status = append(status, fmt.Sprintf("must play %d tiles", side.LetterLimit))
	}
	if side.Shield > 0 {
		status = append(status, fmt.Sprintf("shield %d", side.Shield))
	}
	if side.Mirror > 0 {
		status = append(status, fmt.Sprintf("mirror %d", side.Mirror))
	}
	if side.Poison.Turns > 0 {
		status = append(status, fmt.Sprintf("poison %d for %d", side.Poison.Damage, side.Poison.Turns))
	}
	if side.LastSpecialCategory != "" {
		status = append(status, "guard "+string(side.LastSpecialCategory))
	}
	if len(status) > 0 {
		b.WriteString("Status: " + strings.Join(status, ", ") + "\n")
	}
	if n := len(st.History); n > 0 {
		b.WriteString(st.History[n-1].String() + "\n")
	}
	if st.Finished {
		b.WriteString("Game over.")
		if st.IsBattle() {
			if st.Winner >= 0 {
				fmt.Fprintf(&b, " %s wins.", st.Sides[st.Winner].Name)
			} else {
				b.WriteString(" Tie.")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
