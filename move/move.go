package move

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/domino14/lexicard/tilemapping"
)

// TileSource records where a tile came from. The source fixes the tile's
// base value for the rest of the match.
type TileSource uint8

const (
	// SourceNormal is a tile from the regular rack.
	SourceNormal TileSource = iota
	// SourceSpecial is a tile granted by a special card.
	SourceSpecial
	// SourceFree is a wildcard tile conjured from the free pool.
	SourceFree
)

var sourceNames = map[TileSource]string{
	SourceNormal:  "normal",
	SourceSpecial: "special",
	SourceFree:    "free",
}

// BaseValue returns the point value of a tile with this source.
func (s TileSource) BaseValue() int {
	switch s {
	case SourceSpecial:
		return 2
	case SourceFree:
		return 1
	default:
		return 3
	}
}

func (s TileSource) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s TileSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TileSource) UnmarshalJSON(data []byte) error {
	var n string
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	for k, v := range sourceNames {
		if v == n {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown tile source %q", n)
}

// NoRackIndex marks a placement that did not come from a rack slot.
const NoRackIndex = -1

// Placement is a tentative assignment of a letter to a square during the
// current turn.
type Placement struct {
	Row       int                       `json:"row"`
	Col       int                       `json:"col"`
	Letter    tilemapping.MachineLetter `json:"letter"`
	RackIndex int                       `json:"rack_index"`
	Source    TileSource                `json:"source"`
}

func (p Placement) String() string {
	return fmt.Sprintf("%s@%s", p.Letter, ToBoardGameCoords(p.Row, p.Col, false))
}

// WordScore is one line of a scoring breakdown.
type WordScore struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// Candidate is a computed play: its placements, its score, and the words
// it would form. Candidates are produced by the CPU search and never
// stored.
type Candidate struct {
	Placements []Placement `json:"placements"`
	Score      int         `json:"score"`
	Words      []WordScore `json:"words"`
	Row        int         `json:"row"`
	Col        int         `json:"col"`
	Vertical   bool        `json:"vertical"`
	Word       string      `json:"word"`
}

// TilesPlayed returns how many new tiles the candidate places.
func (c *Candidate) TilesPlayed() int {
	return len(c.Placements)
}

// ShortDescription returns a description like "8D CAT (12)".
func (c *Candidate) ShortDescription() string {
	return fmt.Sprintf("%s %s (%d)", ToBoardGameCoords(c.Row, c.Col, c.Vertical),
		c.Word, c.Score)
}

func (c *Candidate) String() string {
	words := make([]string, len(c.Words))
	for i, w := range c.Words {
		words[i] = fmt.Sprintf("%s:%d", w.Word, w.Score)
	}
	return fmt.Sprintf("<candidate %s tp: %d words: [%s]>", c.ShortDescription(),
		c.TilesPlayed(), strings.Join(words, " "))
}

var reVertical, reHorizontal *regexp.Regexp

func init() {
	reVertical = regexp.MustCompile(`^(?P<col>[A-Z])(?P<row>[0-9]+)$`)
	reHorizontal = regexp.MustCompile(`^(?P<row>[0-9]+)(?P<col>[A-Z])$`)
}

// ToBoardGameCoords gives the traditional coordinates: row number first
// for horizontal plays, column letter first for vertical ones.
func ToBoardGameCoords(row int, col int, vertical bool) string {
	colCoords := string(rune('A' + col))
	rowCoords := strconv.Itoa(row + 1)
	if vertical {
		return colCoords + rowCoords
	}
	return rowCoords + colCoords
}

// FromBoardGameCoords does the inverse of ToBoardGameCoords. The last
// return value is false if the coordinates could not be parsed.
func FromBoardGameCoords(c string) (int, int, bool, bool) {
	c = strings.ToUpper(c)
	if m := reVertical.FindStringSubmatch(c); len(m) == 3 {
		row, _ := strconv.Atoi(m[2])
		return row - 1, int(m[1][0] - 'A'), true, true
	}
	if m := reHorizontal.FindStringSubmatch(c); len(m) == 3 {
		row, _ := strconv.Atoi(m[1])
		return row - 1, int(m[2][0] - 'A'), false, true
	}
	return 0, 0, false, false
}
