package tilemapping

import (
	"fmt"
	"strings"

	"lukechampine.com/frand"
)

// LetterDistribution encodes the tile distribution for the relevant game.
// Letter values are not part of the distribution; a tile's worth depends
// only on where it came from (see move.TileSource).
type LetterDistribution struct {
	Name         string
	distribution [NumLetters]uint8
	numLetters   int
}

// NewLetterDistribution creates a distribution from a map of letter counts.
func NewLetterDistribution(name string, counts map[rune]int) (*LetterDistribution, error) {
	ld := &LetterDistribution{Name: name}
	for r, n := range counts {
		ml, err := FromRune(r)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("bad count %d for letter %c", n, r)
		}
		ld.distribution[ml.Idx()] = uint8(n)
		ld.numLetters += n
	}
	return ld, nil
}

// EnglishLetterDistribution returns the English letter distribution.
func EnglishLetterDistribution() *LetterDistribution {
	ld, err := NewLetterDistribution("english", map[rune]int{
		'A': 9, 'B': 2, 'C': 2, 'D': 4, 'E': 12, 'F': 2, 'G': 3, 'H': 2,
		'I': 9, 'J': 1, 'K': 1, 'L': 4, 'M': 2, 'N': 6, 'O': 8, 'P': 2,
		'Q': 1, 'R': 6, 'S': 4, 'T': 6, 'U': 4, 'V': 2, 'W': 2, 'X': 1,
		'Y': 2, 'Z': 1,
	})
	if err != nil {
		panic(err)
	}
	return ld
}

// NumTotalLetters returns the total number of tiles in this distribution.
func (ld *LetterDistribution) NumTotalLetters() int {
	return ld.numLetters
}

// Count returns how many tiles of the given letter exist.
func (ld *LetterDistribution) Count(ml MachineLetter) int {
	if !ml.IsValid() {
		return 0
	}
	return int(ld.distribution[ml.Idx()])
}

// MakeBag returns a bag of tiles, shuffled once with the given source. If
// rng is nil the global frand generator is used.
func (ld *LetterDistribution) MakeBag(rng *frand.RNG) *Bag {
	tiles := make([]MachineLetter, 0, ld.numLetters)
	for i, n := range ld.distribution {
		for j := 0; j < int(n); j++ {
			tiles = append(tiles, MachineLetter(i+1))
		}
	}
	b := NewBag(tiles)
	b.Shuffle(rng)
	return b
}

func (ld *LetterDistribution) String() string {
	var sb strings.Builder
	sb.WriteString(ld.Name)
	sb.WriteString(": ")
	for i, n := range ld.distribution {
		fmt.Fprintf(&sb, "%c%d ", rune('A'+i), n)
	}
	return strings.TrimSpace(sb.String())
}
