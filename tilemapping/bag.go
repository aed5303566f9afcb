package tilemapping

import (
	"encoding/json"
	"fmt"

	"lukechampine.com/frand"
)

// A Bag is the bag o'tiles! Order matters: tiles are drawn from the tail.
type Bag struct {
	tiles []MachineLetter
}

// NewBag makes a bag holding a copy of the given tiles, in order.
func NewBag(tiles []MachineLetter) *Bag {
	t := make([]MachineLetter, len(tiles))
	copy(t, tiles)
	return &Bag{tiles: t}
}

// Shuffle shuffles the bag in place.
func (b *Bag) Shuffle(rng *frand.RNG) {
	swap := func(i, j int) { b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i] }
	if rng == nil {
		frand.Shuffle(len(b.tiles), swap)
		return
	}
	rng.Shuffle(len(b.tiles), swap)
}

// Draw draws n tiles from the end of the bag.
func (b *Bag) Draw(n int) ([]MachineLetter, error) {
	if n > len(b.tiles) {
		return nil, fmt.Errorf("tried to draw %v tiles, tile bag has %v",
			n, len(b.tiles))
	}
	return b.pop(n), nil
}

// DrawAtMost draws at most n tiles from the bag. It can draw fewer if there
// are fewer tiles than n, and even draw no tiles at all :o
func (b *Bag) DrawAtMost(n int) []MachineLetter {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	return b.pop(n)
}

func (b *Bag) pop(n int) []MachineLetter {
	if n <= 0 {
		return nil
	}
	drawn := make([]MachineLetter, n)
	// The last tile in the bag is drawn first.
	for i := 0; i < n; i++ {
		drawn[i] = b.tiles[len(b.tiles)-1-i]
	}
	b.tiles = b.tiles[:len(b.tiles)-n]
	return drawn
}

// TilesRemaining returns the number of tiles left in the bag.
func (b *Bag) TilesRemaining() int {
	return len(b.tiles)
}

// Tiles returns a copy of the bag contents in draw order (last drawn first).
func (b *Bag) Tiles() []MachineLetter {
	t := make([]MachineLetter, len(b.tiles))
	copy(t, b.tiles)
	return t
}

// Copy copies to a new bag and returns it.
func (b *Bag) Copy() *Bag {
	return NewBag(b.tiles)
}

func (b *Bag) MarshalJSON() ([]byte, error) {
	return json.Marshal(MachineWord(b.tiles).UserVisible())
}

func (b *Bag) UnmarshalJSON(data []byte) error {
	var mw MachineWord
	if err := mw.UnmarshalJSON(data); err != nil {
		return err
	}
	b.tiles = mw
	return nil
}
