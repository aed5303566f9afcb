package tilemapping

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Rack is an ordered hand of regular tiles. Unlike a multiset rack, slot
// order is kept so that placements can refer to a rack index.
type Rack struct {
	tiles []MachineLetter
}

// NewRack makes a rack holding a copy of the given tiles.
func NewRack(tiles []MachineLetter) *Rack {
	t := make([]MachineLetter, len(tiles))
	copy(t, tiles)
	return &Rack{tiles: t}
}

// RackFromString creates a rack from a string like "CATSXYZ".
func RackFromString(s string) (*Rack, error) {
	mw, err := ToMachineWord(s)
	if err != nil {
		return nil, err
	}
	return &Rack{tiles: mw}, nil
}

func (r *Rack) Len() int {
	return len(r.tiles)
}

// At returns the tile in slot i.
func (r *Rack) At(i int) MachineLetter {
	return r.tiles[i]
}

// Tiles returns a copy of the tiles on the rack.
func (r *Rack) Tiles() []MachineLetter {
	t := make([]MachineLetter, len(r.tiles))
	copy(t, r.tiles)
	return t
}

func (r *Rack) String() string {
	return MachineWord(r.tiles).UserVisible()
}

// Counts returns the rack as a letter multiset.
func (r *Rack) Counts() LetterCounts {
	return MachineWord(r.tiles).Counts()
}

// Copy returns a deep copy of the rack.
func (r *Rack) Copy() *Rack {
	return NewRack(r.tiles)
}

// Add appends tiles to the rack. No capacity check is done here; some card
// effects can push a rack past its nominal capacity.
func (r *Rack) Add(tiles ...MachineLetter) {
	r.tiles = append(r.tiles, tiles...)
}

// RemoveIndices removes the tiles in the given slots. Remaining tiles keep
// their relative order.
func (r *Rack) RemoveIndices(idxs []int) error {
	remove := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		if i < 0 || i >= len(r.tiles) {
			return fmt.Errorf("rack index %d out of range (rack has %d tiles)", i, len(r.tiles))
		}
		remove[i] = true
	}
	kept := r.tiles[:0:0]
	for i, t := range r.tiles {
		if !remove[i] {
			kept = append(kept, t)
		}
	}
	r.tiles = kept
	return nil
}

// Take removes the first copy of ml from the rack. It returns false if the
// rack holds no such tile.
func (r *Rack) Take(ml MachineLetter) bool {
	for i, t := range r.tiles {
		if t == ml {
			r.tiles = append(r.tiles[:i:i], r.tiles[i+1:]...)
			return true
		}
	}
	return false
}

// Fill draws from the bag until the rack holds capacity tiles or the bag
// runs dry. It returns the number of tiles drawn.
func (r *Rack) Fill(bag *Bag, capacity int) int {
	need := capacity - len(r.tiles)
	if need <= 0 {
		return 0
	}
	drawn := bag.DrawAtMost(need)
	r.tiles = append(r.tiles, drawn...)
	return len(drawn)
}

// Sorted returns the rack letters in alphabetical order, for display.
func (r *Rack) Sorted() string {
	t := r.Tiles()
	sort.Slice(t, func(i, j int) bool { return t[i] < t[j] })
	return MachineWord(t).UserVisible()
}

func (r *Rack) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rack) UnmarshalJSON(data []byte) error {
	var mw MachineWord
	if err := mw.UnmarshalJSON(data); err != nil {
		return err
	}
	r.tiles = mw
	return nil
}
