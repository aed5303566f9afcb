package move

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestBaseValues(t *testing.T) {
	is := is.New(t)
	is.Equal(SourceNormal.BaseValue(), 3)
	is.Equal(SourceSpecial.BaseValue(), 2)
	is.Equal(SourceFree.BaseValue(), 1)
	is.True(SourceNormal.BaseValue() > SourceSpecial.BaseValue())
	is.True(SourceSpecial.BaseValue() > SourceFree.BaseValue())
}

func TestCoords(t *testing.T) {
	is := is.New(t)
	is.Equal(ToBoardGameCoords(7, 3, false), "8D")
	is.Equal(ToBoardGameCoords(7, 3, true), "D8")

	row, col, vertical, ok := FromBoardGameCoords("8d")
	is.True(ok)
	is.Equal(row, 7)
	is.Equal(col, 3)
	is.True(!vertical)

	row, col, vertical, ok = FromBoardGameCoords("O15")
	is.True(ok)
	is.Equal(row, 14)
	is.Equal(col, 14)
	is.True(vertical)

	_, _, _, ok = FromBoardGameCoords("nope")
	is.True(!ok)
}

func TestPlacementJSON(t *testing.T) {
	is := is.New(t)
	p := Placement{Row: 1, Col: 2, Letter: 3, RackIndex: NoRackIndex, Source: SourceFree}
	bts, err := json.Marshal(p)
	is.NoErr(err)
	is.Equal(string(bts), `{"row":1,"col":2,"letter":"C","rack_index":-1,"source":"free"}`)
}
