package tilemapping

import (
	"testing"

	"github.com/matryer/is"
)

func TestFromRune(t *testing.T) {
	is := is.New(t)
	ml, err := FromRune('c')
	is.NoErr(err)
	is.Equal(ml, MachineLetter(3))
	is.Equal(ml.String(), "C")

	_, err = FromRune('?')
	is.True(err != nil)
}

func TestMachineWord(t *testing.T) {
	is := is.New(t)
	mw, err := ToMachineWord("Zebra")
	is.NoErr(err)
	is.Equal(mw.UserVisible(), "ZEBRA")
	is.Equal(len(mw), 5)

	_, err = ToMachineWord("NO PE")
	is.True(err != nil)
}

func TestLetterCountsContains(t *testing.T) {
	is := is.New(t)
	rack, _ := ToMachineWord("AETRSTX")
	lc := rack.Counts()
	for _, tc := range []struct {
		word     string
		contains bool
	}{
		{"STAR", true},
		{"TEST", false},
		{"TATS", true},
		{"TATTS", false},
		{"", true},
	} {
		w, _ := ToMachineWord(tc.word)
		is.Equal(lc.Contains(w), tc.contains)
	}
	// Contains works on a copy.
	is.Equal(lc.Total(), 7)
}
