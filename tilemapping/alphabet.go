package tilemapping

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// A letter is internally represented by a byte. The 0 value represents an
// empty square on the board (or "no letter"). The letter A is represented
// by 1, B by 2, ... all the way to 26.
const (
	NumLetters = 26

	EmptyMachineLetter MachineLetter = 0
	// ASCIIEmpty is a user-friendly representation of an empty square,
	// used mostly for debug displays.
	ASCIIEmpty = '.'
)

// MachineLetter is a machine-only representation of a letter.
type MachineLetter byte

// MachineWord is a sequence of machine letters.
type MachineWord []MachineLetter

// FromRune converts a user-visible rune into a MachineLetter. Lowercase
// letters are accepted and treated as uppercase.
func FromRune(r rune) (MachineLetter, error) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return EmptyMachineLetter, fmt.Errorf("letter %q is not in the alphabet", r)
	}
	return MachineLetter(r-'A') + 1, nil
}

// IsValid returns true if ml is a real letter (A-Z).
func (ml MachineLetter) IsValid() bool {
	return ml >= 1 && ml <= NumLetters
}

// Rune returns the user-visible rune for this letter.
func (ml MachineLetter) Rune() rune {
	if !ml.IsValid() {
		return ASCIIEmpty
	}
	return rune(ml-1) + 'A'
}

func (ml MachineLetter) String() string {
	return string(ml.Rune())
}

// Idx returns the 0-based alphabet index (A=0). It is only meaningful for
// valid letters.
func (ml MachineLetter) Idx() int {
	return int(ml) - 1
}

// ToMachineWord creates a MachineWord from the given string.
func ToMachineWord(word string) (MachineWord, error) {
	mw := make(MachineWord, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		ml, err := FromRune(r)
		if err != nil {
			return nil, err
		}
		mw = append(mw, ml)
	}
	return mw, nil
}

// UserVisible turns the passed-in machine word into a user-visible string.
func (mw MachineWord) UserVisible() string {
	var sb strings.Builder
	sb.Grow(len(mw))
	for _, ml := range mw {
		sb.WriteRune(ml.Rune())
	}
	return sb.String()
}

func (mw MachineWord) String() string {
	return mw.UserVisible()
}

// Counts returns the multiset of letters in the word.
func (mw MachineWord) Counts() LetterCounts {
	var lc LetterCounts
	for _, ml := range mw {
		lc.Add(ml)
	}
	return lc
}

func (mw MachineWord) MarshalJSON() ([]byte, error) {
	return json.Marshal(mw.UserVisible())
}

func (mw *MachineWord) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	w, err := ToMachineWord(s)
	if err != nil {
		return err
	}
	*mw = w
	return nil
}

// LetterCounts is a letter multiset, indexed by MachineLetter.Idx().
type LetterCounts [NumLetters]int

func (lc *LetterCounts) Add(ml MachineLetter) {
	if ml.IsValid() {
		lc[ml.Idx()]++
	}
}

// Take removes one copy of ml and reports whether there was one to remove.
func (lc *LetterCounts) Take(ml MachineLetter) bool {
	if !ml.IsValid() || lc[ml.Idx()] == 0 {
		return false
	}
	lc[ml.Idx()]--
	return true
}

func (lc *LetterCounts) Has(ml MachineLetter) bool {
	return ml.IsValid() && lc[ml.Idx()] > 0
}

// Contains returns true if every letter of mw can be taken from lc.
func (lc LetterCounts) Contains(mw MachineWord) bool {
	for _, ml := range mw {
		if !lc.Take(ml) {
			return false
		}
	}
	return true
}

// Total returns the number of letters in the multiset.
func (lc LetterCounts) Total() int {
	t := 0
	for _, c := range lc {
		t += c
	}
	return t
}

func (ml MachineLetter) MarshalJSON() ([]byte, error) {
	if !ml.IsValid() {
		return json.Marshal("")
	}
	return json.Marshal(ml.String())
}

func (ml *MachineLetter) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ml = EmptyMachineLetter
		return nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return fmt.Errorf("bad letter %q", s)
	}
	l, err := FromRune(r[0])
	if err != nil {
		return err
	}
	*ml = l
	return nil
}
