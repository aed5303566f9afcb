package tilemapping

// FreePool counts how many times each letter has been conjured as a free
// (wildcard) tile. It is independent of the bag.
type FreePool [NumLetters]int

// Use records one free use of ml if the per-letter cap allows it.
func (fp *FreePool) Use(ml MachineLetter, limit int) bool {
	if !ml.IsValid() || fp[ml.Idx()] >= limit {
		return false
	}
	fp[ml.Idx()]++
	return true
}

// Refund gives back one use of ml.
func (fp *FreePool) Refund(ml MachineLetter) {
	if ml.IsValid() && fp[ml.Idx()] > 0 {
		fp[ml.Idx()]--
	}
}

func (fp *FreePool) Used(ml MachineLetter) int {
	if !ml.IsValid() {
		return 0
	}
	return fp[ml.Idx()]
}

// Recover refunds one use each for up to n letters that have been used,
// going from A to Z. It returns how many uses were refunded.
func (fp *FreePool) Recover(n int) int {
	recovered := 0
	for i := range fp {
		if recovered >= n {
			break
		}
		if fp[i] > 0 {
			fp[i]--
			recovered++
		}
	}
	return recovered
}

// Remaining returns how many uses of ml are left under the cap.
func (fp *FreePool) Remaining(ml MachineLetter, limit int) int {
	if !ml.IsValid() {
		return 0
	}
	return max(limit-fp[ml.Idx()], 0)
}
