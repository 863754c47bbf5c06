package game

// PairKey identifies an unordered pair of item ids. Lo is always the lexically
// smaller id, so PairKey values can be compared directly.
type PairKey struct {
	Lo string
	Hi string
}

func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

func (k PairKey) String() string { return k.Lo + "|" + k.Hi }

// candidatePairs lists every unused unordered pair, walking items in catalog
// order so that a deterministic random source yields a deterministic draw.
func candidatePairs(order []string, used map[PairKey]struct{}) [][2]string {
	var out [][2]string
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if _, ok := used[NewPairKey(order[i], order[j])]; ok {
				continue
			}
			out = append(out, [2]string{order[i], order[j]})
		}
	}
	return out
}

// hasCandidate is candidatePairs without the allocation.
func hasCandidate(order []string, used map[PairKey]struct{}) bool {
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if _, ok := used[NewPairKey(order[i], order[j])]; !ok {
				return true
			}
		}
	}
	return false
}
