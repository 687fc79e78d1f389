package trainer

// SelectPair picks the pair with the highest count. Ties go to the pair
// whose concatenation Left+Right is lexicographically smallest; this is
// not the same as comparing (Left, Right) element-wise. Two pairs with the
// same concatenation are ordered by Left. ok is false when counts is empty.
func SelectPair(counts PairCounts) (best Pair, count int64, ok bool) {
	var bestJoined string
	for p, n := range counts {
		joined := p.Left + p.Right
		if !ok || n > count || (n == count && less(joined, p.Left, bestJoined, best.Left)) {
			best, count, bestJoined, ok = p, n, joined, true
		}
	}
	return best, count, ok
}

func less(joined, left, otherJoined, otherLeft string) bool {
	if joined != otherJoined {
		return joined < otherJoined
	}
	return left < otherLeft
}
