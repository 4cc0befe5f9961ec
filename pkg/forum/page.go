package forum

// window bounds a list query to [from, min(from+limit, n)). An
// out-of-range from yields an empty window, never an error.
func window(from, limit, n uint64) (lo, hi uint64) {
	hi = from + limit
	if hi < from || hi > n {
		// clamp, guarding against from+limit overflow
		hi = n
	}
	if from >= hi {
		return 0, 0
	}
	return from, hi
}

// reverseWindow yields the absolute indices of the window from highest
// to lowest. Thread, people and in-thread post listings use it so the
// most recently inserted entries come first.
func reverseWindow(from, limit, n uint64, fn func(i uint64)) {
	lo, hi := window(from, limit, n)
	for i := hi; i > lo; i-- {
		fn(i - 1)
	}
}

// forwardWindow yields the window indices in ascending order. Only the
// friend-request listing uses it; the per-query direction asymmetry is
// part of the protocol.
func forwardWindow(from, limit, n uint64, fn func(i uint64)) {
	lo, hi := window(from, limit, n)
	for i := lo; i < hi; i++ {
		fn(i)
	}
}
