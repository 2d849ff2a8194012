package workflow

// ProgressIncrement converts pages of approved work into a percentage of the
// whole. A zero denominator contributes nothing instead of failing the
// operation.
func ProgressIncrement(pagesDone, totalPages int) float64 {
	if totalPages == 0 {
		return 0
	}
	return float64(pagesDone) / float64(totalPages) * 100
}

// CappedAdd accumulates progress without ever exceeding 100.
func CappedAdd(current, delta float64) float64 {
	next := current + delta
	if next > 100 {
		return 100
	}
	return next
}
