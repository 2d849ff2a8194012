package workflow

import "testing"

func TestProgressIncrement(t *testing.T) {
	cases := []struct {
		pagesDone  int
		totalPages int
		want       float64
	}{
		{10, 100, 10},
		{10, 20, 50},
		{1, 3, 100.0 / 3},
		{5, 0, 0}, // zero denominator must not divide
		{0, 100, 0},
	}
	for _, c := range cases {
		if got := ProgressIncrement(c.pagesDone, c.totalPages); !almostEqual(got, c.want) {
			t.Errorf("ProgressIncrement(%d, %d) = %v, want %v", c.pagesDone, c.totalPages, got, c.want)
		}
	}
}

func TestCappedAdd(t *testing.T) {
	cases := []struct {
		current float64
		delta   float64
		want    float64
	}{
		{0, 10, 10},
		{90, 10, 100},
		{90, 25, 100},
		{100, 50, 100},
		{33.5, 33.5, 67},
	}
	for _, c := range cases {
		if got := CappedAdd(c.current, c.delta); !almostEqual(got, c.want) {
			t.Errorf("CappedAdd(%v, %v) = %v, want %v", c.current, c.delta, got, c.want)
		}
	}
}
