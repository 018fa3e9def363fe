package indicator

import "math"

// Window returns vals[len+from : len+to] using end-relative offsets ≤ 0
// (Window(x, -20, -5) is the 15 bars ending five bars before the last,
// Window(x, -5, 0) the last five). ok is false when the series is too short.
func Window(vals []float64, from, to int) (w []float64, ok bool) {
	n := len(vals)
	lo, hi := n+from, n+to
	if from > 0 || to > 0 || lo < 0 || lo >= hi {
		return nil, false
	}
	return vals[lo:hi], true
}

// Tail returns the last k values
func Tail(vals []float64, k int) ([]float64, bool) {
	return Window(vals, -k, 0)
}

// Mean of w, NaN when w is empty or contains NaN
func Mean(w []float64) float64 {
	if len(w) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	return sum / float64(len(w))
}

// Max of w, NaN when empty
func Max(w []float64) float64 {
	if len(w) == 0 {
		return math.NaN()
	}
	m := w[0]
	for _, v := range w[1:] {
		m = math.Max(m, v)
	}
	return m
}

// Min of w, NaN when empty
func Min(w []float64) float64 {
	if len(w) == 0 {
		return math.NaN()
	}
	m := w[0]
	for _, v := range w[1:] {
		m = math.Min(m, v)
	}
	return m
}

// Count returns how many values satisfy pred
func Count(w []float64, pred func(float64) bool) int {
	n := 0
	for _, v := range w {
		if pred(v) {
			n++
		}
	}
	return n
}
