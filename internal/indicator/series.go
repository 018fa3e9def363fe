package indicator

import "math"

// SMA returns the n-bar simple moving average. Index i < n-1 is NaN,
// as is any window containing a NaN.
func SMA(vals []float64, n int) []float64 {
	out := nanSlice(len(vals))
	if n <= 0 {
		return out
	}

	sum := 0.0
	bad := 0 // NaNs inside the current window
	for i, v := range vals {
		if math.IsNaN(v) {
			bad++
		} else {
			sum += v
		}
		if i >= n {
			old := vals[i-n]
			if math.IsNaN(old) {
				bad--
			} else {
				sum -= old
			}
		}
		if i >= n-1 && bad == 0 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// EMA returns the exponential moving average with α = 2/(span+1),
// seeded by the first defined value (pandas adjust=False).
func EMA(vals []float64, span int) []float64 {
	out := nanSlice(len(vals))
	alpha := 2.0 / float64(span+1)

	prev := math.NaN()
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
			out[i] = prev
		case math.IsNaN(prev):
			prev = v
			out[i] = v
		default:
			prev = alpha*v + (1-alpha)*prev
			out[i] = prev
		}
	}
	return out
}

// AdjustedEWM is the bias-corrected exponential mean with decay α
// (pandas adjust=True, ignore_na=False). NaN inputs decay the weights but
// add nothing; output before the first defined input is NaN.
func AdjustedEWM(vals []float64, alpha float64) []float64 {
	out := nanSlice(len(vals))
	keep := 1 - alpha

	num, den := 0.0, 0.0
	seen := false
	for i, v := range vals {
		num *= keep
		den *= keep
		if !math.IsNaN(v) {
			num += v
			den += 1
			seen = true
		}
		if seen && den > 0 {
			out[i] = num / den
		}
	}
	return out
}

// RSI returns the n-bar ratio of average gain to average loss mapped to 0..100.
// Undefined (NaN) while warming up and whenever the average loss is zero.
func RSI(closes []float64, n int) []float64 {
	gains := nanSlice(len(closes))
	losses := nanSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gains[i] = math.Max(d, 0)
		losses[i] = math.Max(-d, 0)
	}

	avgGain := SMA(gains, n)
	avgLoss := SMA(losses, n)

	out := nanSlice(len(closes))
	for i := range closes {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) || l == 0 {
			continue
		}
		out[i] = 100 - 100/(1+g/l)
	}
	return out
}

// RSV returns the n-bar raw stochastic value, NaN when the range is flat.
func RSV(highs, lows, closes []float64, n int) []float64 {
	hh := RollingMax(highs, n)
	ll := RollingMin(lows, n)

	out := nanSlice(len(closes))
	for i := range closes {
		span := hh[i] - ll[i]
		if math.IsNaN(span) || span == 0 {
			continue
		}
		out[i] = (closes[i] - ll[i]) / span * 100
	}
	return out
}

// KDJK returns the K line: RSV(n) smoothed with center of mass com (α = 1/(1+com)).
func KDJK(highs, lows, closes []float64, n int, com float64) []float64 {
	return AdjustedEWM(RSV(highs, lows, closes, n), 1/(1+com))
}

// RollingMax returns the n-bar trailing maximum, NaN while warming up
func RollingMax(vals []float64, n int) []float64 {
	return rolling(vals, n, math.Max)
}

// RollingMin returns the n-bar trailing minimum, NaN while warming up
func RollingMin(vals []float64, n int) []float64 {
	return rolling(vals, n, math.Min)
}

func rolling(vals []float64, n int, pick func(a, b float64) float64) []float64 {
	out := nanSlice(len(vals))
	if n <= 0 {
		return out
	}
	for i := n - 1; i < len(vals); i++ {
		acc := vals[i-n+1]
		for _, v := range vals[i-n+2 : i+1] {
			acc = pick(acc, v)
		}
		out[i] = acc
	}
	return out
}

// Shift moves values k bars later (Shift(x,1)[i] == x[i-1]); the head is NaN
func Shift(vals []float64, k int) []float64 {
	out := nanSlice(len(vals))
	for i := k; i < len(vals); i++ {
		out[i] = vals[i-k]
	}
	return out
}

// Ratio divides element-wise, NaN where the denominator is zero or undefined
func Ratio(num, den []float64) []float64 {
	out := nanSlice(len(num))
	for i := range num {
		if i >= len(den) || den[i] == 0 || math.IsNaN(den[i]) {
			continue
		}
		out[i] = num[i] / den[i]
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
