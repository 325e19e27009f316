package analysis

import "math"

// Summary describes one render's escape distribution.
type Summary struct {
	Pixels   int     `json:"pixels"`
	Bounded  int     `json:"bounded"`
	Escaped  int     `json:"escaped"`
	Coverage float64 `json:"coverage"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Median   int     `json:"median"`
	P90      int     `json:"p90"`
	Mode     int     `json:"mode"`
	MaxStep  int     `json:"max_step"`
}

// Summarize reduces counts (escapes per step) and the bounded pixel count.
// Step statistics are zero when nothing escaped.
func Summarize(counts []float64, bounded int) Summary {
	s := Summary{Bounded: bounded}

	total := 0.0
	sum := 0.0
	best := -1.0
	for i, c := range counts {
		total += c
		sum += float64(i) * c
		if c > best {
			best = c
			s.Mode = i
		}
		if c > 0 {
			s.MaxStep = i
		}
	}
	s.Escaped = int(total)
	s.Pixels = s.Escaped + bounded
	if s.Pixels > 0 {
		s.Coverage = float64(bounded) / float64(s.Pixels)
	}
	if total == 0 {
		s.Mode = 0
		return s
	}

	s.Mean = sum / total
	variance := 0.0
	for i, c := range counts {
		d := float64(i) - s.Mean
		variance += d * d * c
	}
	s.StdDev = math.Sqrt(variance / total)
	s.Median = Percentile(counts, 0.5)
	s.P90 = Percentile(counts, 0.9)
	return s
}

// Percentile returns the smallest step at which the cumulative share of
// escapes reaches q. It returns 0 for an empty histogram.
func Percentile(counts []float64, q float64) int {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	target := q * total
	acc := 0.0
	for i, c := range counts {
		acc += c
		if acc >= target && c > 0 {
			return i
		}
	}
	return len(counts) - 1
}

// Cumulative returns the running share of escapes, ending at 1.
func Cumulative(counts []float64) []float64 {
	out := make([]float64, len(counts))
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return out
	}

	acc := 0.0
	for i, c := range counts {
		acc += c
		out[i] = acc / total
	}
	return out
}

// Rebin sums counts into width equal bins. Histograms already narrower
// than width are returned as a copy.
func Rebin(counts []float64, width int) []float64 {
	if width <= 0 || len(counts) <= width {
		out := make([]float64, len(counts))
		copy(out, counts)
		return out
	}

	out := make([]float64, width)
	for i, c := range counts {
		out[i*width/len(counts)] += c
	}
	return out
}
