package aggregate

import (
	"sort"

	"greenjobs/internal/domain/measures"
)

// terciles returns the 33rd and 66th percentile cuts of values.
func terciles(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentile(sorted, 1.0/3.0), percentile(sorted, 2.0/3.0), true
}

func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}

// binValue places v into its tercile. When inverted, the top tercile maps
// to "low": used for GHG where more emissions mean less green.
func binValue(v, lo, hi float64, inverted bool) measures.TercileBin {
	var bin measures.TercileBin
	switch {
	case v <= lo:
		bin = measures.BinLow
	case v <= hi:
		bin = measures.BinMid
	default:
		bin = measures.BinHigh
	}
	if inverted {
		switch bin {
		case measures.BinLow:
			return measures.BinHigh
		case measures.BinHigh:
			return measures.BinLow
		}
	}
	return bin
}

func binScore(b measures.TercileBin) int {
	switch b {
	case measures.BinLow:
		return 0
	case measures.BinMid:
		return 1
	default:
		return 2
	}
}

// composite buckets the 0-6 sum of the three axis bins.
func composite(timeshare, propGreen, ghg *measures.TercileBin) *measures.CompositeScore {
	if timeshare == nil || propGreen == nil || ghg == nil {
		return nil
	}
	sum := binScore(*timeshare) + binScore(*propGreen) + binScore(*ghg)
	var s measures.CompositeScore
	switch {
	case sum <= 1:
		s = measures.ScoreLow
	case sum <= 3:
		s = measures.ScoreLowMid
	case sum <= 5:
		s = measures.ScoreMidHigh
	default:
		s = measures.ScoreHigh
	}
	return &s
}
