package engine

import (
	"math"

	"headline-radar/internal/domain"
)

// Canonical sentiment scale every analyzer output is mapped onto before
// combination.
const (
	CanonicalMin = -1.0
	CanonicalMax = 1.0
)

// Normalize linearly rescales a raw score from its declared native range
// onto [-1, +1]. Values outside the native range are clamped into it
// first, so a misreporting analyzer cannot push a score out of bounds.
// A degenerate range (max <= min) yields neutral 0 and a *RangeError.
// The mapping is monotonic: headline ordering within a model is preserved.
func Normalize(raw domain.RawScore) (float64, error) {
	lo, hi := raw.Range.Min, raw.Range.Max
	if !(hi > lo) || math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, &RangeError{HeadlineID: raw.HeadlineID, Model: raw.Model, Min: lo, Max: hi}
	}
	v := clamp(raw.Value, lo, hi)
	return CanonicalMin + (CanonicalMax-CanonicalMin)*(v-lo)/(hi-lo), nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
