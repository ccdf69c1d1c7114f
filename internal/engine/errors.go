package engine

import (
	"fmt"

	"headline-radar/internal/domain"
)

// RangeError reports a degenerate native range (max <= min) on a raw
// score. The score is treated as neutral; the error exists so callers
// can count misreporting analyzers.
type RangeError struct {
	HeadlineID string
	Model      domain.ModelName
	Min        float64
	Max        float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("degenerate native range [%g, %g] from model %s for headline %s", e.Min, e.Max, e.Model, e.HeadlineID)
}

// InsufficientDataError reports a ticker that no model scored in the
// window. The ticker is excluded from the cycle, which is distinct from
// being present with neutral sentiment.
type InsufficientDataError struct {
	Ticker string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("no model produced a sentiment score for %s in this window", e.Ticker)
}

// NoVarianceError reports that the correlation coefficient is undefined
// because one series is constant. The summary omits the coefficient.
type NoVarianceError struct {
	Series string
}

func (e *NoVarianceError) Error() string {
	return fmt.Sprintf("correlation undefined: %s series has zero variance", e.Series)
}

// LowSampleSizeWarning flags a correlation computed over too few tickers
// to be statistically meaningful. The coefficient is still reported.
type LowSampleSizeWarning struct {
	SampleSize int
}

func (e *LowSampleSizeWarning) Error() string {
	return fmt.Sprintf("correlation computed over only %d records; coefficient is unstable", e.SampleSize)
}
