package engine

import (
	"headline-radar/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// Sample sizes below this make the Pearson coefficient statistically
// unstable; the summary still reports it but carries a warning.
const minStableSampleSize = 3

// QuadrantFor classifies one record on the (weighted sentiment, price
// change) plane. A value of exactly zero on either axis is assigned to
// the positive side of that axis, so classification is deterministic.
func QuadrantFor(weightedSentiment, priceChangePct float64) domain.Quadrant {
	if weightedSentiment >= 0 {
		if priceChangePct >= 0 {
			return domain.QuadrantSentimentUpPriceUp
		}
		return domain.QuadrantSentimentUpPriceDown
	}
	if priceChangePct >= 0 {
		return domain.QuadrantSentimentDownPriceUp
	}
	return domain.QuadrantSentimentDownPriceDown
}

// Correlate derives the cycle's CorrelationSummary from the full record
// set: Pearson correlation between weighted sentiment and price change,
// plus quadrant counts for the distribution view. The coefficient is
// omitted when either series has zero variance, and flagged when the
// sample is too small to trust. Never fatal.
func Correlate(windowID string, records []domain.WeightedRecord) domain.CorrelationSummary {
	summary := domain.CorrelationSummary{
		WindowID:       windowID,
		SampleSize:     len(records),
		QuadrantCounts: make(map[domain.Quadrant]int, len(domain.AllQuadrants)),
	}
	for _, q := range domain.AllQuadrants {
		summary.QuadrantCounts[q] = 0
	}
	if len(records) == 0 {
		summary.Warnings = append(summary.Warnings, (&LowSampleSizeWarning{SampleSize: 0}).Error())
		return summary
	}

	sentiment := make([]float64, len(records))
	priceChange := make([]float64, len(records))
	for i, rec := range records {
		sentiment[i] = rec.WeightedSentiment
		priceChange[i] = rec.PriceChangePct
		summary.QuadrantCounts[QuadrantFor(rec.WeightedSentiment, rec.PriceChangePct)]++
	}

	if len(records) < minStableSampleSize {
		summary.Warnings = append(summary.Warnings, (&LowSampleSizeWarning{SampleSize: len(records)}).Error())
	}

	// A single record has no spread; gonum's sample variance is NaN there,
	// so both cases fall under the same zero-variance report.
	if !(stat.Variance(sentiment, nil) > 0) {
		summary.Warnings = append(summary.Warnings, (&NoVarianceError{Series: "weighted_sentiment"}).Error())
		return summary
	}
	if !(stat.Variance(priceChange, nil) > 0) {
		summary.Warnings = append(summary.Warnings, (&NoVarianceError{Series: "price_change_pct"}).Error())
		return summary
	}

	r := stat.Correlation(sentiment, priceChange, nil)
	summary.PearsonR = &r
	return summary
}
