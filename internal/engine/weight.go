package engine

import (
	"sort"

	"headline-radar/internal/domain"
)

// Volume weight bounds. The factor is pinned to 1.0 at baseline volume,
// climbs linearly, and saturates at relative volume 2.5 so no single
// ticker's weighting can dominate the cycle. It never reaches zero or
// flips sign.
const (
	weightFloor = 0.5
	weightCap   = 2.0
	weightSlope = (weightCap - 1.0) / 1.5
)

// VolumeWeightFactor maps relative trading volume to a sentiment
// multiplier in [0.5, 2.0]. Non-decreasing; factor(1.0) == 1.0.
func VolumeWeightFactor(relativeVolume float64) float64 {
	return clamp(1.0+(relativeVolume-1.0)*weightSlope, weightFloor, weightCap)
}

// WeightResult carries the joined records plus tickers that had an
// aggregate but no market snapshot to join against.
type WeightResult struct {
	Records         []domain.WeightedRecord
	MissingSnapshot []string
}

// Weight joins each TickerAggregate with its MarketSnapshot and derives
// the volume-weighted sentiment. Aggregates without a snapshot cannot be
// weighted or correlated and are reported instead of guessed at.
// Records come back sorted by ticker for deterministic output.
func Weight(aggregates map[string]domain.TickerAggregate, snapshots map[string]domain.MarketSnapshot) WeightResult {
	var result WeightResult
	result.Records = make([]domain.WeightedRecord, 0, len(aggregates))

	for ticker, agg := range aggregates {
		snap, ok := snapshots[ticker]
		if !ok {
			result.MissingSnapshot = append(result.MissingSnapshot, ticker)
			continue
		}
		factor := VolumeWeightFactor(snap.RelativeVolume)
		result.Records = append(result.Records, domain.WeightedRecord{
			Ticker:            ticker,
			PerModelMean:      agg.PerModelMean,
			CombinedScore:     agg.CombinedScore,
			HeadlineCount:     agg.HeadlineCount,
			Price:             snap.Price,
			PriceChangePct:    snap.PriceChangePct,
			Volume:            snap.Volume,
			RelativeVolume:    snap.RelativeVolume,
			VolumeWeight:      factor,
			WeightedSentiment: agg.CombinedScore * factor,
		})
	}

	sort.Slice(result.Records, func(i, j int) bool {
		return result.Records[i].Ticker < result.Records[j].Ticker
	})
	sort.Strings(result.MissingSnapshot)
	return result
}
