package engine

import (
	"sort"
	"time"

	"headline-radar/internal/domain"
)

// AggregateResult carries one window's aggregates plus everything the
// ensemble recovered from: tickers no model scored and raw scores with
// degenerate ranges (counted as neutral).
type AggregateResult struct {
	Aggregates map[string]domain.TickerAggregate
	Excluded   []*InsufficientDataError
	Degenerate []*RangeError
}

// Aggregate combines all raw analyzer scores for one refresh window into
// one TickerAggregate per ticker.
//
// Per ticker, each model's normalized scores are averaged separately;
// a model that scored nothing for the ticker is left out of the map
// entirely rather than counted as zero. The combined score is the
// unweighted mean across the models present, so each model contributes
// once regardless of how many headlines it scored. Tickers where no
// model produced any score are excluded and reported, never emitted
// with a fabricated neutral value.
func Aggregate(headlines []domain.Headline, scores []domain.RawScore, windowStart, windowEnd time.Time) AggregateResult {
	tickerByHeadline := make(map[string]string, len(headlines))
	tickers := make([]string, 0, 16)
	seen := make(map[string]struct{}, 16)
	for _, h := range headlines {
		tickerByHeadline[h.ID] = h.Ticker
		if _, ok := seen[h.Ticker]; !ok {
			seen[h.Ticker] = struct{}{}
			tickers = append(tickers, h.Ticker)
		}
	}
	sort.Strings(tickers)

	type modelAccum struct {
		sum   float64
		count int
	}
	accum := make(map[string]map[domain.ModelName]*modelAccum, len(tickers))
	scoredHeadlines := make(map[string]map[string]struct{}, len(tickers))

	result := AggregateResult{Aggregates: make(map[string]domain.TickerAggregate, len(tickers))}

	for _, raw := range scores {
		ticker, ok := tickerByHeadline[raw.HeadlineID]
		if !ok || !raw.Model.IsValid() {
			continue
		}
		normalized, err := Normalize(raw)
		if err != nil {
			if rangeErr, ok := err.(*RangeError); ok {
				result.Degenerate = append(result.Degenerate, rangeErr)
			}
			// normalized is neutral 0; the model still scored this headline
		}
		byModel, ok := accum[ticker]
		if !ok {
			byModel = make(map[domain.ModelName]*modelAccum, len(domain.AllModels))
			accum[ticker] = byModel
		}
		acc, ok := byModel[raw.Model]
		if !ok {
			acc = &modelAccum{}
			byModel[raw.Model] = acc
		}
		acc.sum += normalized
		acc.count++

		ids, ok := scoredHeadlines[ticker]
		if !ok {
			ids = make(map[string]struct{}, 4)
			scoredHeadlines[ticker] = ids
		}
		ids[raw.HeadlineID] = struct{}{}
	}

	for _, ticker := range tickers {
		byModel := accum[ticker]
		if len(byModel) == 0 {
			result.Excluded = append(result.Excluded, &InsufficientDataError{Ticker: ticker})
			continue
		}

		perModel := make(map[domain.ModelName]float64, len(byModel))
		combined := 0.0
		for _, model := range domain.AllModels {
			acc, ok := byModel[model]
			if !ok {
				continue
			}
			mean := acc.sum / float64(acc.count)
			perModel[model] = mean
			combined += mean
		}
		combined /= float64(len(perModel))

		result.Aggregates[ticker] = domain.TickerAggregate{
			Ticker:        ticker,
			WindowStart:   windowStart,
			WindowEnd:     windowEnd,
			PerModelMean:  perModel,
			CombinedScore: clamp(combined, CanonicalMin, CanonicalMax),
			HeadlineCount: len(scoredHeadlines[ticker]),
		}
	}

	return result
}
