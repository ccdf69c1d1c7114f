package engine

import (
	"sort"
	"strings"

	"headline-radar/internal/domain"
)

// Filter returns the records satisfying every supplied predicate. No
// predicates means every record. The result is a fresh slice ordered by
// descending weighted sentiment, ties broken by ascending ticker, so
// repeated queries over the same cycle are byte-for-byte identical.
func Filter(records []domain.WeightedRecord, params domain.FilterParams) []domain.WeightedRecord {
	var tickerSet map[string]struct{}
	if len(params.Tickers) > 0 {
		tickerSet = make(map[string]struct{}, len(params.Tickers))
		for _, t := range params.Tickers {
			t = strings.ToUpper(strings.TrimSpace(t))
			if t != "" {
				tickerSet[t] = struct{}{}
			}
		}
	}

	out := make([]domain.WeightedRecord, 0, len(records))
	for _, rec := range records {
		if tickerSet != nil {
			if _, ok := tickerSet[strings.ToUpper(rec.Ticker)]; !ok {
				continue
			}
		}
		if params.MinSentiment != nil && rec.WeightedSentiment < *params.MinSentiment {
			continue
		}
		if params.MinRelativeVolume != nil && rec.RelativeVolume < *params.MinRelativeVolume {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightedSentiment != out[j].WeightedSentiment {
			return out[i].WeightedSentiment > out[j].WeightedSentiment
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}
