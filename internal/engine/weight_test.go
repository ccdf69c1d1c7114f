package engine

import (
	"math"
	"testing"

	"headline-radar/internal/domain"
)

func TestVolumeWeightFactorBaselineIsIdentity(t *testing.T) {
	if got := VolumeWeightFactor(1.0); got != 1.0 {
		t.Fatalf("factor(1.0) must be exactly 1.0, got %g", got)
	}
}

func TestVolumeWeightFactorBoundsAndCap(t *testing.T) {
	cases := []struct {
		relVolume float64
		expected  float64
	}{
		{0, weightFloor},
		{0.25, weightFloor},
		{2.5, weightCap},
		{3.0, weightCap},
		{1000, weightCap},
	}
	for _, tc := range cases {
		if got := VolumeWeightFactor(tc.relVolume); math.Abs(got-tc.expected) > 1e-12 {
			t.Fatalf("factor(%g): expected %g, got %g", tc.relVolume, tc.expected, got)
		}
	}
}

func TestVolumeWeightFactorIsNonDecreasing(t *testing.T) {
	prev := 0.0
	for rv := 0.0; rv <= 5.0; rv += 0.1 {
		got := VolumeWeightFactor(rv)
		if got < prev {
			t.Fatalf("factor not non-decreasing at %g: %g < %g", rv, got, prev)
		}
		if got < weightFloor || got > weightCap {
			t.Fatalf("factor(%g)=%g outside [%g, %g]", rv, got, weightFloor, weightCap)
		}
		prev = got
	}
}

func TestWeightPreservesSentimentSign(t *testing.T) {
	aggregates := map[string]domain.TickerAggregate{
		"NEG": {Ticker: "NEG", CombinedScore: -0.4},
		"POS": {Ticker: "POS", CombinedScore: 0.4},
		"ZRO": {Ticker: "ZRO", CombinedScore: 0},
	}
	snapshots := map[string]domain.MarketSnapshot{
		"NEG": {Ticker: "NEG", RelativeVolume: 8.0},
		"POS": {Ticker: "POS", RelativeVolume: 0.1},
		"ZRO": {Ticker: "ZRO", RelativeVolume: 50},
	}

	result := Weight(aggregates, snapshots)
	for _, rec := range result.Records {
		if math.Signbit(rec.WeightedSentiment) != math.Signbit(rec.CombinedScore) && rec.CombinedScore != 0 {
			t.Fatalf("%s: weighting flipped sign: combined=%g weighted=%g", rec.Ticker, rec.CombinedScore, rec.WeightedSentiment)
		}
		if rec.CombinedScore == 0 && rec.WeightedSentiment != 0 {
			t.Fatalf("%s: neutral sentiment must stay exactly zero, got %g", rec.Ticker, rec.WeightedSentiment)
		}
	}
}

func TestWeightCapsAmplification(t *testing.T) {
	aggregates := map[string]domain.TickerAggregate{
		"ABC": {Ticker: "ABC", CombinedScore: 0.35},
	}
	snapshots := map[string]domain.MarketSnapshot{
		"ABC": {Ticker: "ABC", RelativeVolume: 3.0, Price: 42, PriceChangePct: 1.2},
	}

	result := Weight(aggregates, snapshots)
	if len(result.Records) != 1 {
		t.Fatalf("expected one record, got %d", len(result.Records))
	}
	rec := result.Records[0]
	if rec.VolumeWeight != weightCap {
		t.Fatalf("relative volume 3.0 should hit the cap exactly, got %g", rec.VolumeWeight)
	}
	if math.Abs(rec.WeightedSentiment-0.35*weightCap) > 1e-12 {
		t.Fatalf("expected weighted sentiment %g, got %g", 0.35*weightCap, rec.WeightedSentiment)
	}
}

func TestWeightReportsMissingSnapshots(t *testing.T) {
	aggregates := map[string]domain.TickerAggregate{
		"ABC": {Ticker: "ABC", CombinedScore: 0.2},
		"NOP": {Ticker: "NOP", CombinedScore: 0.9},
	}
	snapshots := map[string]domain.MarketSnapshot{
		"ABC": {Ticker: "ABC", RelativeVolume: 1.0},
	}

	result := Weight(aggregates, snapshots)
	if len(result.Records) != 1 || result.Records[0].Ticker != "ABC" {
		t.Fatalf("expected only ABC joined, got %+v", result.Records)
	}
	if len(result.MissingSnapshot) != 1 || result.MissingSnapshot[0] != "NOP" {
		t.Fatalf("expected NOP reported as missing snapshot, got %v", result.MissingSnapshot)
	}
}

func TestWeightOutputIsSortedByTicker(t *testing.T) {
	aggregates := map[string]domain.TickerAggregate{
		"ZZZ": {Ticker: "ZZZ"}, "AAA": {Ticker: "AAA"}, "MMM": {Ticker: "MMM"},
	}
	snapshots := map[string]domain.MarketSnapshot{
		"ZZZ": {Ticker: "ZZZ", RelativeVolume: 1}, "AAA": {Ticker: "AAA", RelativeVolume: 1}, "MMM": {Ticker: "MMM", RelativeVolume: 1},
	}

	result := Weight(aggregates, snapshots)
	for i := 1; i < len(result.Records); i++ {
		if result.Records[i-1].Ticker > result.Records[i].Ticker {
			t.Fatalf("records not sorted by ticker: %+v", result.Records)
		}
	}
}
