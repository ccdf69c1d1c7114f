package engine

import (
	"reflect"
	"testing"

	"headline-radar/internal/domain"
)

func filterFixture() []domain.WeightedRecord {
	return []domain.WeightedRecord{
		{Ticker: "AAPL", WeightedSentiment: 0.30, RelativeVolume: 1.2},
		{Ticker: "MSFT", WeightedSentiment: 0.30, RelativeVolume: 4.0},
		{Ticker: "TSLA", WeightedSentiment: 0.90, RelativeVolume: 9.5},
		{Ticker: "KO", WeightedSentiment: -0.40, RelativeVolume: 0.6},
		{Ticker: "AMD", WeightedSentiment: 0.05, RelativeVolume: 2.1},
	}
}

func tickersOf(records []domain.WeightedRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Ticker
	}
	return out
}

func TestFilterNoParamsReturnsEverythingOrdered(t *testing.T) {
	got := Filter(filterFixture(), domain.FilterParams{})
	expected := []string{"TSLA", "AAPL", "MSFT", "AMD", "KO"}
	if !reflect.DeepEqual(tickersOf(got), expected) {
		t.Fatalf("expected %v, got %v", expected, tickersOf(got))
	}
}

func TestFilterTieBreaksByTickerAscending(t *testing.T) {
	got := Filter(filterFixture(), domain.FilterParams{})
	// AAPL and MSFT share 0.30; AAPL sorts first.
	if got[1].Ticker != "AAPL" || got[2].Ticker != "MSFT" {
		t.Fatalf("tie-break by ascending ticker violated: %v", tickersOf(got))
	}
}

func TestFilterPredicatesAreANDed(t *testing.T) {
	minSent := 0.1
	minVol := 2.0
	got := Filter(filterFixture(), domain.FilterParams{
		MinSentiment:      &minSent,
		MinRelativeVolume: &minVol,
	})
	expected := []string{"TSLA", "MSFT"}
	if !reflect.DeepEqual(tickersOf(got), expected) {
		t.Fatalf("expected %v, got %v", expected, tickersOf(got))
	}
}

func TestFilterTickerSubsetIsCaseInsensitive(t *testing.T) {
	got := Filter(filterFixture(), domain.FilterParams{Tickers: []string{"tsla", " ko "}})
	expected := []string{"TSLA", "KO"}
	if !reflect.DeepEqual(tickersOf(got), expected) {
		t.Fatalf("expected %v, got %v", expected, tickersOf(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	before := tickersOf(records)
	_ = Filter(records, domain.FilterParams{})
	if !reflect.DeepEqual(tickersOf(records), before) {
		t.Fatal("filter must not reorder the caller's slice")
	}
}

func TestFilterMinSentimentKeepsExactMatches(t *testing.T) {
	minSent := 0.30
	got := Filter(filterFixture(), domain.FilterParams{MinSentiment: &minSent})
	expected := []string{"TSLA", "AAPL", "MSFT"}
	if !reflect.DeepEqual(tickersOf(got), expected) {
		t.Fatalf("boundary value must be inclusive: %v", tickersOf(got))
	}
}
