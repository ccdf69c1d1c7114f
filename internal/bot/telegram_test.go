package bot

import (
	"strings"
	"testing"

	"headline-radar/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	StartTelegramBot(nil)
}

func TestFormatTopEmpty(t *testing.T) {
	if msg := formatTop(nil); !strings.Contains(msg, "No sentiment data") {
		t.Fatalf("unexpected message: %s", msg)
	}
	if msg := formatTop(&domain.CycleResult{}); !strings.Contains(msg, "No sentiment data") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestFormatTopRanksBySentimentNotTicker(t *testing.T) {
	// Stored records arrive ticker-ordered; the strongest sentiment must
	// still lead the list.
	latest := &domain.CycleResult{
		Records: []domain.WeightedRecord{
			{Ticker: "AAPL", WeightedSentiment: -0.92, RelativeVolume: 0.9, HeadlineCount: 3},
			{Ticker: "MSFT", WeightedSentiment: 0.15, RelativeVolume: 1.2, HeadlineCount: 4},
			{Ticker: "ZM", WeightedSentiment: 0.88, RelativeVolume: 2.1, HeadlineCount: 5},
		},
	}
	msg := formatTop(latest)
	if !strings.Contains(msg, "1. ZM") || !strings.Contains(msg, "2. MSFT") || !strings.Contains(msg, "3. AAPL") {
		t.Fatalf("expected sentiment-ranked list, got: %s", msg)
	}
}

func TestFormatTopLeavesStoredOrderIntact(t *testing.T) {
	latest := &domain.CycleResult{
		Records: []domain.WeightedRecord{
			{Ticker: "AAPL", WeightedSentiment: -0.5},
			{Ticker: "MSFT", WeightedSentiment: 0.5},
		},
	}
	formatTop(latest)
	if latest.Records[0].Ticker != "AAPL" || latest.Records[1].Ticker != "MSFT" {
		t.Fatalf("ranking must not mutate the cycle's records: %+v", latest.Records)
	}
}

func TestFormatTopCapsAtLimit(t *testing.T) {
	latest := &domain.CycleResult{}
	for i := 0; i < topRecordLimit+5; i++ {
		latest.Records = append(latest.Records, domain.WeightedRecord{Ticker: "T"})
	}
	lines := strings.Split(formatTop(latest), "\n")
	// One heading line plus at most topRecordLimit entries.
	if len(lines) != topRecordLimit+1 {
		t.Fatalf("expected %d lines, got %d", topRecordLimit+1, len(lines))
	}
}

func TestFormatTicker(t *testing.T) {
	records := []domain.WeightedRecord{{
		Ticker:            "AAPL",
		WeightedSentiment: 0.4,
		CombinedScore:     0.2,
		Price:             231.5,
		PriceChangePct:    1.25,
		RelativeVolume:    1.8,
		HeadlineCount:     7,
	}}
	msg := formatTicker("AAPL", records)
	if !strings.Contains(msg, "AAPL") || !strings.Contains(msg, "$231.50") {
		t.Fatalf("unexpected message: %s", msg)
	}

	if msg := formatTicker("GHOST", nil); !strings.Contains(msg, "No data for GHOST") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestFormatSummary(t *testing.T) {
	r := 0.37
	latest := &domain.CycleResult{
		WindowID:      "cycle-x",
		HeadlineCount: 12,
		ScoredCount:   10,
		Summary: domain.CorrelationSummary{
			PearsonR: &r,
			QuadrantCounts: map[domain.Quadrant]int{
				domain.QuadrantSentimentUpPriceUp: 3,
			},
			Warnings: []string{"small sample"},
		},
	}
	msg := formatSummary(latest)
	if !strings.Contains(msg, "cycle-x") || !strings.Contains(msg, "+0.370") {
		t.Fatalf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "small sample") {
		t.Fatalf("expected warnings in message: %s", msg)
	}

	latest.Summary.PearsonR = nil
	if msg := formatSummary(latest); !strings.Contains(msg, "unavailable") {
		t.Fatalf("expected unavailable coefficient note: %s", msg)
	}

	if msg := formatSummary(nil); !strings.Contains(msg, "No cycle") {
		t.Fatalf("unexpected message: %s", msg)
	}
}
