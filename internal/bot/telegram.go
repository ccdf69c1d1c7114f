package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"headline-radar/internal/domain"
	"headline-radar/internal/engine"

	tele "gopkg.in/telebot.v3"
)

const topRecordLimit = 10

type CycleReader interface {
	Latest(ctx context.Context) (*domain.CycleResult, error)
	Query(ctx context.Context, params domain.FilterParams) ([]domain.WeightedRecord, error)
}

func StartTelegramBot(cycles CycleReader) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/top", func(c tele.Context) error {
		latest, err := cycles.Latest(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error reading latest cycle: %v", err))
		}
		return c.Send(formatTop(latest))
	})

	b.Handle("/ticker", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /ticker AAPL")
		}
		ticker := strings.ToUpper(args[0])
		records, err := cycles.Query(context.Background(), domain.FilterParams{Tickers: []string{ticker}})
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching %s: %v", ticker, err))
		}
		return c.Send(formatTicker(ticker, records))
	})

	b.Handle("/summary", func(c tele.Context) error {
		latest, err := cycles.Latest(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error reading latest cycle: %v", err))
		}
		return c.Send(formatSummary(latest))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatTop(latest *domain.CycleResult) string {
	if latest == nil || len(latest.Records) == 0 {
		return "No sentiment data yet. Try again after the next refresh."
	}

	// Stored records are ticker-ordered; rank them by sentiment first.
	ranked := engine.Filter(latest.Records, domain.FilterParams{})

	var sb strings.Builder
	sb.WriteString("Top tickers by weighted sentiment:\n")
	for i, rec := range ranked {
		if i >= topRecordLimit {
			break
		}
		fmt.Fprintf(&sb, "%d. %s  %+.3f  (rel vol %.2fx, %d headlines)\n",
			i+1, rec.Ticker, rec.WeightedSentiment, rec.RelativeVolume, rec.HeadlineCount)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatTicker(ticker string, records []domain.WeightedRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("No data for %s in the latest cycle.", ticker)
	}
	rec := records[0]
	return fmt.Sprintf(
		"%s\nWeighted sentiment: %+.3f\nCombined score: %+.3f\nPrice: $%.2f (%+.2f%%)\nRelative volume: %.2fx\nHeadlines: %d",
		rec.Ticker, rec.WeightedSentiment, rec.CombinedScore, rec.Price, rec.PriceChangePct, rec.RelativeVolume, rec.HeadlineCount,
	)
}

func formatSummary(latest *domain.CycleResult) string {
	if latest == nil {
		return "No cycle has run yet."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cycle %s\nTickers: %d  Headlines: %d (scored %d)\n",
		latest.WindowID, len(latest.Records), latest.HeadlineCount, latest.ScoredCount)
	if latest.Summary.PearsonR != nil {
		fmt.Fprintf(&sb, "Sentiment/price correlation: %+.3f\n", *latest.Summary.PearsonR)
	} else {
		sb.WriteString("Sentiment/price correlation: unavailable\n")
	}
	for _, q := range domain.AllQuadrants {
		fmt.Fprintf(&sb, "%s: %d\n", q, latest.Summary.QuadrantCounts[q])
	}
	if len(latest.Summary.Warnings) > 0 {
		fmt.Fprintf(&sb, "Warnings: %s", strings.Join(latest.Summary.Warnings, "; "))
	}
	return strings.TrimRight(sb.String(), "\n")
}
