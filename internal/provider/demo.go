package provider

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"headline-radar/internal/domain"
)

// DemoProvider generates synthetic headlines and market snapshots
// satisfying the same input contract as the live feeds, for running the
// full pipeline without credentials. Output is deterministic for a
// given seed.
type DemoProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewDemoProvider(seed int64) *DemoProvider {
	return &DemoProvider{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

var demoPositiveTitles = []string{
	"%s Surges After Results Beat Estimates",
	"%s Rallies as Analysts Upgrade",
	"Breaking: %s Jumps on Record Revenue",
	"%s Climbs After Raises Guidance",
}

var demoNegativeTitles = []string{
	"%s Plunges After Misses Estimates",
	"%s Tumbles as Analysts Downgrade",
	"Alert: %s Drops Amid Lawsuit",
	"%s Falls After Cuts Guidance",
}

var demoNeutralTitles = []string{
	"%s Trades Flat Ahead of Earnings",
	"Market Watch: %s Shifts Today",
	"%s schedules shareholder meeting",
}

// FetchHeadlines fabricates three to five recent headlines for the
// ticker, with polarity words the analyzers recognize.
func (p *DemoProvider) FetchHeadlines(ctx context.Context, ticker string, maxItems int) ([]domain.Headline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	count := 3 + p.rng.Intn(3)
	if maxItems > 0 && count > maxItems {
		count = maxItems
	}
	now := p.now().UTC()

	headlines := make([]domain.Headline, 0, count)
	for i := 0; i < count; i++ {
		var template string
		switch roll := p.rng.Float64(); {
		case roll < 0.4:
			template = demoPositiveTitles[p.rng.Intn(len(demoPositiveTitles))]
		case roll < 0.8:
			template = demoNegativeTitles[p.rng.Intn(len(demoNegativeTitles))]
		default:
			template = demoNeutralTitles[p.rng.Intn(len(demoNeutralTitles))]
		}
		publishedAt := now.Add(-time.Duration(p.rng.Intn(24*60)) * time.Minute)
		headlines = append(headlines, domain.Headline{
			ID:          fmt.Sprintf("demo-%s-%d", ticker, i),
			Ticker:      ticker,
			Title:       fmt.Sprintf(template, ticker),
			URL:         fmt.Sprintf("https://news.example/%s/%d", strings.ToLower(ticker), publishedAt.Unix()),
			Source:      "demo",
			PublishedAt: publishedAt,
		})
	}
	return headlines, nil
}

// FetchSnapshots fabricates one snapshot per ticker. Relative volume is
// drawn from a skewed distribution so a few tickers land well past the
// weighting cap, mirroring real screener output.
func (p *DemoProvider) FetchSnapshots(ctx context.Context, tickers []string) (map[string]domain.MarketSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	snapshots := make(map[string]domain.MarketSnapshot, len(tickers))
	for _, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			continue
		}
		snapshots[ticker] = domain.MarketSnapshot{
			Ticker:         ticker,
			Price:          10 + p.rng.Float64()*990,
			PriceChangePct: p.rng.NormFloat64() * 2,
			Volume:         float64(500000 + p.rng.Intn(4500000)),
			RelativeVolume: p.demoRelativeVolume(),
		}
	}
	return snapshots, nil
}

func (p *DemoProvider) demoRelativeVolume() float64 {
	switch roll := p.rng.Float64(); {
	case roll < 0.20:
		return p.rng.Float64() // quiet
	case roll < 0.50:
		return 1 + p.rng.Float64()*4
	case roll < 0.70:
		return 5 + p.rng.Float64()*15
	case roll < 0.85:
		return 20 + p.rng.Float64()*80
	default:
		return 100 + p.rng.Float64()*900 // halt-and-squeeze territory
	}
}
