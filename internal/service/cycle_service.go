package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"headline-radar/internal/analyzer"
	"headline-radar/internal/domain"
	"headline-radar/internal/engine"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const cycleCacheKey = "cycle:latest"

type HeadlineProvider interface {
	FetchHeadlines(ctx context.Context, ticker string, maxItems int) ([]domain.Headline, error)
}

type SnapshotProvider interface {
	FetchSnapshots(ctx context.Context, tickers []string) (map[string]domain.MarketSnapshot, error)
}

type SnapshotStore interface {
	ReplaceCycle(ctx context.Context, result domain.CycleResult) error
	LoadLatest(ctx context.Context) (*domain.CycleResult, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type CycleConfig struct {
	Tickers       []string
	HeadlineLimit int
	WindowHours   int
	CacheTTL      time.Duration
}

// CycleService runs the fetch-score-aggregate-weight-correlate pipeline
// and keeps the most recent result available for queries. Provider and
// analyzer failures degrade the cycle instead of aborting it; each is
// reported on the result.
type CycleService struct {
	tracer    trace.Tracer
	analyzers []analyzer.Analyzer
	headlines HeadlineProvider
	snapshots SnapshotProvider
	store     SnapshotStore
	redis     RedisClient
	cfg       CycleConfig

	mu     sync.RWMutex
	latest *domain.CycleResult
}

func NewCycleService(
	tracer trace.Tracer,
	analyzers []analyzer.Analyzer,
	headlines HeadlineProvider,
	snapshots SnapshotProvider,
	store SnapshotStore,
	redisClient RedisClient,
	cfg CycleConfig,
) *CycleService {
	if cfg.HeadlineLimit <= 0 {
		cfg.HeadlineLimit = 20
	}
	if cfg.WindowHours <= 0 {
		cfg.WindowHours = 24
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &CycleService{
		tracer:    tracer,
		analyzers: analyzers,
		headlines: headlines,
		snapshots: snapshots,
		store:     store,
		redis:     redisClient,
		cfg:       cfg,
	}
}

// RunCycle executes one full refresh for the configured tickers and
// replaces the previous generation everywhere it is kept.
func (s *CycleService) RunCycle(ctx context.Context, now time.Time) (domain.CycleResult, error) {
	ctx, span := s.tracer.Start(ctx, "cycle-service.run-cycle")
	defer span.End()

	if s.headlines == nil || s.snapshots == nil {
		return domain.CycleResult{}, fmt.Errorf("cycle service providers are not initialized")
	}
	if len(s.cfg.Tickers) == 0 {
		return domain.CycleResult{}, fmt.Errorf("no tickers configured")
	}

	now = now.UTC()
	result := domain.CycleResult{
		WindowID:    "cycle-" + now.Format("20060102T150405Z"),
		StartedAt:   now,
		WindowStart: now.Add(-time.Duration(s.cfg.WindowHours) * time.Hour),
		WindowEnd:   now,
	}

	headlines := make([]domain.Headline, 0, len(s.cfg.Tickers)*s.cfg.HeadlineLimit)
	for _, ticker := range s.cfg.Tickers {
		fetched, err := s.headlines.FetchHeadlines(ctx, ticker, s.cfg.HeadlineLimit)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("headlines %s: %v", ticker, err))
			continue
		}
		for _, h := range fetched {
			if s.inWindow(h, result.WindowStart, result.WindowEnd) {
				headlines = append(headlines, h)
			}
		}
	}
	result.HeadlineCount = len(headlines)

	var scores []domain.RawScore
	for _, a := range s.analyzers {
		if a == nil {
			continue
		}
		got, err := a.Score(ctx, headlines)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("analyzer %s: %v", a.Name(), err))
			continue
		}
		scores = append(scores, got...)
	}
	scoredIDs := make(map[string]struct{}, len(headlines))
	for _, sc := range scores {
		scoredIDs[sc.HeadlineID] = struct{}{}
	}
	result.ScoredCount = len(scoredIDs)

	agg := engine.Aggregate(headlines, scores, result.WindowStart, result.WindowEnd)
	for _, excl := range agg.Excluded {
		result.ExcludedTickers = append(result.ExcludedTickers, excl.Ticker)
	}
	for _, deg := range agg.Degenerate {
		result.Errors = append(result.Errors, deg.Error())
	}

	tickers := make([]string, 0, len(agg.Aggregates))
	for ticker := range agg.Aggregates {
		tickers = append(tickers, ticker)
	}
	snapshots := map[string]domain.MarketSnapshot{}
	if len(tickers) > 0 {
		fetched, err := s.snapshots.FetchSnapshots(ctx, tickers)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("snapshots: %v", err))
		} else {
			snapshots = fetched
		}
	}

	weighted := engine.Weight(agg.Aggregates, snapshots)
	result.Records = weighted.Records
	for _, ticker := range weighted.MissingSnapshot {
		result.Errors = append(result.Errors, fmt.Sprintf("no market snapshot for %s", ticker))
	}

	result.Summary = engine.Correlate(result.WindowID, result.Records)

	s.persist(ctx, result)

	s.mu.Lock()
	snapshot := result
	s.latest = &snapshot
	s.mu.Unlock()

	return result, nil
}

// Latest returns the most recent cycle, preferring memory, then the
// Redis cache, then the database. Returns (nil, nil) before any cycle
// has run.
func (s *CycleService) Latest(ctx context.Context) (*domain.CycleResult, error) {
	ctx, span := s.tracer.Start(ctx, "cycle-service.latest")
	defer span.End()

	s.mu.RLock()
	cached := s.latest
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if s.redis != nil {
		data, err := s.redis.Get(ctx, cycleCacheKey).Bytes()
		if err == nil {
			var result domain.CycleResult
			if err := json.Unmarshal(data, &result); err == nil {
				s.remember(&result)
				return &result, nil
			}
			log.Printf("discarding malformed cached cycle: %v", err)
		} else if err != redis.Nil {
			log.Printf("redis cache read error: %v", err)
		}
	}

	if s.store != nil {
		result, err := s.store.LoadLatest(ctx)
		if err != nil {
			return nil, fmt.Errorf("load latest cycle: %w", err)
		}
		if result != nil {
			s.remember(result)
		}
		return result, nil
	}

	return nil, nil
}

// Query filters the latest cycle's records. A nil slice with a nil
// error means no cycle is available yet.
func (s *CycleService) Query(ctx context.Context, params domain.FilterParams) ([]domain.WeightedRecord, error) {
	ctx, span := s.tracer.Start(ctx, "cycle-service.query")
	defer span.End()

	latest, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	return engine.Filter(latest.Records, params), nil
}

func (s *CycleService) persist(ctx context.Context, result domain.CycleResult) {
	if s.store != nil {
		if err := s.store.ReplaceCycle(ctx, result); err != nil {
			log.Printf("persist cycle %s: %v", result.WindowID, err)
		}
	}
	if s.redis != nil {
		data, err := json.Marshal(result)
		if err != nil {
			log.Printf("marshal cycle for cache: %v", err)
			return
		}
		if err := s.redis.Set(ctx, cycleCacheKey, data, s.cfg.CacheTTL).Err(); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}
}

func (s *CycleService) remember(result *domain.CycleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		s.latest = result
	}
}

// inWindow keeps headlines published inside the window. Items whose
// feed carried no parseable timestamp pass through; the feed is already
// recency-ordered.
func (s *CycleService) inWindow(h domain.Headline, start, end time.Time) bool {
	if h.PublishedAt.IsZero() {
		return true
	}
	return !h.PublishedAt.Before(start) && !h.PublishedAt.After(end)
}
