package domain

import "time"

// ModelName identifies one of the three sentiment analyzers. The set is
// closed so aggregation code can reason over every model explicitly.
type ModelName string

const (
	ModelGeneral              ModelName = "general"
	ModelFinancialLexicon     ModelName = "financial-lexicon"
	ModelFinancialTransformer ModelName = "financial-transformer"
)

var AllModels = []ModelName{ModelGeneral, ModelFinancialLexicon, ModelFinancialTransformer}

func (m ModelName) IsValid() bool {
	switch m {
	case ModelGeneral, ModelFinancialLexicon, ModelFinancialTransformer:
		return true
	}
	return false
}

// Headline is one fetched news item. Immutable once fetched.
type Headline struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// NativeRange declares the scale an analyzer emits raw scores on.
type NativeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RawScore is one analyzer's raw output for one headline, on the
// analyzer's native scale. Never mutated after creation.
type RawScore struct {
	HeadlineID string      `json:"headline_id"`
	Model      ModelName   `json:"model"`
	Value      float64     `json:"value"`
	Range      NativeRange `json:"range"`
}

// TickerAggregate is the per-ticker sentiment signal for one refresh
// window. Models that produced no score for the ticker are absent from
// PerModelMean rather than zero-filled.
type TickerAggregate struct {
	Ticker        string                `json:"ticker"`
	WindowStart   time.Time             `json:"window_start"`
	WindowEnd     time.Time             `json:"window_end"`
	PerModelMean  map[ModelName]float64 `json:"per_model_mean"`
	CombinedScore float64               `json:"combined_score"`
	HeadlineCount int                   `json:"headline_count"`
}

// MarketSnapshot is the screener's view of one ticker for the same
// window. Read-only to the engine.
type MarketSnapshot struct {
	Ticker         string  `json:"ticker"`
	Price          float64 `json:"price"`
	PriceChangePct float64 `json:"price_change_pct"`
	Volume         float64 `json:"volume"`
	RelativeVolume float64 `json:"relative_volume"`
}

// WeightedRecord joins a TickerAggregate with its MarketSnapshot and
// carries the volume-weighted sentiment. Recomputed wholesale each cycle.
type WeightedRecord struct {
	Ticker            string                `json:"ticker"`
	PerModelMean      map[ModelName]float64 `json:"per_model_mean"`
	CombinedScore     float64               `json:"combined_score"`
	HeadlineCount     int                   `json:"headline_count"`
	Price             float64               `json:"price"`
	PriceChangePct    float64               `json:"price_change_pct"`
	Volume            float64               `json:"volume"`
	RelativeVolume    float64               `json:"relative_volume"`
	VolumeWeight      float64               `json:"volume_weight"`
	WeightedSentiment float64               `json:"weighted_sentiment"`
}

// Quadrant labels one region of the (weighted sentiment, price change)
// plane. Zero on either axis belongs to the positive side.
type Quadrant string

const (
	QuadrantSentimentUpPriceUp     Quadrant = "positive_sentiment_price_up"
	QuadrantSentimentDownPriceUp   Quadrant = "negative_sentiment_price_up"
	QuadrantSentimentUpPriceDown   Quadrant = "positive_sentiment_price_down"
	QuadrantSentimentDownPriceDown Quadrant = "negative_sentiment_price_down"
)

var AllQuadrants = []Quadrant{
	QuadrantSentimentUpPriceUp,
	QuadrantSentimentDownPriceUp,
	QuadrantSentimentUpPriceDown,
	QuadrantSentimentDownPriceDown,
}

// CorrelationSummary is derived once per cycle from the full record set.
// PearsonR is nil when either series has no variance.
type CorrelationSummary struct {
	WindowID       string           `json:"window_id"`
	SampleSize     int              `json:"sample_size"`
	PearsonR       *float64         `json:"pearson_r,omitempty"`
	QuadrantCounts map[Quadrant]int `json:"quadrant_counts"`
	Warnings       []string         `json:"warnings,omitempty"`
}

// FilterParams are the optional record-query predicates, combined with
// logical AND. Nil/empty fields mean "no constraint".
type FilterParams struct {
	Tickers           []string `json:"tickers,omitempty"`
	MinSentiment      *float64 `json:"min_sentiment,omitempty"`
	MinRelativeVolume *float64 `json:"min_relative_volume,omitempty"`
}

// CycleResult is the complete output of one refresh cycle: a fresh
// generation of records plus its correlation summary and the tickers
// that were excluded for lack of data.
type CycleResult struct {
	WindowID        string             `json:"window_id"`
	StartedAt       time.Time          `json:"started_at"`
	WindowStart     time.Time          `json:"window_start"`
	WindowEnd       time.Time          `json:"window_end"`
	HeadlineCount   int                `json:"headline_count"`
	ScoredCount     int                `json:"scored_count"`
	ExcludedTickers []string           `json:"excluded_tickers,omitempty"`
	Records         []WeightedRecord   `json:"records"`
	Summary         CorrelationSummary `json:"summary"`
	Errors          []string           `json:"errors,omitempty"`
}
