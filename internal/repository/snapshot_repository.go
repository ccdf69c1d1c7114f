package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"headline-radar/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createSnapshotTables = `
CREATE TABLE IF NOT EXISTS weighted_records (
    ticker              TEXT             NOT NULL PRIMARY KEY,
    window_id           TEXT             NOT NULL,
    per_model_mean      JSONB            NOT NULL,
    combined_score      DOUBLE PRECISION NOT NULL,
    headline_count      INTEGER          NOT NULL,
    price               DOUBLE PRECISION NOT NULL,
    price_change_pct    DOUBLE PRECISION NOT NULL,
    volume              DOUBLE PRECISION NOT NULL,
    relative_volume     DOUBLE PRECISION NOT NULL,
    volume_weight       DOUBLE PRECISION NOT NULL,
    weighted_sentiment  DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS cycle_summaries (
    window_id        TEXT             NOT NULL PRIMARY KEY,
    started_at       TIMESTAMPTZ      NOT NULL,
    window_start     TIMESTAMPTZ      NOT NULL,
    window_end       TIMESTAMPTZ      NOT NULL,
    headline_count   INTEGER          NOT NULL,
    scored_count     INTEGER          NOT NULL,
    sample_size      INTEGER          NOT NULL,
    pearson_r        DOUBLE PRECISION,
    quadrant_counts  JSONB            NOT NULL,
    warnings         TEXT[]           NOT NULL DEFAULT '{}',
    excluded_tickers TEXT[]           NOT NULL DEFAULT '{}',
    errors           TEXT[]           NOT NULL DEFAULT '{}'
);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SnapshotRepository persists exactly one generation of cycle output.
// Each write replaces the prior generation wholesale; no history is
// kept.
type SnapshotRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSnapshotRepository(pool PgxPool, tracer trace.Tracer) *SnapshotRepository {
	return &SnapshotRepository{pool: pool, tracer: tracer}
}

func (r *SnapshotRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "snapshot-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createSnapshotTables)
	return err
}

// ReplaceCycle swaps the stored generation for the given one inside a
// single transaction, so readers never observe a half-written cycle.
func (r *SnapshotRepository) ReplaceCycle(ctx context.Context, result domain.CycleResult) error {
	_, span := r.tracer.Start(ctx, "snapshot-repo.replace-cycle")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace-cycle tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM weighted_records`); err != nil {
		return fmt.Errorf("clear prior records: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cycle_summaries`); err != nil {
		return fmt.Errorf("clear prior summary: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rec := range result.Records {
		means, err := marshalModelMeans(rec.PerModelMean)
		if err != nil {
			return err
		}
		batch.Queue(`
INSERT INTO weighted_records (
    ticker, window_id, per_model_mean, combined_score, headline_count,
    price, price_change_pct, volume, relative_volume, volume_weight, weighted_sentiment
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			rec.Ticker,
			result.WindowID,
			means,
			rec.CombinedScore,
			rec.HeadlineCount,
			rec.Price,
			rec.PriceChangePct,
			rec.Volume,
			rec.RelativeVolume,
			rec.VolumeWeight,
			rec.WeightedSentiment,
		)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		for range result.Records {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert weighted records: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close record batch: %w", err)
		}
	}

	quadrants, err := json.Marshal(result.Summary.QuadrantCounts)
	if err != nil {
		return fmt.Errorf("marshal quadrant counts: %w", err)
	}
	_, err = tx.Exec(ctx, `
INSERT INTO cycle_summaries (
    window_id, started_at, window_start, window_end, headline_count, scored_count,
    sample_size, pearson_r, quadrant_counts, warnings, excluded_tickers, errors
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		result.WindowID,
		result.StartedAt.UTC(),
		result.WindowStart.UTC(),
		result.WindowEnd.UTC(),
		result.HeadlineCount,
		result.ScoredCount,
		result.Summary.SampleSize,
		result.Summary.PearsonR,
		quadrants,
		textArray(result.Summary.Warnings),
		textArray(result.ExcludedTickers),
		textArray(result.Errors),
	)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadLatest reads back the stored generation. Returns (nil, nil) when
// no cycle has been persisted yet.
func (r *SnapshotRepository) LoadLatest(ctx context.Context) (*domain.CycleResult, error) {
	_, span := r.tracer.Start(ctx, "snapshot-repo.load-latest")
	defer span.End()

	var result domain.CycleResult
	var quadrants []byte
	err := r.pool.QueryRow(ctx, `
SELECT window_id, started_at, window_start, window_end, headline_count, scored_count,
       sample_size, pearson_r, quadrant_counts, warnings, excluded_tickers, errors
FROM cycle_summaries
LIMIT 1`).Scan(
		&result.WindowID,
		&result.StartedAt,
		&result.WindowStart,
		&result.WindowEnd,
		&result.HeadlineCount,
		&result.ScoredCount,
		&result.Summary.SampleSize,
		&result.Summary.PearsonR,
		&quadrants,
		&result.Summary.Warnings,
		&result.ExcludedTickers,
		&result.Errors,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	result.Summary.WindowID = result.WindowID
	if err := json.Unmarshal(quadrants, &result.Summary.QuadrantCounts); err != nil {
		return nil, fmt.Errorf("decode quadrant counts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT ticker, per_model_mean, combined_score, headline_count,
       price, price_change_pct, volume, relative_volume, volume_weight, weighted_sentiment
FROM weighted_records
ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.WeightedRecord
		var means []byte
		if err := rows.Scan(
			&rec.Ticker,
			&means,
			&rec.CombinedScore,
			&rec.HeadlineCount,
			&rec.Price,
			&rec.PriceChangePct,
			&rec.Volume,
			&rec.RelativeVolume,
			&rec.VolumeWeight,
			&rec.WeightedSentiment,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.PerModelMean, err = unmarshalModelMeans(means)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &result, nil
}

func marshalModelMeans(means map[domain.ModelName]float64) ([]byte, error) {
	if means == nil {
		means = map[domain.ModelName]float64{}
	}
	out, err := json.Marshal(means)
	if err != nil {
		return nil, fmt.Errorf("marshal per-model means: %w", err)
	}
	return out, nil
}

func unmarshalModelMeans(raw []byte) (map[domain.ModelName]float64, error) {
	means := map[domain.ModelName]float64{}
	if len(raw) == 0 {
		return means, nil
	}
	if err := json.Unmarshal(raw, &means); err != nil {
		return nil, fmt.Errorf("decode per-model means: %w", err)
	}
	return means, nil
}

// textArray keeps empty slices (not NULL) flowing into TEXT[] columns.
func textArray(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
