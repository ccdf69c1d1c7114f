package analyzer

import (
	"context"

	"headline-radar/internal/domain"
)

// Analyzer is one black-box sentiment model. It scores a batch of
// headlines on its own native scale; the engine normalizes later. A
// headline the analyzer could not score is simply absent from the
// output — absence is never encoded as zero.
type Analyzer interface {
	Name() domain.ModelName
	NativeRange() domain.NativeRange
	Score(ctx context.Context, headlines []domain.Headline) ([]domain.RawScore, error)
}
