package analyzer

import (
	"context"
	"strings"

	"headline-radar/internal/domain"
)

// FinancialLexiconAnalyzer scores headlines against a finance-specific
// weighted term list. Raw output is the additive term weight on a
// [-6, 6] native scale, so it exercises real normalization rather than
// arriving pre-scaled.
type FinancialLexiconAnalyzer struct{}

func NewFinancialLexiconAnalyzer() *FinancialLexiconAnalyzer {
	return &FinancialLexiconAnalyzer{}
}

var financialTermWeights = map[string]float64{
	"beats estimates":    2.5,
	"raises guidance":    2.5,
	"upgrade":            2.0,
	"upgraded":           2.0,
	"buyback":            1.5,
	"dividend increase":  1.5,
	"record revenue":     2.0,
	"profit":             1.0,
	"acquisition":        1.0,
	"partnership":        1.0,
	"contract":           1.0,
	"approval":           1.5,
	"outperform":         1.5,
	"misses estimates":   -2.5,
	"cuts guidance":      -2.5,
	"lowers guidance":    -2.5,
	"downgrade":          -2.0,
	"downgraded":         -2.0,
	"bankruptcy":         -3.0,
	"default":            -2.5,
	"sec investigation":  -2.5,
	"investigation":      -1.5,
	"lawsuit":            -1.5,
	"layoffs":            -1.5,
	"dilution":           -1.5,
	"offering":           -1.0,
	"short seller":       -1.5,
	"delisting":          -3.0,
	"going concern":      -3.0,
	"underperform":       -1.5,
	"fraud":              -3.0,
	"recall":             -1.5,
	"restated":           -2.0,
	"misses revenue":     -2.0,
	"guidance withdrawn": -2.5,
}

func (a *FinancialLexiconAnalyzer) Name() domain.ModelName { return domain.ModelFinancialLexicon }

func (a *FinancialLexiconAnalyzer) NativeRange() domain.NativeRange {
	return domain.NativeRange{Min: -6, Max: 6}
}

func (a *FinancialLexiconAnalyzer) Score(ctx context.Context, headlines []domain.Headline) ([]domain.RawScore, error) {
	out := make([]domain.RawScore, 0, len(headlines))
	for _, h := range headlines {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		text := strings.ToLower(strings.TrimSpace(h.Title))
		if text == "" {
			continue
		}
		total := 0.0
		matched := false
		for term, weight := range financialTermWeights {
			if strings.Contains(text, term) {
				total += weight
				matched = true
			}
		}
		if !matched {
			// No finance-specific vocabulary: this model has nothing to say,
			// so the headline is left unscored rather than zero-filled.
			continue
		}
		out = append(out, domain.RawScore{HeadlineID: h.ID, Model: a.Name(), Value: total, Range: a.NativeRange()})
	}
	return out, nil
}
