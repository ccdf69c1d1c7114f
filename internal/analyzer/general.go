package analyzer

import (
	"context"
	"strings"

	"headline-radar/internal/domain"
)

// GeneralAnalyzer is a general-purpose keyword polarity model. It emits
// compound-style scores directly on [-1, 1].
type GeneralAnalyzer struct{}

func NewGeneralAnalyzer() *GeneralAnalyzer {
	return &GeneralAnalyzer{}
}

var generalPositive = []string{
	"surge", "rally", "rallies", "soar", "jump", "spike", "gain", "advance",
	"improve", "rise", "climb", "beat", "strong", "growth", "record", "win",
	"breakout", "recover", "upbeat", "optimism",
}

var generalNegative = []string{
	"plunge", "crash", "dive", "tumble", "collapse", "drop", "decline",
	"fall", "weaken", "retreat", "miss", "weak", "loss", "lawsuit", "probe",
	"recall", "cut", "warn", "fear", "slump",
}

func (a *GeneralAnalyzer) Name() domain.ModelName { return domain.ModelGeneral }

func (a *GeneralAnalyzer) NativeRange() domain.NativeRange {
	return domain.NativeRange{Min: -1, Max: 1}
}

func (a *GeneralAnalyzer) Score(ctx context.Context, headlines []domain.Headline) ([]domain.RawScore, error) {
	out := make([]domain.RawScore, 0, len(headlines))
	for _, h := range headlines {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		text := strings.ToLower(strings.TrimSpace(h.Title))
		if text == "" {
			continue
		}
		pos := countTokenMatches(text, generalPositive)
		neg := countTokenMatches(text, generalNegative)
		if pos == 0 && neg == 0 {
			// The lexicon has an opinion on every text it recognizes words in;
			// a fully unfamiliar headline still scores neutral rather than
			// being absent, matching compound-score semantics.
			out = append(out, domain.RawScore{HeadlineID: h.ID, Model: a.Name(), Value: 0, Range: a.NativeRange()})
			continue
		}
		raw := float64(pos-neg) / float64(pos+neg+1)
		out = append(out, domain.RawScore{HeadlineID: h.ID, Model: a.Name(), Value: raw, Range: a.NativeRange()})
	}
	return out, nil
}

func countTokenMatches(text string, tokens []string) int {
	count := 0
	for _, token := range tokens {
		if strings.Contains(text, token) {
			count++
		}
	}
	return count
}
