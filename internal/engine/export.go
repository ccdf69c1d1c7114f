package engine

import (
	"encoding/csv"
	"io"
	"strconv"

	"headline-radar/internal/domain"
)

// ExportColumns is the stable column order for tabular export. Per-model
// cells are empty (not zero) when the model produced no score for the
// ticker, keeping absence distinguishable from neutral in the export.
var ExportColumns = []string{
	"ticker",
	"headline_count",
	"general_mean",
	"financial_lexicon_mean",
	"financial_transformer_mean",
	"combined_score",
	"price",
	"price_change_pct",
	"volume",
	"relative_volume",
	"volume_weight",
	"weighted_sentiment",
}

// WriteCSV serializes records, one row per ticker, in the order given.
// Callers filter/sort first; export never reorders.
func WriteCSV(w io.Writer, records []domain.WeightedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Ticker,
			strconv.Itoa(rec.HeadlineCount),
			formatModelMean(rec.PerModelMean, domain.ModelGeneral),
			formatModelMean(rec.PerModelMean, domain.ModelFinancialLexicon),
			formatModelMean(rec.PerModelMean, domain.ModelFinancialTransformer),
			formatScore(rec.CombinedScore),
			formatAmount(rec.Price),
			formatAmount(rec.PriceChangePct),
			formatAmount(rec.Volume),
			formatAmount(rec.RelativeVolume),
			formatScore(rec.VolumeWeight),
			formatScore(rec.WeightedSentiment),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatModelMean(means map[domain.ModelName]float64, model domain.ModelName) string {
	v, ok := means[model]
	if !ok {
		return ""
	}
	return formatScore(v)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
