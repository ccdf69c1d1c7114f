package engine

import (
	"encoding/csv"
	"strings"
	"testing"

	"headline-radar/internal/domain"
)

func TestWriteCSVStableColumnsAndAbsentModels(t *testing.T) {
	records := []domain.WeightedRecord{
		{
			Ticker: "ABC",
			PerModelMean: map[domain.ModelName]float64{
				domain.ModelGeneral:          0.2,
				domain.ModelFinancialLexicon: 0.5,
			},
			CombinedScore:     0.35,
			HeadlineCount:     3,
			Price:             42.5,
			PriceChangePct:    1.2,
			Volume:            800000,
			RelativeVolume:    3,
			VolumeWeight:      2,
			WeightedSentiment: 0.7,
		},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	for i, col := range ExportColumns {
		if rows[0][i] != col {
			t.Fatalf("column %d: expected %s, got %s", i, col, rows[0][i])
		}
	}

	row := rows[1]
	if row[0] != "ABC" || row[1] != "3" {
		t.Fatalf("unexpected identity columns: %v", row)
	}
	if row[2] != "0.2000" || row[3] != "0.5000" {
		t.Fatalf("unexpected model means: %v", row)
	}
	// Transformer produced nothing for ABC; the cell is empty, not 0.
	if row[4] != "" {
		t.Fatalf("absent model must export as empty cell, got %q", row[4])
	}
	if row[5] != "0.3500" || row[11] != "0.7000" {
		t.Fatalf("unexpected score columns: %v", row)
	}
}

func TestWriteCSVEmptyRecordSetStillHasHeader(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := strings.TrimSpace(sb.String())
	if line != strings.Join(ExportColumns, ",") {
		t.Fatalf("expected bare header, got %q", line)
	}
}
