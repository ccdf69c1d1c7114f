package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"headline-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const screenerBaseURL = "https://elite.finviz.com/export.ashx"

// ScreenerProvider pulls the market snapshot (price, change, volume,
// relative volume) for a ticker set from the screener's CSV export
// endpoint.
type ScreenerProvider struct {
	client  *http.Client
	baseURL string
	token   string
	tracer  trace.Tracer
}

func NewScreenerProvider(token string, tracer trace.Tracer) *ScreenerProvider {
	return &ScreenerProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: screenerBaseURL,
		token:   strings.TrimSpace(token),
		tracer:  tracer,
	}
}

// FetchSnapshots returns one MarketSnapshot per ticker the screener
// knows about. Tickers missing from the export are simply absent from
// the map.
func (p *ScreenerProvider) FetchSnapshots(ctx context.Context, tickers []string) (map[string]domain.MarketSnapshot, error) {
	_, span := p.tracer.Start(ctx, "screener.fetch-snapshots")
	defer span.End()

	if len(tickers) == 0 {
		return map[string]domain.MarketSnapshot{}, nil
	}
	if p.token == "" {
		return nil, fmt.Errorf("screener API token is required")
	}

	params := url.Values{}
	params.Set("v", "152")
	params.Set("t", strings.Join(normalizeTickers(tickers), ","))
	params.Set("auth", p.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("screener fetch error %d: %s", resp.StatusCode, string(body))
	}

	return parseScreenerCSV(resp.Body)
}

func parseScreenerCSV(r io.Reader) (map[string]domain.MarketSnapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read screener header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"ticker", "price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("screener export missing %q column", required)
		}
	}

	snapshots := make(map[string]domain.MarketSnapshot, 32)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read screener row: %w", err)
		}
		ticker := strings.ToUpper(strings.Trim(fieldAt(row, col, "ticker"), `"' `))
		if ticker == "" {
			continue
		}
		price, err := parseNumeric(fieldAt(row, col, "price"))
		if err != nil {
			continue
		}
		change, _ := parseNumeric(fieldAt(row, col, "change"))
		volume, _ := parseNumeric(fieldAt(row, col, "volume"))
		relVolume, err := parseNumeric(fieldAt(row, col, "relative volume"))
		if err != nil {
			// Screener omitted relative volume: treat as baseline rather
			// than dropping the ticker's price data.
			relVolume = 1.0
		}

		snapshots[ticker] = domain.MarketSnapshot{
			Ticker:         ticker,
			Price:          price,
			PriceChangePct: change,
			Volume:         volume,
			RelativeVolume: relVolume,
		}
	}
	return snapshots, nil
}

func fieldAt(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseNumeric accepts the screener's formatting quirks: percent signs,
// thousands separators, and quoted cells.
func parseNumeric(v string) (float64, error) {
	v = strings.Trim(strings.TrimSpace(v), `"'`)
	v = strings.TrimSuffix(v, "%")
	v = strings.ReplaceAll(v, ",", "")
	if v == "" || v == "-" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(v, 64)
}

func normalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
