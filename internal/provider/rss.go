package provider

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"headline-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const yahooRSSBaseURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

// RSSProvider fetches per-ticker headlines from the Yahoo Finance RSS
// feed.
type RSSProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewRSSProvider builds a provider rate limited to one feed request per
// second, matching the upstream's tolerance for per-ticker polling.
func NewRSSProvider(tracer trace.Tracer) *RSSProvider {
	return &RSSProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: yahooRSSBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(1, time.Second),
	}
}

// FetchHeadlines returns up to maxItems headlines for one ticker,
// newest-first as the feed delivers them.
func (p *RSSProvider) FetchHeadlines(ctx context.Context, ticker string, maxItems int) ([]domain.Headline, error) {
	_, span := p.tracer.Start(ctx, "rss.fetch-headlines")
	defer span.End()

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if maxItems <= 0 {
		maxItems = 40
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	feedURL := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", p.baseURL, url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title   string `xml:"title"`
				Link    string `xml:"link"`
				GUID    string `xml:"guid"`
				PubDate string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	headlines := make([]domain.Headline, 0, maxItems)
	for i, row := range rss.Channel.Items {
		if i >= maxItems {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		publishedAt := parseRSSDate(row.PubDate)
		if publishedAt.IsZero() {
			publishedAt = time.Now().UTC()
		}
		id := sanitizeText(row.GUID, 250)
		if id == "" {
			id = sanitizeText(row.Link, 250)
		}
		if id == "" {
			h := sha1.Sum([]byte(ticker + "|" + title + "|" + publishedAt.Format(time.RFC3339Nano)))
			id = hex.EncodeToString(h[:])
		}

		headlines = append(headlines, domain.Headline{
			ID:          id,
			Ticker:      ticker,
			Title:       title,
			URL:         sanitizeText(row.Link, 500),
			Source:      "yahoo-rss",
			PublishedAt: publishedAt.UTC(),
		})
	}

	return headlines, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.ReplaceAll(in, "\n", " ")
	in = strings.ReplaceAll(in, "\r", " ")
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		in = in[:maxLen]
	}
	return in
}
