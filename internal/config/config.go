package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

var defaultTickers = []string{"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "TSLA"}

type Config struct {
	HTTPAddr         string
	DatabaseURL      string
	RedisURL         string
	TelegramBotToken string

	FinvizAPIToken string
	OpenAIAPIKey   string
	OpenAIModel    string

	Tickers       []string
	HeadlineLimit int
	WindowHours   int
	RefreshMins   int
	CacheTTLSecs  int
	DemoMode      bool
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		FinvizAPIToken:   os.Getenv("FINVIZ_API_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, cycles will not be persisted")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, cycle caching disabled")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, transformer scoring disabled")
	}

	cfg.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.Tickers = defaultTickers
	if v := strings.TrimSpace(os.Getenv("TICKERS")); v != "" {
		tickers := make([]string, 0, 8)
		for _, t := range strings.Split(v, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				tickers = append(tickers, t)
			}
		}
		if len(tickers) > 0 {
			cfg.Tickers = tickers
		}
	}

	cfg.HeadlineLimit = 20
	if v := strings.TrimSpace(os.Getenv("HEADLINE_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HeadlineLimit = n
		}
	}

	cfg.WindowHours = 24
	if v := strings.TrimSpace(os.Getenv("WINDOW_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WindowHours = n
		}
	}

	cfg.RefreshMins = 15
	if v := strings.TrimSpace(os.Getenv("REFRESH_MINS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshMins = n
		}
	}

	cfg.CacheTTLSecs = 600
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSecs = n
		}
	}

	cfg.DemoMode = strings.EqualFold(strings.TrimSpace(os.Getenv("DEMO_MODE")), "true")
	if cfg.DemoMode {
		log.Println("Demo mode enabled: using generated headlines and market data")
	}

	return cfg
}
