package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "REDIS_URL", "TELEGRAM_BOT_TOKEN", "FINVIZ_API_TOKEN",
		"OPENAI_API_KEY", "OPENAI_MODEL", "HTTP_ADDR", "TICKERS",
		"HEADLINE_LIMIT", "WINDOW_HOURS", "REFRESH_MINS", "CACHE_TTL_SECS", "DEMO_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %s", cfg.HTTPAddr)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %s", cfg.OpenAIModel)
	}
	if len(cfg.Tickers) == 0 {
		t.Fatal("expected a default ticker universe")
	}
	if cfg.HeadlineLimit != 20 || cfg.WindowHours != 24 || cfg.RefreshMins != 15 || cfg.CacheTTLSecs != 600 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DemoMode {
		t.Fatal("demo mode should default off")
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("TICKERS", " aapl, msft ,,tsla ")
	t.Setenv("HEADLINE_LIMIT", "5")
	t.Setenv("REFRESH_MINS", "30")
	t.Setenv("DEMO_MODE", "TRUE")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("unexpected database url: %s", cfg.DatabaseURL)
	}
	want := []string{"AAPL", "MSFT", "TSLA"}
	if len(cfg.Tickers) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Tickers)
	}
	for i, w := range want {
		if cfg.Tickers[i] != w {
			t.Fatalf("expected %v, got %v", want, cfg.Tickers)
		}
	}
	if cfg.HeadlineLimit != 5 || cfg.RefreshMins != 30 {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if !cfg.DemoMode {
		t.Fatal("expected demo mode on")
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEADLINE_LIMIT", "many")
	t.Setenv("WINDOW_HOURS", "-3")

	cfg := Load()
	if cfg.HeadlineLimit != 20 {
		t.Fatalf("invalid limit should fall back to default, got %d", cfg.HeadlineLimit)
	}
	if cfg.WindowHours != 24 {
		t.Fatalf("negative hours should fall back to default, got %d", cfg.WindowHours)
	}
}

func TestLoadIgnoresBlankTickerList(t *testing.T) {
	clearEnv(t)
	t.Setenv("TICKERS", " , ,")

	cfg := Load()
	if len(cfg.Tickers) == 0 {
		t.Fatal("blank ticker list should keep the default universe")
	}
}
