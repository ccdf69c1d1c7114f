package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"headline-radar/internal/analyzer"
	"headline-radar/internal/bot"
	"headline-radar/internal/cache"
	"headline-radar/internal/config"
	"headline-radar/internal/db"
	"headline-radar/internal/handler"
	"headline-radar/internal/job"
	"headline-radar/internal/provider"
	"headline-radar/internal/repository"
	"headline-radar/internal/service"
	"headline-radar/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initPostgresFunc    = db.InitPostgres
	initRedisFunc       = cache.InitRedis
	initTracerFunc      = tracing.InitTracer
	newSnapshotRepoFunc = repository.NewSnapshotRepository
	newHeadlineProvider = func(tracer trace.Tracer, cfg *config.Config) service.HeadlineProvider {
		if cfg.DemoMode {
			return provider.NewDemoProvider(time.Now().UnixNano())
		}
		return provider.NewRSSProvider(tracer)
	}
	newSnapshotProvider = func(tracer trace.Tracer, cfg *config.Config) service.SnapshotProvider {
		if cfg.DemoMode {
			return provider.NewDemoProvider(time.Now().UnixNano())
		}
		return provider.NewScreenerProvider(cfg.FinvizAPIToken, tracer)
	}
	newCycleServiceFunc    = service.NewCycleService
	newCycleJobFunc        = job.NewCycleJob
	startJobFunc           = func(j *job.CycleJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Storage, providers, analyzers
	var store service.SnapshotStore
	if db.Pool != nil {
		repo := newSnapshotRepoFunc(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		store = repo
	}

	analyzers := []analyzer.Analyzer{
		analyzer.NewGeneralAnalyzer(),
		analyzer.NewFinancialLexiconAnalyzer(),
	}
	if transformer := analyzer.NewTransformerAnalyzer(cfg.OpenAIAPIKey, cfg.OpenAIModel); transformer != nil {
		analyzers = append(analyzers, transformer)
	}

	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}

	cycleService := newCycleServiceFunc(
		tracer,
		analyzers,
		newHeadlineProvider(tracer, cfg),
		newSnapshotProvider(tracer, cfg),
		store,
		redisClient,
		service.CycleConfig{
			Tickers:       cfg.Tickers,
			HeadlineLimit: cfg.HeadlineLimit,
			WindowHours:   cfg.WindowHours,
			CacheTTL:      time.Duration(cfg.CacheTTLSecs) * time.Second,
		},
	)

	// Start refresh job (background goroutine, stopped by ctx cancel)
	cycleJob := newCycleJobFunc(tracer, cycleService, time.Duration(cfg.RefreshMins)*time.Minute)
	startJobFunc(cycleJob, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(cycleService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, cycleService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("headline-radar"))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
