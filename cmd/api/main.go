package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resumeparser/docs"
	"resumeparser/internal/config"
	"resumeparser/internal/database"
	"resumeparser/internal/database/migration"
	"resumeparser/internal/events"
	"resumeparser/internal/extract"
	handlers "resumeparser/internal/http/handler"
	"resumeparser/internal/http/middleware"
	"resumeparser/internal/logging"
	"resumeparser/internal/otel"
	"resumeparser/internal/repository/postgres"
	"resumeparser/internal/scoring"
	"resumeparser/internal/service"
	"resumeparser/internal/storage"
)

// @title Resume Parser API
// @version 1.0
// @description PDF resume text extraction, section segmentation and ATS scoring.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.Stdout(cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.ServiceName, logger)
	if err != nil {
		fatal(logger, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	extractMetrics, err := extract.NewMetrics(reg)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}
	engine := extract.NewEngine(
		extract.WithMinTextLength(cfg.Extraction.MinTextLength),
		extract.WithLogger(logger),
		extract.WithMetrics(extractMetrics),
	)

	scorer, err := newScorer(ctx, cfg.Scoring, reg, logger)
	if err != nil {
		fatal(logger, "scoring_init_failed", err)
	}

	publisher := newPublisher(cfg.Events, logger)
	defer publisher.Close()

	opts := []service.Option{
		service.WithPublisher(publisher),
		service.WithLogger(logger),
		service.WithMaxBytes(cfg.Extraction.MaxUploadBytes),
	}
	parserSvc := service.NewParserService(engine, scorer, opts...)

	// Persistence is optional: without a database the stateless endpoints still work.
	var (
		db        *sql.DB
		resumeSvc service.ResumeService
	)
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			fatal(logger, "database_connect_failed", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			fatal(logger, "migration_failed", err)
		}

		objStore, err := storage.New(ctx, cfg.Storage)
		switch {
		case errors.Is(err, storage.ErrDisabled):
			logger.Warn("storage_disabled", map[string]any{"driver": cfg.Storage.Driver})
		case err != nil:
			fatal(logger, "storage_init_failed", err)
		default:
			resumeRepo := postgres.NewResumePostgres(db)
			resumeSvc = service.NewResumeService(objStore, resumeRepo, engine, opts...)
		}
	}

	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Leave room for the multipart envelope around the largest accepted file.
		BodyLimit: cfg.Extraction.MaxUploadBytes + 1<<20,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(cfg.Location()))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, db, parserSvc, resumeSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			logger.Error("server_shutdown_failed", map[string]any{"error": err.Error()})
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server_starting", map[string]any{
		"addr":       addr,
		"scoring":    scorer != nil,
		"persistent": resumeSvc != nil,
	})
	if err := app.Listen(addr); err != nil {
		fatal(logger, "server_start_failed", err)
	}
}

// newScorer returns nil when no API key is configured; analysis then reports the
// scoring service as unavailable.
func newScorer(ctx context.Context, cfg config.ScoringConfig, reg prometheus.Registerer, logger *logging.Logger) (service.Scorer, error) {
	if !cfg.Enabled() {
		logger.Warn("scoring_disabled", map[string]any{"reason": "SCORING_API_KEY is empty"})
		return nil, nil
	}

	var completer scoring.Completer
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		gc, err := scoring.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		completer = gc
	default:
		completer = scoring.NewChatClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout, nil)
	}

	m, err := scoring.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	return scoring.NewAnalyzer(completer,
		scoring.WithRateLimit(cfg.RatePerSecond),
		scoring.WithTimeout(cfg.Timeout),
		scoring.WithRetries(cfg.MaxRetries),
		scoring.WithMetrics(m),
		scoring.WithLogger(logger),
	), nil
}

func newPublisher(cfg config.EventsConfig, logger *logging.Logger) events.Publisher {
	if cfg.RabbitMQURL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQP(cfg.RabbitMQURL, cfg.Exchange)
	if err != nil {
		logger.Warn("event_publisher_unavailable", map[string]any{"error": err.Error()})
		return events.Nop{}
	}
	return p
}

func fatal(logger *logging.Logger, event string, err error) {
	logger.Error(event, map[string]any{"error": err.Error()})
	os.Exit(1)
}
