package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/config"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/database"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/database/migration"
	handlers "github.com/Rohini2302/SkEnterprises-Project-sub001/internal/http/handler"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/http/middleware"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/otel"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/repository/postgres"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/service"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/storage"
)

func main() {
	// Configuration comes from environment variables (.env auto-loaded if present).
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Object storage credentials are verified up front so a misconfigured
	// deployment fails at boot instead of on the first upload.
	objStore, err := storage.NewMinIO(cfg.MinIO, cfg.Upload.CommitTimeout)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo, cfg.Upload)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(cfg.Upload.MaxFileBytes) * (cfg.Upload.MaxBatchFiles + 1),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Detailed 5xx error bodies only outside production.
	handlers.RegisterRoutes(app, db, docSvc, !cfg.IsProduction())

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
