package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hrdocs/internal/auth"
	"hrdocs/internal/config"
	"hrdocs/internal/database"
	"hrdocs/internal/database/migration"
	handlers "hrdocs/internal/http/handler"
	"hrdocs/internal/http/middleware"
	"hrdocs/internal/logging"
	"hrdocs/internal/metrics"
	"hrdocs/internal/otel"
	"hrdocs/internal/repository/postgres"
	"hrdocs/internal/service"
	"hrdocs/internal/storage"
)

const (
	uploadBodyLimit = 20 << 20
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.Secret == "" {
		log.Warn("JWT_SECRET is empty; login and authenticated routes will fail until it is set")
	}

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return err
		}
	}

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	log.Info("storage ready", "driver", cfg.Storage.Driver)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	docRepo := postgres.NewDocumentPostgres(db)
	empRepo := postgres.NewEmployeePostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)

	tokens := auth.NewTokenService(cfg.Auth.Secret)
	docSvc := service.NewDocumentService(service.DocumentDeps{
		Store:     store,
		Documents: docRepo,
		Employees: empRepo,
		Users:     userRepo,
		Audit:     service.NewAuditRecorder(auditRepo, m, log),
		Metrics:   m,
		Logger:    log,
		Location:  cfg.Location(),
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log, cfg.IsLocal()),
		BodyLimit:    uploadBodyLimit,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMW.Handler())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Guard:     auth.NewGuard(tokens),
		Auth:      service.NewAuthService(userRepo, tokens, cfg.Auth.TTL, log),
		Documents: docSvc,
		Users:     service.NewUserService(userRepo, empRepo, log),
		Employees: service.NewEmployeeService(empRepo, log),
		Gatherer:  reg,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port, "env", cfg.Env)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	if cfg.Driver == "minio" {
		return storage.NewMinIO(ctx, cfg.MinIO, "")
	}
	return storage.NewLocal(cfg.UploadDir)
}
