// Package app wires configuration, storage, services and transport into a
// running HTTP server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	attributerepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/attribute"
	auditrepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/audit"
	batchrepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/batch"
	employeerepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/employee"
	projectionrepo "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/projection"
	"github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/schema"
	"github.com/nkhrm/salary-policy-backend/internal/adapter/xlsx"
	"github.com/nkhrm/salary-policy-backend/internal/auth"
	"github.com/nkhrm/salary-policy-backend/internal/config"
	batchsvc "github.com/nkhrm/salary-policy-backend/internal/service/batch"
	projectionsvc "github.com/nkhrm/salary-policy-backend/internal/service/projection"
	registrysvc "github.com/nkhrm/salary-policy-backend/internal/service/registry"
	"github.com/nkhrm/salary-policy-backend/internal/transport/middleware"
	"github.com/nkhrm/salary-policy-backend/internal/transport/rest"
	"github.com/nkhrm/salary-policy-backend/migrations"
)

// Run is the application entry point. It loads configuration, applies
// migrations, wires repositories, services and handlers, and serves HTTP
// until the context is cancelled or a termination signal arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Migrate(ctx, cfg.Database.DSN); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	attrRepo := attributerepo.New(pool)
	batRepo := batchrepo.New(pool)
	audRepo := auditrepo.New(pool)
	empRepo := employeerepo.New(pool)
	projRepo := projectionrepo.New(pool)
	materializer := schema.New(pool, logger)

	projectionService := projectionsvc.NewService(logger, projRepo, attrRepo, batRepo)
	registryService := registrysvc.NewService(logger, attrRepo, materializer, projRepo, txm)
	batchService := batchsvc.NewService(
		logger, batRepo, attrRepo, empRepo, audRepo, materializer,
		projectionService, txm,
		batchsvc.Config{DedupWindow: cfg.Policy.DedupWindow},
	)

	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAccessTTL)
	sheetReader := xlsx.NewReader(cfg.Policy.EmployeeKeyHeader, cfg.Policy.ImportMaxRows)

	mux := rest.NewRouter(rest.Handlers{
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Attributes:  rest.NewAttributeHandler(registryService, logger),
		Batches:     rest.NewBatchHandler(batchService, sheetReader, logger),
		Projections: rest.NewProjectionHandler(projectionService, logger),
	})

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtMgr),
		rateLimiter.Limit(600),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Migrate applies the embedded goose migrations to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", slog.String("source", r.Source.Path))
	}
	return nil
}
