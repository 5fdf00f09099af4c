package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/melitech/docengine/internal/app"
	billinghttp "github.com/melitech/docengine/internal/billing/http"
	"github.com/melitech/docengine/internal/company"
	"github.com/melitech/docengine/internal/numbering"
	numberinghttp "github.com/melitech/docengine/internal/numbering/http"
	"github.com/melitech/docengine/internal/platform/cache"
	"github.com/melitech/docengine/internal/platform/db"
	"github.com/melitech/docengine/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool, logger); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	var counterStore numbering.Store
	switch cfg.CounterBackend {
	case "redis":
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		counterStore = numbering.NewRedisStore(redisClient)
	default:
		counterStore = numbering.NewPostgresStore(dbpool)
	}

	allocator := numbering.NewAllocator(counterStore, cfg.AllocateTimeout, logger)
	profileStore := company.NewStore(dbpool)

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(reportClient, logger)

	numberingHandler := numberinghttp.NewHandler(logger, allocator, counterStore)
	companyHandler := company.NewHandler(logger, profileStore)
	billingHandler := billinghttp.NewHandler(logger, allocator, profileStore, reportClient)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		NumberingHandler: numberingHandler,
		BillingHandler:   billingHandler,
		CompanyHandler:   companyHandler,
		ReportHandler:    reportHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("counter_backend", cfg.CounterBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
