package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"provenance-api/internal/articles"
	"provenance-api/internal/auth"
	"provenance-api/internal/cache"
	"provenance-api/internal/config"
	"provenance-api/internal/database"
	"provenance-api/internal/endpoints"
	"provenance-api/internal/logging"
	"provenance-api/internal/metrics"
	"provenance-api/internal/models"
	"provenance-api/internal/realtime"
	"provenance-api/internal/routes"
	"provenance-api/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(v *viper.Viper, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the article API and poll feed endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.UsesDefaultJWTSecret() {
		logger.Warn("auth.jwt_secret is the built-in default; tokens can be forged. Set PROVENANCE_AUTH_JWT_SECRET")
	}
	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)

	if err := database.InitDB(cfg.Database.Path, logger.Named("db")); err != nil {
		return err
	}
	db := database.GetDB()

	articleGateway := articles.NewGateway(db)
	if cfg.Seed {
		if err := articleGateway.Seed(ctx, articles.DefaultSeed); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	listingCache := cache.NewSynchronized[string, []models.ArticleInfo](cache.WithLogger(logger.Named("cache")))
	lister := articles.NewCachedLister(articleGateway, listingCache, cfg.Cache.ArticlesTTL, m, logger.Named("articles"))

	hub := realtime.GetHub()
	worker := endpoints.NewWorker(articleGateway, endpoints.WorkerOpts{
		Timeout: cfg.Worker.Timeout,
		Hub:     hub,
		Metrics: m,
		Logger:  logger.Named("worker"),
	})
	finder := endpoints.NewWorkFinder(endpoints.NewGateway(db), logger.Named("finder"))
	scheduler := workflow.NewScheduler[endpoints.Task](finder, []workflow.Worker[endpoints.Task]{worker}, cfg.Worker.Interval, logger.Named("scheduler"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRoutes(routes.Dependencies{
		Articles: lister,
		Hub:      hub,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:   logger.Named("http"),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Strings("endpoints", []string{
				"GET    /articles",
				"GET    /available",
				"POST   /api/login",
				"GET    /api/endpoints",
				"POST   /api/endpoints",
				"GET    /ws",
				"GET    /metrics",
				"GET    /health",
			}),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
