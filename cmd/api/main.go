package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/farmbasket-app/farmbasket-backend/api/routes"
	cartsvc "github.com/farmbasket-app/farmbasket-backend/internal/cart"
	"github.com/farmbasket-app/farmbasket-backend/internal/catalog"
	checkoutsvc "github.com/farmbasket-app/farmbasket-backend/internal/checkout"
	"github.com/farmbasket-app/farmbasket-backend/pkg/config"
	"github.com/farmbasket-app/farmbasket-backend/pkg/db"
	"github.com/farmbasket-app/farmbasket-backend/pkg/logger"
	"github.com/farmbasket-app/farmbasket-backend/pkg/metrics"
	"github.com/farmbasket-app/farmbasket-backend/pkg/migrate"
	"github.com/farmbasket-app/farmbasket-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	snapshots, err := cartsvc.NewRedisSnapshotStore(redisClient, cfg.Cart.SnapshotTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot store", err)
		os.Exit(1)
	}
	proposals, err := cartsvc.NewRedisProposalStore(redisClient, cfg.Cart.ProposalTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create proposal store", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Snapshots: snapshots,
		Proposals: proposals,
		Shipping: cartsvc.ShippingPolicy{
			FreeShippingThreshold: cfg.Cart.FreeShippingThreshold,
			FlatFee:               cfg.Cart.FlatShippingFee,
		},
		Logger:       logg,
		Metrics:      metrics.NewCartMetrics(prometheus.DefaultRegisterer),
		VerifyTotals: cfg.Cart.VerifyTotals,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartService)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, catalogService, cartService, checkoutService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && err != http.ErrServerClosed {
			shutdownErr = multierr.Append(shutdownErr, err)
		}
		if shutdownErr != nil {
			logg.Error(ctx, "shutdown finished with errors", shutdownErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
