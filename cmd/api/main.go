package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidhuanca/mayorista-backend/api/routes"
	"github.com/davidhuanca/mayorista-backend/internal/catalog"
	"github.com/davidhuanca/mayorista-backend/internal/inventory"
	"github.com/davidhuanca/mayorista-backend/internal/notify"
	"github.com/davidhuanca/mayorista-backend/internal/orders"
	"github.com/davidhuanca/mayorista-backend/pkg/config"
	"github.com/davidhuanca/mayorista-backend/pkg/db"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
	"github.com/davidhuanca/mayorista-backend/pkg/metrics"
	"github.com/davidhuanca/mayorista-backend/pkg/migrate"
	"github.com/davidhuanca/mayorista-backend/pkg/outbox"
	"github.com/davidhuanca/mayorista-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var mailer notify.Mailer
	if cfg.SMTP.Enabled() {
		smtpMailer, err := notify.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			logg.Error(context.Background(), "failed to configure smtp mailer", err)
			os.Exit(1)
		}
		mailer = smtpMailer
	} else {
		logg.Warn(context.Background(), "smtp not configured, order confirmation emails disabled")
	}

	sellerPublisher, err := notify.NewRedisSellerPublisher(redisClient, cfg.Redis.SellerChannel)
	if err != nil {
		logg.Error(context.Background(), "failed to configure seller publisher", err)
		os.Exit(1)
	}

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)
	catalogRepo := catalog.NewRepository(dbClient.DB())

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		Catalog:  catalogRepo,
		Ledger:   inventory.NewLedger(),
		Tx:       dbClient,
		Outbox:   outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Notifier: notify.NewNotifier(mailer, sellerPublisher, logg),
		Metrics:  orderMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
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
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Catalog:      catalogRepo,
			Orders:       ordersService,
			PromGatherer: prometheus.DefaultGatherer,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
