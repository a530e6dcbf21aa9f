package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"eventhive/internal/app"
	"eventhive/internal/config"
	"eventhive/internal/infrastructure/clients"
	"eventhive/internal/infrastructure/payments"
	"eventhive/internal/pkg/log"
)

func main() {
	log.Init(logrus.InfoLevel)
	watermillLogger := log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Panic("failed to load config")
	}

	db, err := sqlx.Connect("postgres", cfg.PostgresURL)
	if err != nil {
		logrus.WithError(err).Panic("failed to connect to postgres")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	paymentsClient := payments.NewClient(
		cfg.Payments.BaseURL,
		cfg.Payments.KeyID,
		cfg.Payments.KeySecret,
	)
	paymentsCoordinator := payments.NewCoordinator()
	paymentsProvider := payments.NewProvider(paymentsClient, paymentsCoordinator)

	documentStore := clients.NewDocumentStoreClient(
		cfg.DocumentStore.BaseURL,
		cfg.DocumentStore.Timeout,
	)

	a, err := app.NewApp(
		watermillLogger,
		cfg,
		paymentsProvider,
		paymentsCoordinator,
		documentStore,
		redisClient,
		db,
	)
	if err != nil {
		logrus.WithError(err).Panic("failed to initialize application")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logrus.Info("Server starting...")

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Panic("application stopped with error")
	}
}
