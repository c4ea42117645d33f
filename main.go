package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"gigbook/internal/app"
	"gigbook/internal/config"
	"gigbook/internal/infrastructure/clients"
)

func main() {
	log.Init(logrus.InfoLevel)

	cfg, err := config.Parse()
	if err != nil {
		logrus.WithError(err).Panic("failed to parse config")
	}

	watermillLogger := log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))

	db, err := sqlx.Open("postgres", cfg.PostgresURL)
	if err != nil {
		logrus.WithError(err).Panic("failed to connect to database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	blobClient := clients.NewBlobClient(cfg.StorageBaseURL)
	mailerClient := clients.NewMailerClient(cfg.MailerBaseURL)
	checkoutClient := clients.NewCheckoutClient(cfg.CheckoutBaseURL)

	a, err := app.NewApp(
		watermillLogger,
		blobClient,
		mailerClient,
		checkoutClient,
		redisClient,
		db,
		cfg.HTTPAddr,
		cfg.SignedURLTTL,
	)
	if err != nil {
		logrus.WithError(err).Panic("failed to initialize app")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Panic("app run failed")
	}
}
