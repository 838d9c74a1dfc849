// cmd/mailer/main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"shop-api/pkg/mailer"
	"shop-api/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name+"-mailer", config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	if config.RabbitMQ.URL == "" || config.Mailgun.Domain == "" {
		logger.Fatal("RABBITMQ_URL and MAILGUN_DOMAIN are required for the mail worker")
	}

	conn, err := amqp.Dial(config.RabbitMQ.URL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", zap.Error(err))
	}
	defer func() { _ = ch.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := mailer.NewMailgun(config.Mailgun.Domain, config.Mailgun.APIKey, config.Mailgun.Sender)
	worker := mailer.NewWorker(sender, logger)
	if err := worker.Run(ctx, ch, config.RabbitMQ.EmailQueue); err != nil {
		logger.Error("Mail worker stopped", zap.Error(err))
	}
	logger.Info("Mail worker exited")
}
