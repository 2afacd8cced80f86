package main

import (
	"os"

	"expensemate/internal/amqp"
	"expensemate/internal/cli"
	applog "expensemate/internal/log"
	"expensemate/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.Info("Starting expensemate-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notification worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.NotificationLogDB)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	w := worker.NewNotificationWorker(repo, logger.Logger)
	if err := w.Run(ctx, amqpClient); err != nil {
		logger.Error("Notification worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
