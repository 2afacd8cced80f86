package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expensemate/internal/amqp"
	"expensemate/internal/backend"
	"expensemate/internal/cli"
	apphttp "expensemate/internal/http"
	applog "expensemate/internal/log"
	"expensemate/internal/notify"
	"expensemate/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize record provider", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Record provider cleanup failed", "error", err)
		}
	}()

	notifiers := notify.Multi{notify.NewLogNotifier(logger.WithComponent(applog.ComponentNotify))}
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Notifications are still logged without the broker.
			logger.Warn("AMQP unavailable, notifications will only be logged", "error", err)
		} else {
			defer amqpClient.Close()
			notifiers = append(notifiers, amqpClient)
			logger.Info("Publishing notifications to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	annual, monthly := cfg.Budgets()
	svc := services.NewExpenseService(result.Records, notifiers, services.Options{
		AnnualBudget:  annual,
		MonthlyBudget: monthly,
		CacheSize:     cfg.CacheSize,
		CacheTTL:      cfg.CacheTTL,
		Logger:        logger,
	})

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
		Backend:            cfg.DataBackend,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("Starting expensemate", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
