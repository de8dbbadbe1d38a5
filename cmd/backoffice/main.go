package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/amqp"
	"backoffice/internal/cache"
	"backoffice/internal/cli"
	apphttp "backoffice/internal/http"
	"backoffice/internal/services"
	"backoffice/internal/stripe"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional: without it orders are still created, they just
	// wait for the worker's periodic sweep instead of a live message.
	var publisher services.ExportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, order exports will rely on the periodic sweep", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	var platform services.PlatformCounter
	if cfg.StripeSecretKey != "" {
		platform = stripe.NewClient(cfg.StripeAPIBase, cfg.StripeSecretKey)
		logger.Info("Stripe client initialized")
	} else {
		logger.Info("Stripe disabled - no STRIPE_SECRET_KEY provided")
	}

	registry := cache.NewRegistry()
	srv := apphttp.NewServer(
		":"+cfg.Port,
		services.NewOrderService(repo, publisher, registry),
		services.NewDrawService(repo, registry),
		services.NewExpenseService(repo, registry),
		services.NewDashboardService(repo, platform),
		registry,
	)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting backoffice server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
