package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "go_rates_converter/docs"
	"go_rates_converter/internal/app"
	"go_rates_converter/internal/config"
	"go_rates_converter/internal/database"
	"go_rates_converter/internal/engine"
	"go_rates_converter/internal/external"
	"go_rates_converter/internal/handlers"
	"go_rates_converter/internal/logger"
	"go_rates_converter/internal/middleware"
	"go_rates_converter/internal/network"
	"go_rates_converter/internal/worker"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Rates Converter API
// @version 1.0
// @description Сервис конвертации валют с обновлением курсов в реальном времени
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "converter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Хранилище сессии (опционально)
	var store database.SessionStore
	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database, log.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		store = db
		log.Info("Session store enabled")
	}

	// Опрос курсов и движок конвертации
	client := external.New(&cfg.External, log.Logger)
	poller := worker.New(client, log.Logger, cfg.Worker.Interval, worker.NewMetrics(reg))
	converter := app.New(engine.New(log.Component("engine")), poller, store, log.Logger, app.Options{
		BaseCurrency:     cfg.App.BaseCurrency,
		MaxDigits:        cfg.App.MaxDigits,
		MaxDecimalDigits: cfg.App.MaxDecimalDigits,
		SessionID:        cfg.App.SessionID,
	})

	// Доступность сети только переключает баннер
	var connectivity <-chan bool
	checker, err := network.NewTCPChecker(cfg.External.BaseURL, cfg.Network.ProbeTimeout)
	if err != nil {
		log.WithError(err).Warn("Network monitor disabled")
	} else {
		connectivity = network.NewMonitor(checker, cfg.Network.ProbeInterval, log.Logger).Run(ctx)
	}

	// HTTP
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log.Logger))
	router.Use(middleware.LoggingMiddleware(log.Logger))
	router.Use(middleware.MetricsMiddleware(reg))
	router.Use(middleware.CORSMiddleware())

	api := router.PathPrefix("/api/v1").Subrouter()
	handlers.New(converter, log.Logger).RegisterRoutes(api)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- converter.Run(ctx, connectivity)
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var result error
	converterDone := false
	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err := <-runErr:
		converterDone = true
		result = err
	case err := <-serverErr:
		result = fmt.Errorf("http server failed: %w", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down HTTP server")
	}

	// Дожидаемся сохранения сессии до закрытия базы
	if !converterDone {
		select {
		case err := <-runErr:
			if result == nil {
				result = err
			}
		case <-shutdownCtx.Done():
			log.Warn("Converter did not stop in time")
		}
	}

	log.Info("Server stopped")
	return result
}
