// cmd/worker-manager/main.go
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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"dining-recommender/internal/api"
	"dining-recommender/internal/common/aws"
	"dining-recommender/internal/common/camunda"
	"dining-recommender/internal/common/config"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/observability"
	"dining-recommender/internal/common/validation"
	"dining-recommender/internal/recommender"
	"dining-recommender/pkg/registry"

	pdq "dining-recommender/internal/workers/dining/parse-dining-query"
	rr "dining-recommender/internal/workers/dining/recommend-restaurants"
	sr "dining-recommender/internal/workers/dining/score-restaurant"
	vd "dining-recommender/internal/workers/dining/verify-dataset"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker-manager: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, envFile, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return err
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("datasetSource", cfg.Dataset.Source),
		zap.String("envFile", envFile),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.Observability.ServiceName)
	if err != nil {
		return fmt.Errorf("observability init failed: %w", err)
	}
	defer shutdown(obs.Shutdown, "observability", zapLog)

	tracing, err := observability.NewTracing(cfg.Observability.ServiceName, cfg.Observability.Tracing.Enabled, cfg.Observability.Tracing.JaegerEndpoint)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer shutdown(tracing.Shutdown, "tracing", zapLog)

	// --- Dataset, geocoding and ranking ---
	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	source, err := newProvider(cfg, stores)
	if err != nil {
		return err
	}

	ranker := recommender.NewRanker(&recommender.Config{
		DefaultTopN:    cfg.Recommend.DefaultTopN,
		MaxTopN:        cfg.Recommend.MaxTopN,
		GeocodeTimeout: config.GetDuration(cfg.Geocoding.Timeout),
		LoadRetries:    cfg.Dataset.LoadRetries,
	}, source, newResolver(cfg, stores, log), log)

	alerter, err := aws.NewAlerter(ctx, cfg.Alerts, log)
	if err != nil {
		return fmt.Errorf("alerter init failed: %w", err)
	}

	// --- Workers ---
	var workers []*camunda.JobWorker
	if config.AnyWorkerEnabled(cfg) {
		reg, validator, err := loadValidator(cfg.Registry.Path)
		if err != nil {
			return err
		}

		client, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.UsePlaintext,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil {
			return err
		}
		defer client.Close()
		zapLog.Info("zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

		handlers := map[string]worker.JobHandler{
			pdq.TaskType: pdq.NewHandler(&pdq.Config{
				Timeout: jobTimeout(cfg, reg, pdq.TaskType, pdq.LoadConfig().Timeout),
			}, validator, log).Handle,
			sr.TaskType: sr.NewHandler(&sr.Config{
				Timeout: jobTimeout(cfg, reg, sr.TaskType, sr.LoadConfig().Timeout),
			}, validator, log).Handle,
			rr.TaskType: rr.NewHandler(&rr.Config{
				Timeout: jobTimeout(cfg, reg, rr.TaskType, rr.LoadConfig().Timeout),
			}, ranker, validator, obs, log).Handle,
			vd.TaskType: vd.NewHandler(&vd.Config{
				Timeout:          jobTimeout(cfg, reg, vd.TaskType, vd.LoadConfig().Timeout),
				MaxAlertProblems: vd.LoadConfig().MaxAlertProblems,
			}, source, alerter, validator, log).Handle,
		}

		for taskType, handler := range handlers {
			if !config.IsWorkerEnabled(cfg, taskType) {
				zapLog.Info("worker disabled", zap.String("taskType", taskType))
				continue
			}
			w := camunda.StartWorker(client.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType), instrument(obs, taskType, handler), log)
			workers = append(workers, w)
		}
	}

	// --- HTTP API ---
	server := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewServer(ranker, api.Options{
			ServiceName:    cfg.Observability.ServiceName,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Ready: func(ctx context.Context) error {
				_, err := source.Load(ctx)
				return err
			},
		}, log).Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("shutdown signal received, stopping workers")
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http server shutdown", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}

	zapLog.Info("worker manager stopped")
	return nil
}

// instrument records per-job otel metrics around a worker handler.
func instrument(obs *observability.Observability, taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler(client, job)
		ctx := context.Background()
		obs.RecordJobProcessed(ctx, taskType, "handled")
		obs.RecordJobDuration(ctx, taskType, time.Since(start), "handled")
	}
}

func loadValidator(path string) (*registry.ActivityRegistry, *validation.SchemaValidator, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load activity registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("activity registry: %w", err)
	}

	validator := validation.NewSchemaValidator()
	for _, activity := range reg.Activities {
		if err := validator.Register(activity.TaskType, activity.InputSchema); err != nil {
			return nil, nil, fmt.Errorf("register schema for %s: %w", activity.TaskType, err)
		}
	}
	return reg, validator, nil
}

// jobTimeout resolves a worker timeout: explicit worker config first, then the
// registry entry, then the worker's own default.
func jobTimeout(cfg *config.Config, reg *registry.ActivityRegistry, taskType string, fallback time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	if activity, ok := reg.Find(taskType); ok {
		if d := activity.TimeoutDuration(); d > 0 {
			return d
		}
	}
	return fallback
}

func shutdown(fn func(context.Context) error, name string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
