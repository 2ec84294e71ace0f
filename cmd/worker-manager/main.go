package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "credit-score-workers/internal/common/aws"
	"credit-score-workers/internal/common/camunda"
	"credit-score-workers/internal/common/config"
	"credit-score-workers/internal/common/database"
	"credit-score-workers/internal/common/logger"
	"credit-score-workers/internal/common/observability"

	car "credit-score-workers/internal/workers/assessment/create-assessment-record"
	ia "credit-score-workers/internal/workers/assessment/index-assessment"
	sa "credit-score-workers/internal/workers/assessment/search-assessments"
	ssr "credit-score-workers/internal/workers/communication/send-score-report"
	ccs "credit-score-workers/internal/workers/credit/calculate-credit-score"
	vcp "credit-score-workers/internal/workers/credit/validate-credit-profile"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting credit score worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	defer obs.Shutdown()

	ctx := context.Background()

	// ==========================
	// External connections
	// ==========================

	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return err
		}
		return pg.EnsureSchema(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := esClient.Ping(); err != nil {
			return err
		}
		return esClient.EnsureIndex(ctx, cfg.Search.AssessmentIndex, database.AssessmentIndexMapping)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Search.AssessmentIndex))

	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	awsCfg := cfg.Integrations.AWS
	var emailSender ssr.EmailSender
	var smsSender ssr.SMSSender
	if awsCfg.SES.Enabled || awsCfg.SNS.Enabled {
		sdkCfg, err := awsclients.LoadConfig(ctx, awsCfg.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if awsCfg.SES.Enabled {
			emailSender = awsclients.NewSESClient(sdkCfg, awsCfg.SES.FromEmail)
		}
		if awsCfg.SNS.Enabled {
			smsSender = awsclients.NewSNSClient(sdkCfg, awsCfg.SNS.DefaultSMSSenderID)
		}
	}

	zapLog.Info("All external service clients initialized")

	// ==========================
	// Workers
	// ==========================

	var workers []*camunda.CamundaWorker
	register := func(taskType string, handler camunda.JobHandler) {
		if w := camunda.NewWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, zapLog); w != nil {
			workers = append(workers, w)
		}
	}
	timeoutFor := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	if config.IsWorkerEnabled(cfg, vcp.TaskType) {
		handler, err := vcp.NewHandler(&vcp.Config{
			Timeout:       timeoutFor(vcp.TaskType),
			FailOnInvalid: cfg.Scoring.FailOnInvalidProfile,
			RegistryPath:  cfg.RegistryPath,
		}, log)
		if err != nil {
			zapLog.Fatal("failed to create validate-credit-profile handler", zap.Error(err))
		}
		register(vcp.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, ccs.TaskType) {
		handler := ccs.NewHandler(&ccs.Config{
			Timeout:         timeoutFor(ccs.TaskType),
			CacheEnabled:    cfg.Scoring.CacheEnabled,
			CacheTTL:        cfg.Scoring.TTL(),
			InquiryMatching: cfg.Scoring.InquiryMatching,
		}, redis.Cmdable(), obs, log)
		register(ccs.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, car.TaskType) {
		handler := car.NewHandler(&car.Config{
			Timeout: timeoutFor(car.TaskType),
		}, pg.GetDB(), log)
		register(car.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, ia.TaskType) {
		handler := ia.NewHandler(&ia.Config{
			Timeout: timeoutFor(ia.TaskType),
			Index:   cfg.Search.AssessmentIndex,
			Refresh: cfg.Search.Refresh,
		}, esClient.Client, log)
		register(ia.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, sa.TaskType) {
		handler := sa.NewHandler(&sa.Config{
			Timeout:     timeoutFor(sa.TaskType),
			Index:       cfg.Search.AssessmentIndex,
			DefaultSize: cfg.Search.DefaultSize,
			MaxSize:     cfg.Search.MaxSize,
		}, esClient.Client, log)
		register(sa.TaskType, handler)
	}

	if config.IsWorkerEnabled(cfg, ssr.TaskType) {
		handler := ssr.NewHandler(&ssr.Config{
			Timeout:      timeoutFor(ssr.TaskType),
			EmailEnabled: awsCfg.SES.Enabled,
			SMSEnabled:   awsCfg.SNS.Enabled,
		}, emailSender, smsSender, log)
		register(ssr.TaskType, handler)
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// ==========================
	// Health & metrics
	// ==========================

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		record := func(name string, err error) {
			if err != nil {
				checks[name] = err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		}
		record("zeebe", zeebe.HealthCheck(checkCtx))
		record("postgres", pg.Ping(checkCtx))
		record("elasticsearch", esClient.Ping())
		record("redis", redis.Ping(checkCtx))

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		writeJSON(w, status, map[string]interface{}{
			"status": state,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// ==========================
	// Shutdown
	// ==========================

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
