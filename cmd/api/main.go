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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/docs"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/cache/valkey"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/classifier"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/config"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/handler"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/logger"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/metrics"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/queue/sqs"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/report"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/repository/clickhouse"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/risk"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title Customer Churn Prediction API
// @version 1.0
// @description Churn scoring, risk segmentation and revenue-at-risk reporting for subscription customers
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	model, err := classifier.LoadLogisticModel(cfg.Model.Path)
	if err != nil {
		log.Fatal("Failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
	}
	log.Info("Model loaded", zap.String("model_version", model.Version()))

	policy, err := risk.NewPolicy(cfg.Risk.LowThreshold, cfg.Risk.HighThreshold, cfg.Risk.HorizonMonths)
	if err != nil {
		log.Fatal("Invalid risk policy", zap.Error(err))
	}

	m := metrics.New()
	opts := []service.Option{
		service.WithMetrics(m),
		service.WithSampleSize(cfg.Risk.SampleSize),
	}

	if cfg.Valkey.Enabled {
		cacheClient, err := valkey.NewClient(ctx, cfg.Valkey, log)
		if err != nil {
			log.Fatal("Failed to create Valkey client", zap.Error(err))
		}
		defer func() {
			if err := cacheClient.Close(); err != nil {
				log.Error("Failed to close Valkey client", zap.Error(err))
			}
		}()
		opts = append(opts, service.WithCache(cacheClient))
	}

	if cfg.History.Enabled {
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}

		clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
		if err != nil {
			log.Fatal("Failed to create ClickHouse client", zap.Error(err))
		}
		defer func(clickhouseClient *clickhouse.Client) {
			if err := clickhouseClient.Close(); err != nil {
				log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		}(clickhouseClient)

		opts = append(opts, service.WithHistory(sqsClient, clickhouse.NewRepository(clickhouseClient, log)))
		log.Info("Prediction history enabled", zap.String("queue_url", cfg.SQS.QueueURL))
	}

	predictionService := service.NewPredictionService(model, policy, log, opts...)
	reportService := service.NewReportService(report.NewRenderer(), log)

	h := handler.NewHandler(predictionService, reportService, m, cfg.Upload.MaxBytes, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down API server gracefully")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", zap.Error(err))
	}
	if err := predictionService.Wait(shutdownCtx); err != nil {
		log.Warn("History publishes still pending at shutdown", zap.Error(err))
	}
}
