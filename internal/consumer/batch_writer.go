package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/repository"
)

// flushGrace bounds the final flush after the pipeline context is cancelled
const flushGrace = 10 * time.Second

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// BatchWriter groups envelopes and stores them in one insert per batch
type BatchWriter struct {
	repository repository.PredictionRepository
	config     BatchWriterConfig
	log        *zap.Logger
}

// NewBatchWriter creates a new batch writer
func NewBatchWriter(repo repository.PredictionRepository, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	return &BatchWriter{
		repository: repo,
		config:     config,
		log:        log,
	}
}

// Start flushes whenever the batch is full or FlushTimeout passes, and once more on shutdown
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			w.flushFinal(batch)
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				w.flushFinal(batch)
				return
			}

			batch = append(batch, envelope)
			if len(batch) >= w.config.MaxBatchSize {
				w.log.Debug("Batch size threshold reached", zap.Int("batch_size", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Debug("Batch timeout reached", zap.Int("envelope_count", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// flushFinal writes what is left using a fresh context, since the pipeline one may be cancelled
func (w *BatchWriter) flushFinal(batch []*Envelope) {
	if len(batch) == 0 {
		return
	}
	w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))

	ctx, cancel := context.WithTimeout(context.Background(), flushGrace)
	defer cancel()
	w.processBatch(ctx, batch)
}

// processBatch inserts the records and acks them, or nacks the whole batch on any shortfall
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*Envelope) {
	if len(envelopes) == 0 {
		return
	}

	records := make([]*domain.PredictionRecord, len(envelopes))
	for i, env := range envelopes {
		records[i] = env.Record
	}

	inserted, err := w.repository.InsertBatch(ctx, records)
	if err != nil {
		w.log.Error("Failed to insert batch",
			zap.Error(err),
			zap.Int("record_count", len(records)))
		w.settle(ctx, envelopes, (*Envelope).Nack, "nack")
		return
	}

	if inserted != len(records) {
		w.log.Warn("Partial insert",
			zap.Int("inserted", inserted),
			zap.Int("expected", len(records)))
		w.settle(ctx, envelopes, (*Envelope).Nack, "nack")
		return
	}

	w.log.Info("Stored predictions", zap.Int("count", inserted))
	w.settle(ctx, envelopes, (*Envelope).Ack, "ack")
}

func (w *BatchWriter) settle(ctx context.Context, envelopes []*Envelope, fn func(*Envelope, context.Context) error, action string) {
	failed := 0
	for _, env := range envelopes {
		if err := fn(env, ctx); err != nil {
			failed++
			w.log.Error("Failed to settle envelope",
				zap.String("action", action),
				zap.String("prediction_id", env.Record.PredictionID),
				zap.Error(err))
		}
	}
	if failed > 0 {
		w.log.Warn("Some envelopes were not settled",
			zap.String("action", action),
			zap.Int("failed", failed),
			zap.Int("total", len(envelopes)))
	}
}
