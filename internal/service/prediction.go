package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/cache"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/classifier"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/dto"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/features"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/metrics"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/queue"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/repository"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/risk"
)

// DefaultSampleSize is the number of scored rows returned with a batch result
const DefaultSampleSize = 20

// maxDayRange bounds day-grouped history queries
const maxDayRange = 366 * 24 * 3600

const (
	// maxPendingPublishes caps history publishes running in the background
	maxPendingPublishes = 8
	// DefaultPublishTimeout bounds one background history publish
	DefaultPublishTimeout = 30 * time.Second
)

// PredictionService represents prediction service
type PredictionService struct {
	classifier classifier.Classifier
	policy     *risk.Policy
	cache      cache.PredictionCache
	publisher  queue.PredictionPublisher
	repository repository.PredictionRepository
	metrics    *metrics.Metrics
	sampleSize int
	now        func() time.Time
	log        *zap.Logger

	publishTimeout time.Duration
	publishSlots   chan struct{}
	publishWG      sync.WaitGroup
}

// Option configures a PredictionService
type Option func(*PredictionService)

// WithCache enables result caching for single predictions
func WithCache(c cache.PredictionCache) Option {
	return func(s *PredictionService) { s.cache = c }
}

// WithHistory publishes every prediction and serves history queries from repo
func WithHistory(publisher queue.PredictionPublisher, repo repository.PredictionRepository) Option {
	return func(s *PredictionService) {
		s.publisher = publisher
		s.repository = repo
	}
}

// WithMetrics records prediction counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PredictionService) { s.metrics = m }
}

// WithSampleSize sets how many batch rows are returned
func WithSampleSize(n int) Option {
	return func(s *PredictionService) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithPublishTimeout bounds each background history publish
func WithPublishTimeout(d time.Duration) Option {
	return func(s *PredictionService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// NewPredictionService creates a new prediction service
func NewPredictionService(clf classifier.Classifier, policy *risk.Policy, log *zap.Logger, opts ...Option) *PredictionService {
	s := &PredictionService{
		classifier: clf,
		policy:     policy,
		cache:      cache.Noop{},
		publisher:  queue.NoopPublisher{},
		sampleSize: DefaultSampleSize,
		now:        time.Now,
		log:        log,

		publishTimeout: DefaultPublishTimeout,
		publishSlots:   make(chan struct{}, maxPendingPublishes),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelVersion identifies the loaded classifier
func (s *PredictionService) ModelVersion() string {
	return s.classifier.Version()
}

// computePredictionKey generates a deterministic cache key based on record content
// Uses SHA-256 hash of: model version|thresholds|horizon|canonical record
func (s *PredictionService) computePredictionKey(raw domain.RawRecord) string {
	data := fmt.Sprintf("%s|%v|%v|%d|%s",
		s.classifier.Version(),
		s.policy.LowThreshold(),
		s.policy.HighThreshold(),
		s.policy.HorizonMonths(),
		raw.CanonicalString(),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// Predict scores a single customer
func (s *PredictionService) Predict(ctx context.Context, raw domain.RawRecord) (*dto.PredictResponse, error) {
	if missing := raw.MissingColumns(); len(missing) > 0 {
		s.metrics.ObserveFailure(domain.ModeSingle, metrics.ReasonSchema)
		s.log.Warn("Prediction request missing required columns",
			zap.Strings("missing_columns", missing))
		return nil, &domain.SchemaError{Missing: missing}
	}

	record := domain.NewCustomerRecord(raw)
	key := s.computePredictionKey(raw)

	result, cached := s.cache.Get(ctx, key)
	if !cached {
		probabilities, err := s.score(ctx, []domain.CustomerRecord{record})
		if err != nil {
			s.metrics.ObserveFailure(domain.ModeSingle, metrics.ReasonClassifier)
			return nil, err
		}

		evaluated := s.policy.Evaluate(record.CustomerID, probabilities[0], record.MonthlyCharges)
		result = &evaluated
		s.cache.Set(ctx, key, result)
	}

	s.metrics.ObservePrediction(domain.ModeSingle, result.RiskTier)
	s.publish(ctx, []domain.PredictionRecord{s.newHistoryRecord(domain.ModeSingle, "", record, *result)})

	return &dto.PredictResponse{
		CustomerID:        result.CustomerID,
		ChurnProbability:  result.ChurnProbability,
		ChurnPrediction:   result.ChurnPrediction,
		RiskLevel:         result.RiskTier,
		RecommendedAction: result.RecommendedAction,
		RevenueAtRisk:     result.RevenueAtRisk,
		ModelVersion:      s.classifier.Version(),
		Cached:            cached,
	}, nil
}

// PredictBatch scores every row of a table and aggregates the result per risk tier.
// Rows without a customer ID are labelled CUST_<row number>.
func (s *PredictionService) PredictBatch(ctx context.Context, table *domain.Table) (*dto.BatchPredictResponse, error) {
	table = withCustomerIDs(table)

	if missing := table.MissingColumns(); len(missing) > 0 {
		s.metrics.ObserveFailure(domain.ModeBatch, metrics.ReasonSchema)
		s.log.Warn("Batch missing required columns",
			zap.Strings("missing_columns", missing),
			zap.Int("rows", len(table.Rows)))
		return nil, &domain.SchemaError{Missing: missing}
	}

	records := make([]domain.CustomerRecord, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = domain.NewCustomerRecord(row)
	}

	probabilities, err := s.score(ctx, records)
	if err != nil {
		s.metrics.ObserveFailure(domain.ModeBatch, metrics.ReasonClassifier)
		return nil, err
	}

	batchID := uuid.NewString()
	summary := domain.NewBatchSummary()
	scored := make([]domain.ScoredCustomer, len(records))
	history := make([]domain.PredictionRecord, len(records))

	for i, record := range records {
		result := s.policy.Evaluate(record.CustomerID, probabilities[i], record.MonthlyCharges)
		summary.Add(result.RiskTier, result.RevenueAtRisk)
		scored[i] = domain.ScoredCustomer{
			MonthlyCharges:   record.MonthlyCharges,
			Tenure:           record.Tenure,
			Contract:         record.Contract,
			PredictionResult: result,
		}
		history[i] = s.newHistoryRecord(domain.ModeBatch, batchID, record, result)
		s.metrics.ObservePrediction(domain.ModeBatch, result.RiskTier)
	}

	s.metrics.ObserveBatchRows(len(records))
	s.publish(ctx, history)

	s.log.Info("Batch scored",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(records)))

	sample := scored[:min(s.sampleSize, len(scored))]
	rows := make([]dto.PredictionRow, len(sample))
	for i, c := range sample {
		rows[i] = dto.PredictionRow{
			CustomerID:        c.CustomerID,
			MonthlyCharges:    c.MonthlyCharges,
			Tenure:            c.Tenure,
			Contract:          c.Contract,
			ChurnProbability:  c.ChurnProbability,
			ChurnPrediction:   c.ChurnPrediction,
			RiskSegment:       c.RiskTier,
			RevenueAtRisk:     c.RevenueAtRisk,
			RecommendedAction: c.RecommendedAction,
		}
	}

	return &dto.BatchPredictResponse{
		BatchID:           batchID,
		TotalRows:         len(records),
		LowThreshold:      s.policy.LowThreshold(),
		HighThreshold:     s.policy.HighThreshold(),
		HorizonMonths:     s.policy.HorizonMonths(),
		ModelVersion:      s.classifier.Version(),
		Summary:           dto.NewSummaryRows(summary),
		SamplePredictions: rows,
	}, nil
}

// score transforms and classifies records, validating the classifier output
func (s *PredictionService) score(ctx context.Context, records []domain.CustomerRecord) ([]float64, error) {
	if len(records) == 0 {
		return nil, nil
	}

	probabilities, err := s.classifier.PredictProba(ctx, features.TransformAll(records))
	if err != nil {
		s.log.Error("Classifier failed", zap.Error(err), zap.Int("rows", len(records)))
		return nil, &domain.ClassifierError{Err: err}
	}

	if len(probabilities) != len(records) {
		return nil, &domain.ClassifierError{
			Err: fmt.Errorf("classifier returned %d probabilities for %d rows", len(probabilities), len(records)),
		}
	}

	for i, p := range probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, &domain.ClassifierError{Err: fmt.Errorf("probability out of range at row %d: %v", i, p)}
		}
	}

	return probabilities, nil
}

func (s *PredictionService) newHistoryRecord(mode, batchID string, record domain.CustomerRecord, result domain.PredictionResult) domain.PredictionRecord {
	return domain.PredictionRecord{
		PredictionID:     uuid.NewString(),
		BatchID:          batchID,
		Mode:             mode,
		CustomerID:       result.CustomerID,
		ChurnProbability: result.ChurnProbability,
		RiskTier:         result.RiskTier,
		RevenueAtRisk:    result.RevenueAtRisk,
		MonthlyCharges:   record.MonthlyCharges,
		Contract:         record.Contract,
		ModelVersion:     s.classifier.Version(),
		HorizonMonths:    s.policy.HorizonMonths(),
		PredictedAt:      s.now().UTC(),
	}
}

// publish hands records to the history publisher in the background so the response
// never waits on the queue. At most maxPendingPublishes run at once; when all slots are
// busy the records are dropped and counted as failed. Failures are logged and counted,
// never returned.
func (s *PredictionService) publish(ctx context.Context, records []domain.PredictionRecord) {
	if len(records) == 0 {
		return
	}

	select {
	case s.publishSlots <- struct{}{}:
	default:
		s.metrics.ObservePublishFailure(len(records))
		s.log.Warn("History publisher saturated, dropping predictions",
			zap.Int("count", len(records)))
		return
	}

	s.publishWG.Add(1)
	go func() {
		defer func() {
			<-s.publishSlots
			s.publishWG.Done()
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
		defer cancel()

		if err := s.publisher.PublishPredictions(ctx, records); err != nil {
			failed := queue.FailedRecords(err, len(records))
			s.metrics.ObservePublishFailure(failed)
			s.log.Warn("Failed to publish predictions to history",
				zap.Int("count", len(records)),
				zap.Int("failed", failed),
				zap.Error(err))
		}
	}()
}

// Wait blocks until background history publishes finish or ctx is done
func (s *PredictionService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.publishWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pending history publishes not finished: %w", ctx.Err())
	}
}

// withCustomerIDs returns a copy of the table in which every row has a customer ID
func withCustomerIDs(table *domain.Table) *domain.Table {
	out := &domain.Table{
		Columns: append([]string(nil), table.Columns...),
		Rows:    make([]domain.RawRecord, len(table.Rows)),
	}
	if !out.HasColumn(domain.ColCustomerID) {
		out.Columns = append([]string{domain.ColCustomerID}, out.Columns...)
	}

	for i, row := range table.Rows {
		row = maps.Clone(row)
		if row == nil {
			row = domain.RawRecord{}
		}
		if strings.TrimSpace(row[domain.ColCustomerID]) == "" {
			row[domain.ColCustomerID] = fmt.Sprintf("CUST_%d", i+1)
		}
		out.Rows[i] = row
	}
	return out
}

// GetHistorySummary retrieves aggregated prediction history from the repository
func (s *PredictionService) GetHistorySummary(ctx context.Context, req *dto.HistorySummaryRequest) (*dto.HistorySummaryResponse, error) {
	if s.repository == nil {
		return nil, ErrHistoryDisabled
	}

	if req.From > req.To {
		s.log.Warn("Invalid time range for history summary",
			zap.Int64("from", req.From),
			zap.Int64("to", req.To))
		return nil, fmt.Errorf("%w: from timestamp must be less than or equal to to timestamp", ErrInvalidRequest)
	}

	if req.GroupBy != "" {
		validGroupBy := map[string]bool{
			repository.GroupByTier:     true,
			repository.GroupByDay:      true,
			repository.GroupByContract: true,
		}
		if !validGroupBy[req.GroupBy] {
			s.log.Warn("Invalid group_by value", zap.String("group_by", req.GroupBy))
			return nil, fmt.Errorf("%w: invalid group_by value: %s (supported: tier, day, contract)", ErrInvalidRequest, req.GroupBy)
		}

		rangeSeconds := req.To - req.From
		if req.GroupBy == repository.GroupByDay && rangeSeconds > maxDayRange {
			return nil, fmt.Errorf("%w: time range too large for daily grouping (max 366 days, got %d days)", ErrInvalidRequest, rangeSeconds/(24*3600))
		}
	}

	query := repository.HistoryQuery{
		From:    req.From,
		To:      req.To,
		GroupBy: req.GroupBy,
	}

	s.log.Info("Querying prediction history",
		zap.Int64("from", req.From),
		zap.Int64("to", req.To),
		zap.String("group_by", req.GroupBy))

	result, err := s.repository.GetHistorySummary(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get history summary from repository: %w", err)
	}

	response := &dto.HistorySummaryResponse{
		From:            req.From,
		To:              req.To,
		TotalCount:      result.TotalCount,
		UniqueCustomers: result.UniqueCustomers,
		RevenueAtRisk:   result.RevenueAtRisk,
		GroupBy:         req.GroupBy,
		Groups:          make([]dto.HistoryGroupData, 0, len(result.Groups)),
	}

	for _, group := range result.Groups {
		response.Groups = append(response.Groups, dto.HistoryGroupData{
			GroupValue:    group.GroupValue,
			Predictions:   group.Predictions,
			RevenueAtRisk: group.RevenueAtRisk,
		})
	}

	return response, nil
}
