package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/repository"
)

const insertQuery = `INSERT INTO predictions (
	prediction_id, batch_id, mode, customer_id, churn_probability, risk_tier,
	revenue_at_risk, monthly_charges, contract, model_version, horizon_months,
	predicted_at, version
)`

const whereClause = "WHERE predicted_at >= toDateTime64(?, 3) AND predicted_at <= toDateTime64(?, 3)"

// Repository implements PredictionRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the predictions table. ReplacingMergeTree collapses redelivered
// messages that share a prediction_id.
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS predictions (
		prediction_id String,
		batch_id String,
		mode LowCardinality(String),
		customer_id String,
		churn_probability Float64,
		risk_tier LowCardinality(String),
		revenue_at_risk Decimal(18, 4),
		monthly_charges Float64,
		contract LowCardinality(String),
		model_version LowCardinality(String),
		horizon_months UInt16,
		predicted_at DateTime64(3),
		processed_at DateTime64(3) DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (prediction_id)
	ORDER BY (prediction_id, predicted_at)
	PARTITION BY toYYYYMM(predicted_at)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create predictions table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of prediction records into ClickHouse
func (r *Repository) InsertBatch(ctx context.Context, records []*domain.PredictionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, insertQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, record := range records {
		if record.Version == 0 {
			record.Version = uint64(time.Now().UnixNano())
		}

		err := batch.Append(
			record.PredictionID,
			record.BatchID,
			record.Mode,
			record.CustomerID,
			record.ChurnProbability,
			record.RiskTier.String(),
			record.RevenueAtRisk,
			record.MonthlyCharges,
			record.Contract,
			record.ModelVersion,
			uint16(record.HorizonMonths),
			record.PredictedAt,
			record.Version,
		)
		if err != nil {
			_ = batch.Abort()
			return 0, fmt.Errorf("failed to append prediction to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return len(records), nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// GetHistorySummary aggregates stored predictions from ClickHouse
func (r *Repository) GetHistorySummary(ctx context.Context, query repository.HistoryQuery) (*repository.HistoryResult, error) {
	result := &repository.HistoryResult{
		Groups: []repository.HistoryGroupResult{},
	}
	args := []interface{}{query.From, query.To}

	overallQuery := fmt.Sprintf(`
		SELECT
			count() AS total_count,
			uniq(customer_id) AS unique_customers,
			sum(revenue_at_risk) AS revenue_at_risk
		FROM predictions FINAL
		%s
	`, whereClause)

	row := r.client.Conn().QueryRow(ctx, overallQuery, args...)
	if err := row.Scan(&result.TotalCount, &result.UniqueCustomers, &result.RevenueAtRisk); err != nil {
		return nil, fmt.Errorf("failed to query history summary: %w", err)
	}

	if query.GroupBy == "" {
		return result, nil
	}

	groupedQuery, err := buildGroupedQuery(query.GroupBy)
	if err != nil {
		return nil, err
	}

	rows, err := r.client.Conn().Query(ctx, groupedQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped history: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close grouped history rows", zap.Error(err))
		}
	}(rows)

	for rows.Next() {
		var group repository.HistoryGroupResult
		if err := rows.Scan(&group.GroupValue, &group.Predictions, &group.RevenueAtRisk); err != nil {
			return nil, fmt.Errorf("failed to scan grouped history row: %w", err)
		}
		result.Groups = append(result.Groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grouped history rows: %w", err)
	}

	return result, nil
}

func buildGroupedQuery(groupBy string) (string, error) {
	var selectField, groupByClause, orderBy string

	switch groupBy {
	case repository.GroupByTier:
		selectField = "risk_tier"
		groupByClause = "GROUP BY risk_tier"
		orderBy = "ORDER BY group_value ASC"
	case repository.GroupByDay:
		selectField = "formatDateTime(toStartOfDay(predicted_at), '%Y-%m-%d')"
		groupByClause = "GROUP BY toStartOfDay(predicted_at)"
		orderBy = "ORDER BY group_value ASC"
	case repository.GroupByContract:
		selectField = "contract"
		groupByClause = "GROUP BY contract"
		orderBy = "ORDER BY total_count DESC"
	default:
		return "", fmt.Errorf("unsupported group_by value: %s (supported: tier, day, contract)", groupBy)
	}

	return fmt.Sprintf(`
		SELECT
			%s AS group_value,
			count() AS total_count,
			sum(revenue_at_risk) AS revenue_at_risk
		FROM predictions FINAL
		%s
		%s
		%s
	`, selectField, whereClause, groupByClause, orderBy), nil
}
