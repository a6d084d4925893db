package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service    Service
	Model      Model
	Risk       Risk
	Upload     Upload
	History    History
	SQS        SQS
	ClickHouse ClickHouse
	Consumer   Consumer
	Valkey     Valkey
}

type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"SERVICE_LOG_LEVEL" default:"info"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

type Model struct {
	Path string `envconfig:"MODEL_PATH" default:"models/churn_model.yaml"`
}

type Risk struct {
	LowThreshold  float64 `envconfig:"RISK_LOW_THRESHOLD" default:"0.4"`
	HighThreshold float64 `envconfig:"RISK_HIGH_THRESHOLD" default:"0.7"`
	HorizonMonths int     `envconfig:"RISK_HORIZON_MONTHS" default:"6"`
	SampleSize    int     `envconfig:"RISK_SAMPLE_SIZE" default:"20"`
}

type Upload struct {
	MaxBytes int64 `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"`
}

type History struct {
	Enabled bool `envconfig:"HISTORY_ENABLED" default:"false"`
}

type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL"`
	Region   string `envconfig:"SQS_REGION" default:"us-east-1"`
}

type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port            string `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database        string `envconfig:"CLICKHOUSE_DB" default:"churn"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type Consumer struct {
	BatchSizeMax    int    `envconfig:"CONSUMER_BATCH_SIZE_MAX" default:"2000"`
	BatchTimeoutSec int    `envconfig:"CONSUMER_BATCH_TIMEOUT_SEC" default:"10"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

type Valkey struct {
	Enabled  bool   `envconfig:"VALKEY_ENABLED" default:"false"`
	Host     string `envconfig:"VALKEY_HOST" default:"localhost"`
	Port     string `envconfig:"VALKEY_PORT" default:"6379"`
	Password string `envconfig:"VALKEY_PASSWORD" default:""`
	DB       int    `envconfig:"VALKEY_DB" default:"0"`
	TTLSec   int    `envconfig:"VALKEY_TTL_SEC" default:"3600"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	r := c.Risk
	if r.LowThreshold <= 0 || r.LowThreshold > 1 || r.HighThreshold <= 0 || r.HighThreshold > 1 {
		return fmt.Errorf("risk thresholds must be in (0, 1]")
	}
	if r.LowThreshold >= r.HighThreshold {
		return fmt.Errorf("RISK_LOW_THRESHOLD (%v) must be less than RISK_HIGH_THRESHOLD (%v)", r.LowThreshold, r.HighThreshold)
	}
	if r.HorizonMonths <= 0 {
		return fmt.Errorf("RISK_HORIZON_MONTHS must be positive")
	}
	if r.SampleSize <= 0 {
		return fmt.Errorf("RISK_SAMPLE_SIZE must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.History.Enabled && c.SQS.QueueURL == "" {
		return fmt.Errorf("SQS_QUEUE_URL is required when HISTORY_ENABLED is set")
	}
	if c.Consumer.BatchSizeMax <= 0 || c.Consumer.BatchTimeoutSec <= 0 {
		return fmt.Errorf("consumer batch size and timeout must be positive")
	}
	return nil
}
