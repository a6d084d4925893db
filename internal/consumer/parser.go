package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/queue"
)

// JSONPredictionParser implements MessageParser for queue.PredictionMessage bodies
type JSONPredictionParser struct {
	now func() time.Time
}

// NewJSONPredictionParser creates a new JSON prediction parser
func NewJSONPredictionParser() *JSONPredictionParser {
	return &JSONPredictionParser{now: time.Now}
}

// Parse decodes and validates a message body. The record version is the parse time so a
// redelivered message replaces the earlier row of the same prediction_id.
func (p *JSONPredictionParser) Parse(body []byte) (*domain.PredictionRecord, error) {
	var msg queue.PredictionMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	record, err := msg.Record()
	if err != nil {
		return nil, fmt.Errorf("invalid prediction message: %w", err)
	}

	record.Version = uint64(p.now().UnixNano())
	return record, nil
}
