package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
)

const (
	eventSource  = "voya-trail-engine"
	eventTypeRun = "voya.engine.run.completed"
)

// Envelope published for every run.
type RunEvent struct {
	ID              string            `json:"id"`
	Source          string            `json:"source"`
	Type            string            `json:"type"`
	Time            time.Time         `json:"time"`
	DataContentType string            `json:"datacontenttype"`
	Data            ports.RunMetadata `json:"data"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaRunLogger publishes run metadata to a topic. Delivery is asynchronous
// and failures are only logged.
type KafkaRunLogger struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaRunLogger(brokers []string, topic string, logger *zap.Logger) *KafkaRunLogger {
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil {
				logger.Warn("run metadata delivery failed", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}

	return &KafkaRunLogger{writer: w, logger: logger}
}

func (k *KafkaRunLogger) LogRun(ctx context.Context, meta ports.RunMetadata) {
	evt := RunEvent{
		ID:              uuid.NewString(),
		Source:          eventSource,
		Type:            eventTypeRun,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            meta,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		k.logger.Warn("encode run metadata", zap.String("run_id", meta.RunID), zap.Error(err))
		return
	}

	msg := kafkago.Message{
		Key:   []byte(meta.RunID),
		Value: payload,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		k.logger.Warn("publish run metadata", zap.String("run_id", meta.RunID), zap.Error(err))
	}
}

func (k *KafkaRunLogger) Close() error {
	return k.writer.Close()
}
