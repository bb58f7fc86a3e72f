// Package kafka publishes authentication events so downstream systems
// (alerting, audit) can react to security-relevant incidents such as
// refresh-token reuse.
package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is the envelope written to the auth events topic.
type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
	UserID int64     `json:"user_id"`
	Data   any       `json:"data,omitempty"`
}

// Producer wraps a sarama sync producer. A nil *Producer is valid and
// publishes nothing, so deployments without Kafka need no special casing.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewProducer connects a sync producer with idempotent, wait-for-all acks.
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: topic, logger: logger}, nil
}

// Publish sends one event, keyed by user id so per-user ordering holds.
// Failures are logged, not returned: event delivery is best-effort and must
// never fail the request that triggered it.
func (p *Producer) Publish(eventType EventType, userID int64, data any) {
	if p == nil {
		return
	}

	event := Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		Source: "issue-tracker",
		Time:   time.Now().UTC(),
		UserID: userID,
		Data:   data,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal auth event", zap.Error(err), zap.String("type", string(eventType)))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", userID)),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.logger.Error("failed to publish auth event", zap.Error(err), zap.String("type", string(eventType)))
	}
}

// Close shuts the underlying producer down.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
