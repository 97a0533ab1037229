package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"deposit-service/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DepositEventPublisher publishes finalized-deposit events.
type DepositEventPublisher interface {
	SendDepositEvent(ctx context.Context, event models.DepositEvent) error
}

// DepositEventProducer writes deposit events to a Kafka topic, keyed by
// deposit id so events for one deposit stay ordered.
type DepositEventProducer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewDepositEventProducer(brokers []string, topic string, logger *zap.Logger) *DepositEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("Kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &DepositEventProducer{writer: w, topic: topic, logger: logger}
}

func (p *DepositEventProducer) SendDepositEvent(ctx context.Context, event models.DepositEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.DepositID), 10)),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to send deposit event", zap.Uint("deposit_id", event.DepositID), zap.Error(err))
		return err
	}

	p.logger.Info("Sent deposit event",
		zap.String("type", event.Type),
		zap.Uint("deposit_id", event.DepositID),
	)
	return nil
}

func (p *DepositEventProducer) Close() {
	_ = p.writer.Close()
	p.logger.Info("Kafka producer closed")
}
