// Package notify provides the low-stock alert sink. Alerts are published to a
// Kafka topic; the mail transport consuming that topic is a separate system.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"siparis-backend/internal/stock"

	"github.com/segmentio/kafka-go"
)

// KafkaSink implements stock.AlertSink. Send returns once the broker has
// accepted the alert; downstream delivery to the merchant is the consumer's
// problem.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (s *KafkaSink) Send(ctx context.Context, alert stock.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode low stock alert: %w", err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("ingredient-%d", alert.IngredientID)),
		Value: payload,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
