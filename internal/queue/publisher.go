package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Publisher enqueues reconciliation jobs onto the durable queue.
type Publisher interface {
	PublishReconcile(ctx context.Context, job ReconcileJob) error
}

// KafkaPublisher writes jobs to the reconcile topic. Keyed by LineID so
// redeliveries of the same line land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishReconcile(ctx context.Context, job ReconcileJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode reconcile job: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.LineID),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
