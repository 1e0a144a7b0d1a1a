package queue

import (
	"context"
	"encoding/json"
	"errors"

	"siparis-backend/internal/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler executes one reconciliation job. It must tolerate redelivery.
type Handler interface {
	Process(ctx context.Context, job ReconcileJob) error
}

// Consumer reads reconcile jobs from a Kafka consumer group with
// at-least-once semantics: the offset is only committed after the handler ran
// (or the message was given up on). A crash between processing and commit
// redelivers the job, which is why handlers key their work by LineID.
type Consumer struct {
	reader     *kafka.Reader
	handler    Handler
	maxRetries uint64
	log        *zap.Logger
}

func NewConsumer(brokers []string, topic, group string, handler Handler, maxRetries int, log *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: group,
		}),
		handler:    handler,
		maxRetries: uint64(maxRetries),
		log:        log,
	}
}

// Run blocks until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.log.Error("failed to fetch message", zap.Error(err))
			continue
		}

		var job ReconcileJob
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			// Poison message: retrying cannot help, drop it.
			c.log.Error("invalid reconcile job payload, skipping",
				zap.ByteString("value", msg.Value), zap.Error(err))
			metrics.ReconcileJobs.WithLabelValues("skipped").Inc()
			c.commit(ctx, msg)
			continue
		}

		operation := func() error {
			return c.handler.Process(ctx, job)
		}
		bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
		if err := backoff.Retry(operation, bo); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			// Retries exhausted. Dead-lettering is the queue platform's
			// concern; here the failure is recorded and the offset advances.
			c.log.Error("reconcile job failed after retries",
				zap.String("line_id", job.LineID),
				zap.Uint("product_id", job.ProductID),
				zap.Error(err))
			metrics.ReconcileJobs.WithLabelValues("failed").Inc()
		} else {
			metrics.ReconcileJobs.WithLabelValues("ok").Inc()
		}

		c.commit(ctx, msg)
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
		c.log.Error("failed to commit offset", zap.Error(err))
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
