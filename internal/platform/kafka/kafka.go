// Package kafka moves queued notifications from the transactional outbox to
// the delivery worker. The relay drains committed outbox rows into a topic;
// the consumer reads the topic back into a channel for the worker. Both
// sides settle on at-least-once delivery, which is acceptable because every
// notification is best-effort and idempotent to re-render.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"bestbosses/internal/notify"
	"bestbosses/internal/platform/config"
)

const (
	relayInterval  = time.Second
	relayBatchSize = 100
)

// NewClient connects a producer/admin client to the configured brokers.
func NewClient(cfg config.KafkaConfig) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// NewConsumerClient connects a consumer-group client for the worker side.
func NewConsumerClient(cfg config.KafkaConfig) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return client, nil
}

// EnsureTopic creates the notification topic if it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, result := range resp {
		if result.Err != nil && !errors.Is(result.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", result.Topic, result.Err)
		}
	}
	return nil
}

// Relay polls the outbox and publishes committed messages to the topic. It
// runs each pass inside a transaction so NextBatch's row locks hold until
// MarkPublished commits alongside them.
type Relay struct {
	client *kgo.Client
	store  notify.OutboxSource
	tx     notify.TxRunner
	topic  string
	logger *slog.Logger
}

func NewRelay(client *kgo.Client, store notify.OutboxSource, tx notify.TxRunner, topic string, logger *slog.Logger) *Relay {
	return &Relay{client: client, store: store, tx: tx, topic: topic, logger: logger}
}

// Run drains the outbox until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(relayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				// The next tick retries; unpublished rows stay in the outbox.
				r.logger.Error("outbox relay pass failed", "error", err)
			}
		}
	}
}

func (r *Relay) drainOnce(ctx context.Context) error {
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		batch, err := r.store.NextBatch(ctx, relayBatchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		published := make([]uuid.UUID, 0, len(batch))
		for _, msg := range batch {
			payload, err := json.Marshal(msg)
			if err != nil {
				return fmt.Errorf("marshal outbox message %s: %w", msg.ID, err)
			}
			record := &kgo.Record{
				Topic: r.topic,
				Key:   []byte(msg.To),
				Value: payload,
			}
			if err := r.client.ProduceSync(ctx, record).FirstErr(); err != nil {
				return fmt.Errorf("publish outbox message %s: %w", msg.ID, err)
			}
			published = append(published, msg.ID)
		}

		r.logger.Info("relayed notifications", "count", len(published), "topic", r.topic)
		return r.store.MarkPublished(ctx, published, time.Now().UTC())
	})
}

// Consumer reads the notification topic into a channel for the worker.
type Consumer struct {
	client *kgo.Client
	out    chan<- notify.Message
	logger *slog.Logger
}

func NewConsumer(client *kgo.Client, out chan<- notify.Message, logger *slog.Logger) *Consumer {
	return &Consumer{client: client, out: out, logger: logger}
}

// Run polls fetches until the context is cancelled. Records that fail to
// decode are logged and skipped so one bad payload cannot wedge delivery.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("kafka fetch error", "topic", topic, "partition", partition, "error", err)
		})
		for _, record := range fetches.Records() {
			var msg notify.Message
			if err := json.Unmarshal(record.Value, &msg); err != nil {
				c.logger.Error("skipping undecodable notification record",
					"topic", record.Topic, "offset", record.Offset, "error", err)
				continue
			}
			select {
			case c.out <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
