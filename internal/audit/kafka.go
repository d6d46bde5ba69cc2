package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"greenlane/internal/domain"
	"greenlane/internal/platform/config"
)

// KafkaSink publishes audit events to the compliance topic. Records are keyed
// by user so one purchaser's trail stays ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the brokers and ensures the audit topic exists.
// Returns nil when no brokers are configured.
func NewKafkaSink(ctx context.Context, cfg config.Kafka) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, cfg.AuditTopic); err != nil {
		client.Close()
		return nil, err
	}

	return &KafkaSink{client: client, topic: cfg.AuditTopic}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	admin := kadm.NewClient(client)
	topics, err := admin.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("list kafka topics: %w", err)
	}
	if topics.Has(topic) {
		return nil
	}
	if _, err := admin.CreateTopic(ctx, -1, -1, nil, topic); err != nil {
		return fmt.Errorf("create audit topic %s: %w", topic, err)
	}
	return nil
}

type wireEvent struct {
	Timestamp    time.Time `json:"ts"`
	UserID       string    `json:"user_id"`
	DispensaryID string    `json:"dispensary_id,omitempty"`
	Action       string    `json:"action"`
	Decision     string    `json:"decision,omitempty"`
	Reasons      []string  `json:"reasons,omitempty"`
	OrderID      string    `json:"order_id,omitempty"`
}

func (s *KafkaSink) Publish(ctx context.Context, event domain.AuditEvent) error {
	value, err := json.Marshal(wireEvent(event))
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.UserID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() {
	s.client.Close()
}
