package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"btc-price-publisher/internal/config"
	"btc-price-publisher/internal/event"
	"btc-price-publisher/internal/util"
)

const defaultKafkaBatchTimeout = 10 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaSink struct {
	writer messageWriter
}

func NewKafka(cfg config.KafkaConfig) Sink {
	return &kafkaSink{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: util.DefaultDur(cfg.BatchTimeout, defaultKafkaBatchTimeout),
	}}
}

func (k *kafkaSink) Name() string { return "kafka" }

// Push keys each message by event type so consumers can filter without decoding.
func (k *kafkaSink) Push(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Type),
			Value: data,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
				{Key: "event_id", Value: []byte(e.ID)},
			},
			Time: e.Time,
		})
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (k *kafkaSink) Close() error {
	return k.writer.Close()
}
