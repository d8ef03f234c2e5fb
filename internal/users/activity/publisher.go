// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// publishTimeout bounds a single broker write so a slow broker never stalls a request.
const publishTimeout = 5 * time.Second

// # No-op

// NopPublisher discards entries. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements [Publisher].
func (NopPublisher) Publish(context.Context, ...*Entry) error { return nil }

// # Kafka

// MessageWriter is the subset of [*kafka.Writer] used by [KafkaPublisher].
type MessageWriter interface {
	WriteMessages(ctx context.Context, messages ...kafka.Message) error
	Close() error
}

// KafkaPublisher mirrors entries to a Kafka topic, keyed by user ID so that
// every user's events land on the same partition in order.
type KafkaPublisher struct {
	writer MessageWriter
}

/*
NewKafkaPublisher creates a publisher writing JSON entries to topic.

Parameters:
  - brokers: []string (host:port list, must be non-empty)
  - topic: string

Returns:
  - *KafkaPublisher: The publisher (call Close on shutdown)
  - error: When brokers or topic are missing
*/
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("kafka publisher requires brokers and a topic")
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}, nil
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish implements [Publisher].
func (publisher *KafkaPublisher) Publish(ctx context.Context, entries ...*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(entries))
	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("activity_publish_encode_failed: %w", err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(strconv.FormatInt(entry.UserID, 10)),
			Value: payload,
			Time:  entry.CreatedAt.UTC(),
			Headers: []kafka.Header{
				{Key: "action", Value: []byte(entry.Action)},
			},
		})
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := publisher.writer.WriteMessages(writeCtx, messages...); err != nil {
		return fmt.Errorf("activity_publish_failed: %w", err)
	}
	return nil
}

// Close flushes pending messages and releases the broker connections.
func (publisher *KafkaPublisher) Close() error {
	return publisher.writer.Close()
}
