package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Message is one user-facing notification on the wire.
type Message struct {
	UserID  string    `json:"userId"`
	Kind    string    `json:"kind"`
	OrderID string    `json:"orderId,omitempty"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sentAt"`
}

// Sender enqueues notifications fire-and-forget; delivery is somebody
// else's problem.
type Sender interface {
	Send(ctx context.Context, msg Message)
}

type kafkaSender struct {
	writer *kafka.Writer
	logger *log.Logger
}

// NewKafka builds a Sender publishing to the given broker and topic.
func NewKafka(broker, topic string, logger *log.Logger) Sender {
	return &kafkaSender{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		logger: logger,
	}
}

// Send publishes msg keyed by user id. Failures are logged and
// swallowed: a notification must never fail the operation that
// triggered it.
func (s *kafkaSender) Send(ctx context.Context, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Printf("notification marshal failed: %v", err)
		return
	}
	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.UserID),
		Value: payload,
	}); err != nil {
		s.logger.Printf("notification publish failed for user %s: %v", msg.UserID, err)
	}
}
