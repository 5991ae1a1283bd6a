package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType      = "event_type"
	HeaderOrganizationID = "organization_id"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is a payroll.EventPublisher that can be shut down.
type Publisher interface {
	payroll.EventPublisher
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishRunCompleted(context.Context, payroll.RunCompletedEvent) error {
	return nil
}
func (noopPublisher) PublishFinalized(context.Context, payroll.FinalizedEvent) error { return nil }
func (noopPublisher) Close() error                                                   { return nil }

type kafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter builds a writer for topic. Messages are keyed by organization so one tenant's events
// stay ordered within a partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer MessageWriter) Publisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) PublishRunCompleted(ctx context.Context, event payroll.RunCompletedEvent) error {
	msg, err := newMessage(event.OrganizationID, event.EventType, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *kafkaPublisher) PublishFinalized(ctx context.Context, event payroll.FinalizedEvent) error {
	msg, err := newMessage(event.OrganizationID, event.EventType, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(organizationID, eventType string, event interface{}) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return kafka.Message{
		Key:   []byte(organizationID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(eventType)},
			{Key: HeaderOrganizationID, Value: []byte(organizationID)},
		},
	}, nil
}
