package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	awspkg "github.com/shopswift/commerce-backend/pkg/aws"
)

const (
	CartItemQuantityUpdated = "cart.item_quantity_updated"
	PasswordResetRequested  = "auth.password_reset_requested"
	PasswordResetCompleted  = "auth.password_reset_completed"

	eventTypeAttribute = "event_type"
)

// Event is the envelope every domain event is published in.
type Event struct {
	ID         string      `json:"event_id"`
	Type       string      `json:"event_type"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps a fresh ID and time. key is used for partitioning.
func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers domain events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher writes events to one topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafkaMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to kafka: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func kafkaMessage(event Event) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.Key),
		Value: data,
		Headers: []kafka.Header{
			{Key: eventTypeAttribute, Value: []byte(event.Type)},
		},
	}, nil
}

// SNSPublisher fans events out through an SNS topic with an event_type
// attribute for subscription filtering.
type SNSPublisher struct {
	client   awspkg.SNSPublisher
	topicARN string
}

func NewSNSPublisher(client awspkg.SNSPublisher, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.topicARN, data, map[string]string{eventTypeAttribute: event.Type})
}

func (p *SNSPublisher) Close() error { return nil }

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }

// Config selects the bus. Bus is one of "kafka", "sns" or "none".
type Config struct {
	Bus         string
	Brokers     []string
	Topic       string
	SNSTopicARN string
}

// New builds the publisher named by cfg.Bus. sns may be nil unless Bus is "sns".
func New(cfg Config, sns awspkg.SNSPublisher) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Bus)) {
	case "", "none":
		return NopPublisher{}, nil
	case "kafka":
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("kafka event bus needs brokers and a topic")
		}
		return NewKafkaPublisher(cfg.Brokers, cfg.Topic), nil
	case "sns":
		if sns == nil || cfg.SNSTopicARN == "" {
			return nil, fmt.Errorf("sns event bus needs a client and a topic ARN")
		}
		return NewSNSPublisher(sns, cfg.SNSTopicARN), nil
	default:
		return nil, fmt.Errorf("unknown event bus %q", cfg.Bus)
	}
}

// SplitBrokers parses a comma separated KAFKA_BROKERS value.
func SplitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
