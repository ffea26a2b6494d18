package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
)

const (
	attrEventType  = "event_type"
	attrOccurredAt = "occurred_at"
)

// TopicPublisher sends JSON encoded order events to a single topic.
type TopicPublisher struct {
	publisher *pubsub.Publisher
	now       func() time.Time
}

// NewTopicPublisher wraps a publisher handle; ordering keys are honored per order.
func NewTopicPublisher(publisher *pubsub.Publisher) (*TopicPublisher, error) {
	if publisher == nil {
		return nil, errors.New("pubsub publisher required")
	}
	publisher.EnableMessageOrdering = true
	return &TopicPublisher{publisher: publisher, now: time.Now}, nil
}

// Publish blocks until the server acknowledges the message or ctx is done.
func (p *TopicPublisher) Publish(ctx context.Context, eventType enums.OrderEventType, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:        data,
		OrderingKey: key,
		Attributes: map[string]string{
			attrEventType:  eventType.String(),
			attrOccurredAt: p.now().UTC().Format(time.RFC3339Nano),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		if key != "" {
			p.publisher.ResumePublish(key)
		}
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// Stop flushes pending messages.
func (p *TopicPublisher) Stop() {
	p.publisher.Stop()
}

// NoopPublisher drops every event. Used when no topic is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, enums.OrderEventType, string, any) error {
	return nil
}
