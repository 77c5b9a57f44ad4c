package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ecommerce-backend/internal/domain/event"
	"ecommerce-backend/internal/logger"

	"go.uber.org/zap"
)

const (
	eventQoS       = byte(1)
	publishTimeout = 5 * time.Second
)

// broker is the part of pkg/mqtt.Client the publisher needs.
type broker interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher publishes domain events as JSON to <prefix>/<event type>.
type MQTTPublisher struct {
	client      broker
	topicPrefix string
}

func NewMQTTPublisher(client broker, topicPrefix string) *MQTTPublisher {
	return &MQTTPublisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
	}
}

func (p *MQTTPublisher) Topic(t event.Type) string {
	if p.topicPrefix == "" {
		return string(t)
	}
	return p.topicPrefix + "/" + string(t)
}

func (p *MQTTPublisher) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", e.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	topic := p.Topic(e.Type)
	if err := p.client.Publish(ctx, topic, eventQoS, false, payload); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.Type, err)
	}

	logger.FromContext(ctx).Debug("Event published",
		zap.String("topic", topic),
		zap.String("event_id", e.ID),
		zap.String("event", "event_published"),
	)
	return nil
}
