package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/platform/kafka"
)

// Source is the CloudEvents source of every route event.
const Source = "service-routes"

// DefaultTopic receives route events when no topic is configured.
const DefaultTopic = "route.events"

// RouteEventPublisher publishes route events to Kafka as CloudEvents.
type RouteEventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *zap.Logger
}

// NewRouteEventPublisher creates a new RouteEventPublisher.
func NewRouteEventPublisher(producer *kafka.Producer, topic string, logger *zap.Logger) *RouteEventPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &RouteEventPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish wraps data in a CloudEvent and writes it keyed by key. Failures are
// logged and swallowed.
func (p *RouteEventPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(Source, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.producer.PublishEvent(ctx, p.topic, key, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", p.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, string, string, interface{}) {}
