//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/application"
	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/domain/weather"
	routeEvents "github.com/routecast/service-routes/internal/events"
	"github.com/routecast/service-routes/internal/platform/kafka"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	KafkaBrokers []string
	Cleanup      func()
}

// routeStack holds wired-up route service components.
type routeStack struct {
	Service         *application.SessionService
	CleanupProducer func()
}

// setupContainers starts a Kafka testcontainer.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, routeEvents.DefaultTopic)

	cleanup := func() {
		if err := testcontainers.TerminateContainer(kafkaContainer); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	}

	return &testInfra{
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

type staticRoutes struct {
	routes []route.Candidate
}

func (s staticRoutes) Route(context.Context, route.Request) (*route.Response, error) {
	return &route.Response{Status: route.StatusOK, Routes: s.routes}, nil
}

type staticWeather struct{}

func (staticWeather) Current(context.Context, route.Position) (*weather.Snapshot, error) {
	return &weather.Snapshot{TemperatureC: 30.5, Description: "clear sky", HumidityPercent: 45}, nil
}

// threeRoutes returns the candidates used for the Secunderabad scenario.
func threeRoutes() []route.Candidate {
	end := route.Position{Lat: 17.4399, Lng: 78.4983}
	out := make([]route.Candidate, 3)
	for i := range out {
		out[i] = route.Candidate{
			GeometryPath: []route.Position{{Lat: 17.6411, Lng: 78.4952}, {Lat: 17.54, Lng: 78.48 + float64(i)/100}, end},
			Legs: []route.Leg{{
				DistanceText: fmt.Sprintf("%d km", 24+i*3),
				DurationText: fmt.Sprintf("%d mins", 38+i*4),
				EndPosition:  end,
				EndAddress:   "Secunderabad, Telangana, India",
			}},
		}
	}
	return out
}

// setupRouteStack wires up the session service against a real Kafka producer.
func setupRouteStack(t *testing.T, brokers []string) *routeStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	producer := kafka.NewProducer(brokers, logger)
	publisher := routeEvents.NewRouteEventPublisher(producer, routeEvents.DefaultTopic, logger)
	svc := application.NewSessionService(
		staticRoutes{routes: threeRoutes()},
		staticWeather{},
		publisher,
		nil,
		application.SessionServiceConfig{IdleTTL: time.Hour, WeatherTimeout: 5 * time.Second},
		logger,
	)

	return &routeStack{
		Service:         svc,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
