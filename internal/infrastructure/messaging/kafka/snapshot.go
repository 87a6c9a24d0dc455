package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/EnviroLens/internal/config"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

const (
	// EventTypeSnapshot marks a recomputed analytics payload.
	EventTypeSnapshot = "analytics.snapshot"
	// SourceService identifies this process in envelope headers.
	SourceService = "envirolens"
	schemaVersion = "v1"
)

// EventEnvelope wraps every published payload.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// SnapshotPayload is the body of an analytics.snapshot event.  Data holds the
// exact bytes served by /api/data.
type SnapshotPayload struct {
	Datasets []string        `json:"datasets"`
	Refresh  bool            `json:"refresh"`
	Data     json.RawMessage `json:"data"`
}

// NewEventEnvelope marshals payload into a fresh envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.  An empty payload is a
// no-op.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to unmarshal payload")
	}
	return nil
}

// ToMessage serializes the envelope for topic, keyed by event id.
func (e *EventEnvelope) ToMessage(topic string) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to marshal envelope")
	}
	return &Message{
		Topic: topic,
		Key:   []byte(e.EventID),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// DecodeEnvelope parses a message value back into an envelope.
func DecodeEnvelope(value []byte) (*EventEnvelope, error) {
	if len(value) == 0 {
		return nil, errors.InvalidParam("empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// Publisher is what the dashboard service publishes snapshots through.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snapshot SnapshotPayload) error
	Close() error
}

// SnapshotPublisher publishes analytics snapshots to a single topic.
type SnapshotPublisher struct {
	producer *Producer
	topic    string
	timeout  time.Duration
	logger   logging.Logger
}

// NewSnapshotPublisher builds a publisher from the kafka config section.
func NewSnapshotPublisher(cfg config.KafkaConfig, logger logging.Logger) (*SnapshotPublisher, error) {
	producer, err := NewProducer(ProducerConfig{
		Brokers:      cfg.Brokers,
		WriteTimeout: cfg.WriteTimeout,
		Acks:         "one",
	}, logger)
	if err != nil {
		return nil, err
	}
	return newSnapshotPublisher(producer, cfg.Topic, cfg.WriteTimeout, logger), nil
}

func newSnapshotPublisher(p *Producer, topic string, timeout time.Duration, logger logging.Logger) *SnapshotPublisher {
	if timeout <= 0 {
		timeout = config.DefaultKafkaWriteTimeout
	}
	return &SnapshotPublisher{
		producer: p,
		topic:    topic,
		timeout:  timeout,
		logger:   logging.OrDefault(logger).Named("kafka"),
	}
}

// PublishSnapshot wraps snapshot in an envelope and writes it within the
// configured timeout.
func (s *SnapshotPublisher) PublishSnapshot(ctx context.Context, snapshot SnapshotPayload) error {
	env, err := NewEventEnvelope(EventTypeSnapshot, SourceService, snapshot)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(s.topic)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.producer.Publish(ctx, msg); err != nil {
		s.logger.Warn("snapshot publish failed", logging.String("topic", s.topic), logging.Err(err))
		return err
	}
	s.logger.Info("snapshot published",
		logging.String("topic", s.topic),
		logging.String("event_id", env.EventID),
		logging.Strings("datasets", snapshot.Datasets))
	return nil
}

// Close closes the underlying producer.
func (s *SnapshotPublisher) Close() error {
	return s.producer.Close()
}

//Personal.AI order the ending
