package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/internal/config"
	"github.com/turtacn/EnviroLens/internal/testutil"
)

func TestNewEventEnvelope(t *testing.T) {
	env, err := NewEventEnvelope(EventTypeSnapshot, SourceService, map[string]int{"n": 1})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)
	assert.JSONEq(t, `{"n":1}`, string(env.Payload))

	_, err = NewEventEnvelope("x", "y", make(chan int))
	assert.Error(t, err)
}

func TestEnvelope_MessageRoundTrip(t *testing.T) {
	payload := SnapshotPayload{Datasets: []string{"water_quality"}, Data: json.RawMessage(`{"water_quality":{}}`)}
	env, err := NewEventEnvelope(EventTypeSnapshot, SourceService, payload)
	require.NoError(t, err)

	msg, err := env.ToMessage("envirolens.snapshots")
	require.NoError(t, err)
	assert.Equal(t, []byte(env.EventID), msg.Key)
	assert.Equal(t, EventTypeSnapshot, msg.Headers["event_type"])

	decoded, err := DecodeEnvelope(msg.Value)
	require.NoError(t, err)
	var got SnapshotPayload
	require.NoError(t, decoded.DecodePayload(&got))
	assert.Equal(t, payload.Datasets, got.Datasets)
	assert.JSONEq(t, string(payload.Data), string(got.Data))
}

func TestDecodeEnvelope_Invalid(t *testing.T) {
	_, err := DecodeEnvelope(nil)
	assert.Error(t, err)
	_, err = DecodeEnvelope([]byte("{"))
	assert.Error(t, err)

	var v map[string]int
	assert.NoError(t, (&EventEnvelope{}).DecodePayload(&v))
}

func TestSnapshotPublisher_Publish(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(ctx context.Context, _ ...kafka.Message) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}}
	log := testutil.NewMockLogger()
	pub := newSnapshotPublisher(newTestProducer(w), "snaps", time.Second, log)

	err := pub.PublishSnapshot(context.Background(), SnapshotPayload{Datasets: []string{"mineral_extraction"}, Data: json.RawMessage(`{}`)})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "snaps", w.written[0].Topic)
	assert.True(t, log.HasMessage("info", "snapshot published"))

	require.NoError(t, pub.Close())
	assert.Equal(t, 1, w.closed)
}

func TestSnapshotPublisher_Failure(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return errors.New("no leader")
	}}
	log := testutil.NewMockLogger()
	pub := newSnapshotPublisher(newTestProducer(w), "snaps", 0, log)

	err := pub.PublishSnapshot(context.Background(), SnapshotPayload{Data: json.RawMessage(`{}`)})
	assert.Error(t, err)
	assert.True(t, log.HasMessage("warn", "snapshot publish failed"))
}

func TestNewSnapshotPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewSnapshotPublisher(config.KafkaConfig{Topic: "t"}, nil)
	assert.Error(t, err)
}
