package eventbus

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageCarriesKeyAndHeaders(t *testing.T) {
	evt, err := NewJSONEvent("evt-1", "post-1", map[string]string{"slug": "hello"})
	require.NoError(t, err)
	evt.Headers = map[string]string{"X-Request-Id": "req-1"}

	msg, err := newMessage("posts", evt)
	require.NoError(t, err)
	assert.Equal(t, "posts", *msg.TopicPartition.Topic)
	assert.Equal(t, kafka.PartitionAny, msg.TopicPartition.Partition)
	assert.Equal(t, []byte("post-1"), msg.Key)
	assert.JSONEq(t, `{"id":"evt-1","payload":{"slug":"hello"}}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "X-Request-Id", msg.Headers[0].Key)
	assert.Equal(t, []byte("req-1"), msg.Headers[0].Value)
}

func TestNewMessageFallsBackToIDKey(t *testing.T) {
	msg, err := newMessage("posts", Event{ID: "evt-2", Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, []byte("evt-2"), msg.Key)
	assert.Empty(t, msg.Headers)
}

func TestClosedBusRejectsPublish(t *testing.T) {
	bus := &KafkaEventBus{}
	bus.closed.Store(true)
	assert.ErrorIs(t, bus.Publish(context.Background(), "posts", Event{ID: "x"}), ErrBusClosed)
	bus.Close()
}
