package kafka

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, ParseBrokers(""))
}

func TestNewProducer(t *testing.T) {
	t.Run("requires brokers", func(t *testing.T) {
		_, err := NewProducer(Config{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}, ClientID: "churn-service"})
		require.NoError(t, err)
		assert.Equal(t, 10*time.Millisecond, p.batchTimeout)
		assert.Equal(t, "churn-service", p.transport.ClientID)
		assert.Nil(t, p.transport.TLS)
		assert.Empty(t, p.writers)
	})

	t.Run("enables tls", func(t *testing.T) {
		p, err := NewProducer(Config{Brokers: []string{"kafka:9093"}, TLS: true})
		require.NoError(t, err)
		require.NotNil(t, p.transport.TLS)
	})
}

func TestWriterFor(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.writerFor("churn.events")
	w2 := p.writerFor("churn.events")
	w3 := p.writerFor("churn.audit")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, "churn.events", w1.Topic)
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestPublish_NoMessagesIsNoop(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "churn.events"))
	assert.Empty(t, p.writers)
}

func TestToKafkaMessage(t *testing.T) {
	km := toKafkaMessage(Message{
		Key:     []byte("assessment-1"),
		Value:   []byte(`{"tier":"HIGH"}`),
		Headers: map[string]string{"event_type": "churn.high_risk.detected"},
	})

	assert.Equal(t, []byte("assessment-1"), km.Key)
	assert.Equal(t, []kafkago.Header{{Key: "event_type", Value: []byte("churn.high_risk.detected")}}, km.Headers)
}
