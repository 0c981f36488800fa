package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"restaurant_backend/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestOrderPublisher_StatusChanged(t *testing.T) {
	w := &recordingWriter{}
	p := NewOrderPublisher(w)
	at := time.Date(2024, 1, 1, 19, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return at }
	tableID := int64(4)

	order := &models.Order{
		ID: 21, UserID: 7, OrderType: models.OrderTypeDineIn, TableID: &tableID,
		TotalAmount: 25, Status: models.OrderStatusDelivered,
	}
	require.NoError(t, p.OrderStatusChanged(context.Background(), order, models.OrderStatusReady))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "21", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventOrderStatusChanged, string(msg.Headers[0].Value))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventOrderStatusChanged, event.Type)
	assert.Equal(t, models.OrderStatusReady, event.From)
	assert.Equal(t, models.OrderStatusDelivered, event.Status)
	assert.Equal(t, int64(4), *event.TableID)
	assert.True(t, at.Equal(event.OccurredAt))
}

func TestOrderPublisher_CreatedOmitsFrom(t *testing.T) {
	w := &recordingWriter{}
	p := NewOrderPublisher(w)

	order := &models.Order{ID: 3, OrderType: models.OrderTypeTakeaway, Status: models.OrderStatusPending}
	require.NoError(t, p.OrderCreated(context.Background(), order))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &raw))
	assert.Equal(t, EventOrderCreated, raw["type"])
	assert.NotContains(t, raw, "from")
	assert.NotContains(t, raw, "tableId")
}

func TestOrderPublisher_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewOrderPublisher(w)

	err := p.OrderCreated(context.Background(), &models.Order{ID: 9})
	assert.ErrorContains(t, err, "order 9")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "restaurant.orders")
	assert.Equal(t, "restaurant.orders", w.Topic)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
}
