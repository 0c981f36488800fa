// Package events publishes order lifecycle changes to Kafka for kitchen displays and other consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"restaurant_backend/internal/models"

	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message value written for every order change.
type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     int64              `json:"orderId"`
	UserID      int64              `json:"userId"`
	OrderType   models.OrderType   `json:"orderType"`
	TableID     *int64             `json:"tableId,omitempty"`
	TotalAmount float64            `json:"totalAmount"`
	Status      models.OrderStatus `json:"status"`
	From        models.OrderStatus `json:"from,omitempty"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPublisher writes order events keyed by order id, so one order's events stay ordered within a partition.
type OrderPublisher struct {
	Writer messageWriter
	now    func() time.Time
}

// NewKafkaWriter builds the writer used in production.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func NewOrderPublisher(writer messageWriter) *OrderPublisher {
	return &OrderPublisher{Writer: writer, now: time.Now}
}

func (p *OrderPublisher) OrderCreated(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, EventOrderCreated, order, "")
}

func (p *OrderPublisher) OrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	return p.publish(ctx, EventOrderStatusChanged, order, from)
}

func (p *OrderPublisher) publish(ctx context.Context, eventType string, order *models.Order, from models.OrderStatus) error {
	payload, err := json.Marshal(OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		OrderType:   order.OrderType,
		TableID:     order.TableID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		From:        from,
		OccurredAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", eventType, err)
	}
	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(order.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("publishing %s for order %d: %w", eventType, order.ID, err)
	}
	return nil
}

func (p *OrderPublisher) Close() error {
	return p.Writer.Close()
}
