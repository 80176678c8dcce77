package events

import (
	"context"
	"time"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/google/uuid"
)

type EventType string

const (
	OrderCreated       EventType = "order.created"
	OrderStatusChanged EventType = "order.status_changed"
	OrderCancelled     EventType = "order.cancelled"
)

type OrderEvent struct {
	EventID     string        `json:"eventId"`
	Type        EventType     `json:"type"`
	OrderID     string        `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	Status      domain.Status `json:"status"`
	Total       float64       `json:"total"`
	Degraded    bool          `json:"degraded"`
	Timestamp   time.Time     `json:"timestamp"`
	RequestID   string        `json:"requestId,omitempty"`
}

func NewOrderEvent(t EventType, order *domain.Order, degraded bool, requestID string) OrderEvent {
	return OrderEvent{
		EventID:     uuid.New().String(),
		Type:        t,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Total:       order.Total,
		Degraded:    degraded,
		Timestamp:   time.Now().UTC(),
		RequestID:   requestID,
	}
}

// Publisher hands order events to a broker. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NoopPublisher) Close() error                              { return nil }
