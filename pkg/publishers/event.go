package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/checkout-kit/internal/domain"
	"github.com/samvad-hq/checkout-kit/pkg/orders"
)

// Event operations.
const (
	OperationCreateOrder  = orders.OpCreateOrder
	OperationProcessOrder = orders.OpProcessOrder
)

// Event represents the payload published downstream after an order call.
type Event struct {
	ID          string             `json:"id"`
	Environment domain.Environment `json:"environment"`
	Operation   string             `json:"operation"`
	Order       orders.Order       `json:"order"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// NewEvent constructs an Event for the given operation + order.
func NewEvent(env domain.Environment, operation string, order orders.Order) Event {
	return Event{
		ID:          uuid.NewString(),
		Environment: env,
		Operation:   operation,
		Order:       order,
		OccurredAt:  time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":     e.ID,
		"operation":    e.Operation,
		"environment":  e.Environment.String(),
		"order_id":     e.Order.ID,
		"order_status": e.Order.Status,
	}
}
