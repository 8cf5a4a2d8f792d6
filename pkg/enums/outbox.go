package enums

// OutboxEventType identifies the domain events written to the outbox.
type OutboxEventType string

const (
	EventOrderCreated       OutboxEventType = "pedido.created"
	EventOrderStatusChanged OutboxEventType = "pedido.status_changed"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "pedido"
)

// IsValid reports whether the event type is one the publisher understands.
func (t OutboxEventType) IsValid() bool {
	switch t {
	case EventOrderCreated, EventOrderStatusChanged:
		return true
	}
	return false
}
