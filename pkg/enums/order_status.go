package enums

// OrderStatus tracks the lifecycle of a pedido.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pendiente"
	OrderStatusConfirmed     OrderStatus = "confirmado"
	OrderStatusInPreparation OrderStatus = "en_preparacion"
	OrderStatusEnRoute       OrderStatus = "en_ruta"
	OrderStatusDelivered     OrderStatus = "entregado"
	OrderStatusCancelled     OrderStatus = "cancelado"
)

var orderStatusSuccessors = map[OrderStatus]OrderStatus{
	OrderStatusPending:       OrderStatusConfirmed,
	OrderStatusConfirmed:     OrderStatusInPreparation,
	OrderStatusInPreparation: OrderStatusEnRoute,
	OrderStatusEnRoute:       OrderStatusDelivered,
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInPreparation,
		OrderStatusEnRoute, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo enforces the linear fulfillment chain plus cancellation
// from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() || s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderStatusSuccessors[s] == next
}
