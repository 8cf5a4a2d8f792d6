package payloads

import "time"

// OrderLineSummary mirrors one detalle_pedido line in event payloads.
type OrderLineSummary struct {
	ProductID   int64  `json:"producto_id"`
	ProductName string `json:"nombre_producto"`
	Quantity    int    `json:"cantidad"`
	UnitPrice   string `json:"precio"`
	Subtotal    string `json:"subtotal"`
}

// OrderCreatedEvent signals a committed pedido. Prices are serialized as
// decimal strings to keep consumers away from float rounding.
type OrderCreatedEvent struct {
	OrderID      int64              `json:"pedido_id"`
	BranchID     int64              `json:"sucursal_id"`
	CustomerName string             `json:"nombre"`
	Guest        bool               `json:"guest"`
	PaymentType  string             `json:"tipo_pago"`
	DeliveryType string             `json:"tipo_entrega"`
	Total        string             `json:"total"`
	Lines        []OrderLineSummary `json:"detalles"`
	PlacedAt     time.Time          `json:"fecha_pedido"`
}

// OrderStatusChangedEvent is emitted whenever an order moves through its
// lifecycle, including TTL expiry cancellations.
type OrderStatusChangedEvent struct {
	OrderID   int64     `json:"pedido_id"`
	From      string    `json:"estado_anterior"`
	To        string    `json:"estado"`
	Reason    string    `json:"motivo,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}
