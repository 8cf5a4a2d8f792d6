package orders

import (
	"time"

	"github.com/davidhuanca/mayorista-backend/pkg/enums"
)

// CustomerRef identifies a registered buyer placing an order. Guest orders
// carry a nil reference.
type CustomerRef struct {
	UserID int64
	Tier   enums.PriceTier
}

// PlaceOrderLineInput is one requested line before pricing.
type PlaceOrderLineInput struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderInput carries everything needed to assemble a pedido.
type PlaceOrderInput struct {
	Customer        *CustomerRef
	SellerID        *int64
	BranchID        int64
	CustomerName    string
	LastName        *string
	Phone           string
	Email           *string
	PaymentType     enums.PaymentType
	DeliveryType    enums.DeliveryType
	DeliveryAddress *string
	References      *string
	Coordinates     *string
	Notes           *string
	WantsInvoice    bool
	BusinessName    *string
	TaxID           *string
	Lines           []PlaceOrderLineInput
}

// Channel labels the order source for metrics.
func (in PlaceOrderInput) Channel() string {
	if in.Customer == nil {
		return "guest"
	}
	return "registered"
}

// OrderFilters describe the inputs supported by the orders list.
type OrderFilters struct {
	Status     *enums.OrderStatus
	BranchID   *int64
	CustomerID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

// OrderLineSummary is one detalle in list/detail payloads.
type OrderLineSummary struct {
	ProductID   int64  `json:"producto_id"`
	ProductName string `json:"nombre_producto"`
	Quantity    int    `json:"cantidad"`
	UnitPrice   string `json:"precio"`
	Subtotal    string `json:"subtotal"`
}

// OrderSummary exposes the aggregated fields returned in the list.
type OrderSummary struct {
	ID           int64             `json:"id"`
	CustomerName string            `json:"nombre"`
	BranchID     int64             `json:"sucursal_id"`
	Status       enums.OrderStatus `json:"estado"`
	Total        string            `json:"total"`
	LineCount    int               `json:"total_items"`
	PlacedAt     time.Time         `json:"fecha_pedido"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"pedidos"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Actor is whoever invokes an order operation, as read from the JWT.
type Actor struct {
	UserID int64
	Role   enums.UserRole
}

// UpdateStatusInput captures a lifecycle transition request. SellerID, when
// set, assigns the pedido to that vendedor in the same update.
type UpdateStatusInput struct {
	OrderID  int64
	Status   enums.OrderStatus
	Reason   string
	SellerID *int64
	Actor    Actor
}
