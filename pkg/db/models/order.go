package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidhuanca/mayorista-backend/pkg/enums"
)

// Order is the pedido aggregate root. Customer identity fields are snapshots
// taken at placement time so later account edits never rewrite history.
type Order struct {
	ID              int64              `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID      *int64             `gorm:"column:cliente_id;index"`
	SellerID        *int64             `gorm:"column:vendedor_id;index"`
	BranchID        int64              `gorm:"column:sucursal_id;not null;index"`
	CustomerName    string             `gorm:"column:nombre;not null"`
	LastName        *string            `gorm:"column:apellidos"`
	Phone           string             `gorm:"column:telefono;not null"`
	Email           *string            `gorm:"column:email"`
	PaymentType     enums.PaymentType  `gorm:"column:tipo_pago;not null"`
	DeliveryType    enums.DeliveryType `gorm:"column:tipo_entrega;not null"`
	DeliveryAddress *string            `gorm:"column:direccion_entrega"`
	References      *string            `gorm:"column:referencias"`
	Coordinates     *string            `gorm:"column:coordenadas"`
	Notes           *string            `gorm:"column:notas"`
	WantsInvoice    bool               `gorm:"column:requiere_factura;not null;default:false"`
	BusinessName    *string            `gorm:"column:razon_social"`
	TaxID           *string            `gorm:"column:nit"`
	Status          enums.OrderStatus  `gorm:"column:estado;not null;default:pendiente;index"`
	Total           decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null"`
	PlacedAt        time.Time          `gorm:"column:fecha_pedido;not null;index"`
	Lines           []OrderLine        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "pedidos" }

// IsGuest reports whether the order was placed without an account.
func (o Order) IsGuest() bool { return o.CustomerID == nil }
