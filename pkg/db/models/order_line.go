package models

import "github.com/shopspring/decimal"

// OrderLine is a detalle_pedido row. Precio and subtotal are frozen copies of
// the resolved price at placement; product price changes never touch them.
type OrderLine struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"column:pedido_id;not null;index"`
	ProductID   int64           `gorm:"column:producto_id;not null"`
	ProductName string          `gorm:"column:nombre_producto;not null"`
	Quantity    int             `gorm:"column:cantidad;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:precio;type:numeric(10,2);not null"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
}

func (OrderLine) TableName() string { return "detalles_pedido" }
