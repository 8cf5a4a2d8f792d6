package models

import (
	"time"

	"github.com/davidhuanca/mayorista-backend/pkg/enums"
)

// Branch is a sucursal, the physical location orders are fulfilled from.
type Branch struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string             `gorm:"column:nombre;not null"`
	Address   *string            `gorm:"column:direccion"`
	Phone     *string            `gorm:"column:telefono"`
	State     enums.ProductState `gorm:"column:estado;not null;default:activo"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Branch) TableName() string { return "sucursales" }
