package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidhuanca/mayorista-backend/pkg/enums"
)

// Product is a catalog row. Prices are tiered: L1 is the retail price and
// L2..L4 progressively discount for higher-volume buyers.
type Product struct {
	ID                int64               `gorm:"column:id;primaryKey;autoIncrement"`
	BranchID          *int64              `gorm:"column:sucursal_id"`
	Name              string              `gorm:"column:nombre;not null"`
	Description       *string             `gorm:"column:descripcion"`
	SKU               string              `gorm:"column:codigo_sku;not null;uniqueIndex"`
	PriceL1           decimal.Decimal     `gorm:"column:precio_l1;type:numeric(10,2);not null"`
	PriceL2           decimal.NullDecimal `gorm:"column:precio_l2;type:numeric(10,2)"`
	PriceL3           decimal.NullDecimal `gorm:"column:precio_l3;type:numeric(10,2)"`
	PriceL4           decimal.NullDecimal `gorm:"column:precio_l4;type:numeric(10,2)"`
	Stock             int                 `gorm:"column:stock;not null;default:0"`
	SoldOut           bool                `gorm:"column:agotado;not null;default:false"`
	WholesaleQty      int                 `gorm:"column:cantidad_mayoreo;not null;default:12"`
	WholesaleQtySpec  int                 `gorm:"column:cantidad_mayoreo_especial;not null;default:24"`
	State             enums.ProductState  `gorm:"column:estado;not null;default:activo"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table naming.
func (Product) TableName() string { return "productos" }

// TierPrice returns the configured price for a tier when one is set.
func (p Product) TierPrice(tier enums.PriceTier) (decimal.Decimal, bool) {
	switch tier {
	case enums.PriceTierL1:
		return p.PriceL1, true
	case enums.PriceTierL2:
		if p.PriceL2.Valid {
			return p.PriceL2.Decimal, true
		}
	case enums.PriceTierL3:
		if p.PriceL3.Valid {
			return p.PriceL3.Decimal, true
		}
	case enums.PriceTierL4:
		if p.PriceL4.Valid {
			return p.PriceL4.Decimal, true
		}
	}
	return decimal.Decimal{}, false
}
