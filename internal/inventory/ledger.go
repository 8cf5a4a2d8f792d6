package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
)

// Ledger performs stock movements for productos. Every mutation is a single
// conditional UPDATE so concurrent orders can never drive stock negative,
// whatever the isolation level.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Reserve decrements stock for one product inside the caller's transaction.
// The decrement only applies when enough stock remains; agotado is recomputed
// from the same old row values in the same statement.
func (l *Ledger) Reserve(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND estado = ? AND stock >= ?", productID, enums.ProductStateActive, qty).
		Updates(map[string]any{
			"stock":   gorm.Expr("stock - ?", qty),
			"agotado": gorm.Expr("stock - ? <= 0", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// The guarded update matched nothing. Re-read to tell the caller why.
	var product models.Product
	err := tx.WithContext(ctx).First(&product, "id = ?", productID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{
			"producto_id": productID,
		})
	case err != nil:
		return err
	case product.State != enums.ProductStateActive:
		return pkgerrors.New(pkgerrors.CodeValidation, "product is not active").WithDetails(map[string]any{
			"producto_id": productID,
			"nombre":      product.Name,
		})
	default:
		return pkgerrors.New(pkgerrors.CodeOutOfStock, "insufficient stock").WithDetails(map[string]any{
			"producto_id": productID,
			"nombre":      product.Name,
			"solicitado":  qty,
			"disponible":  product.Stock,
		})
	}
}

// Release returns previously reserved stock, clearing the agotado flag.
// Used when cancelling orders.
func (l *Ledger) Release(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock":   gorm.Expr("stock + ?", qty),
			"agotado": false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{
			"producto_id": productID,
		})
	}
	return nil
}
