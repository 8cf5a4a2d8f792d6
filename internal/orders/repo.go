package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
	"github.com/davidhuanca/mayorista-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found").WithDetails(map[string]any{
			"pedido_id": id,
		})
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	qb := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Lines")
	if filters.Status != nil {
		qb = qb.Where("estado = ?", *filters.Status)
	}
	if filters.BranchID != nil {
		qb = qb.Where("sucursal_id = ?", *filters.BranchID)
	}
	if filters.CustomerID != nil {
		qb = qb.Where("cliente_id = ?", *filters.CustomerID)
	}
	if filters.DateFrom != nil {
		qb = qb.Where("fecha_pedido >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		qb = qb.Where("fecha_pedido <= ?", *filters.DateTo)
	}
	if cursor != nil {
		qb = qb.Where("(fecha_pedido < ?) OR (fecha_pedido = ? AND id < ?)",
			cursor.PlacedAt, cursor.PlacedAt, cursor.ID)
	}

	var rows []models.Order
	if err := qb.Order("fecha_pedido DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{PlacedAt: last.PlacedAt, ID: last.ID})
	}

	summaries := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, OrderSummary{
			ID:           row.ID,
			CustomerName: row.CustomerName,
			BranchID:     row.BranchID,
			Status:       row.Status,
			Total:        row.Total.StringFixed(2),
			LineCount:    len(row.Lines),
			PlacedAt:     row.PlacedAt,
		})
	}

	return &OrderList{Orders: summaries, NextCursor: nextCursor}, nil
}

// UpdateStatus applies a guarded transition, optionally assigning the
// vendedor in the same statement. The WHERE clause pins the expected current
// status so two concurrent transitions cannot both win.
func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to enums.OrderStatus, sellerID *int64) (bool, error) {
	updates := map[string]any{"estado": to}
	if sellerID != nil {
		updates["vendedor_id"] = *sellerID
	}
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND estado = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("estado = ? AND fecha_pedido < ?", enums.OrderStatusPending, cutoff).
		Order("fecha_pedido ASC").
		Find(&rows).Error
	return rows, err
}
