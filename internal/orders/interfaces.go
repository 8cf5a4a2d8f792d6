package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	"github.com/davidhuanca/mayorista-backend/pkg/pagination"
)

// Repository defines persistence operations for pedidos.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id int64, from, to enums.OrderStatus, sellerID *int64) (bool, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}
