package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
)

// Repository defines catalog reads used by ordering and the public API.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	ListActive(ctx context.Context, afterID int64, limit int) ([]models.Product, error)
	FindBranch(ctx context.Context, id int64) (*models.Branch, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{
			"producto_id": id,
		})
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	byID := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

func (r *repository) ListActive(ctx context.Context, afterID int64, limit int) ([]models.Product, error) {
	var rows []models.Product
	query := r.db.WithContext(ctx).
		Where("estado = ?", enums.ProductStateActive).
		Order("id ASC").
		Limit(limit)
	if afterID > 0 {
		query = query.Where("id > ?", afterID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindBranch(ctx context.Context, id int64) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found").WithDetails(map[string]any{
			"sucursal_id": id,
		})
	}
	if err != nil {
		return nil, err
	}
	return &branch, nil
}
