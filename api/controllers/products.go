package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidhuanca/mayorista-backend/api/responses"
	"github.com/davidhuanca/mayorista-backend/api/validators"
	"github.com/davidhuanca/mayorista-backend/internal/catalog"
	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
	"github.com/davidhuanca/mayorista-backend/pkg/pagination"
)

type productResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"nombre"`
	Description  *string `json:"descripcion,omitempty"`
	SKU          string  `json:"codigo_sku"`
	PriceL1      string  `json:"precio_l1"`
	PriceL2      *string `json:"precio_l2,omitempty"`
	WholesaleQty int     `json:"cantidad_mayoreo"`
	SoldOut      bool    `json:"agotado"`
	BranchID     *int64  `json:"sucursal_id,omitempty"`
}

type productListResponse struct {
	Products []productResponse `json:"productos"`
	NextID   int64             `json:"next_id,omitempty"`
}

func toProductResponse(p models.Product) productResponse {
	resp := productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SKU:          p.SKU,
		PriceL1:      p.PriceL1.StringFixed(2),
		WholesaleQty: p.WholesaleQty,
		SoldOut:      p.SoldOut,
		BranchID:     p.BranchID,
	}
	if p.PriceL2.Valid {
		l2 := p.PriceL2.Decimal.StringFixed(2)
		resp.PriceL2 = &l2
	}
	return resp
}

// ProductList serves the public catalog, paginated by product id.
func ProductList(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		afterID, err := validators.ParseQueryInt64(r, "after_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var after int64
		if afterID != nil {
			after = *afterID
		}

		items, err := repo.ListActive(r.Context(), after, limit+1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := productListResponse{Products: make([]productResponse, 0, len(items))}
		if len(items) > limit {
			items = items[:limit]
			resp.NextID = items[len(items)-1].ID
		}
		for _, item := range items {
			resp.Products = append(resp.Products, toProductResponse(item))
		}
		responses.WriteSuccess(w, resp)
	}
}

// ProductDetail serves a single product by id.
func ProductDetail(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "productID"), "producto_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := repo.FindByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.State.IsActive() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "product not available").
					WithDetails(map[string]any{"producto_id": id}))
			return
		}
		responses.WriteSuccess(w, toProductResponse(*product))
	}
}
