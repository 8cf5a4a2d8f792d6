package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davidhuanca/mayorista-backend/api/middleware"
	"github.com/davidhuanca/mayorista-backend/api/responses"
	"github.com/davidhuanca/mayorista-backend/api/validators"
	"github.com/davidhuanca/mayorista-backend/internal/orders"
	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
	"github.com/davidhuanca/mayorista-backend/pkg/pagination"
)

type placeOrderLineRequest struct {
	ProductID int64 `json:"producto_id" validate:"required,min=1"`
	Quantity  int   `json:"cantidad" validate:"required,min=1"`
}

type placeOrderRequest struct {
	CustomerName    string                  `json:"nombre" validate:"required,max=120"`
	LastName        *string                 `json:"apellidos,omitempty" validate:"omitempty,max=120"`
	Phone           string                  `json:"telefono" validate:"required,max=20"`
	Email           *string                 `json:"email,omitempty" validate:"omitempty,email"`
	BranchID        int64                   `json:"sucursal_id" validate:"required,min=1"`
	PaymentType     string                  `json:"tipo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	DeliveryType    string                  `json:"tipo_entrega" validate:"required,oneof=delivery recojo"`
	DeliveryAddress *string                 `json:"direccion,omitempty"`
	References      *string                 `json:"referencias,omitempty"`
	Coordinates     *string                 `json:"coordenadas,omitempty"`
	Notes           *string                 `json:"notas,omitempty"`
	WantsInvoice    bool                    `json:"requiere_factura,omitempty"`
	BusinessName    *string                 `json:"razon_social,omitempty" validate:"omitempty,max=200"`
	TaxID           *string                 `json:"nit,omitempty" validate:"omitempty,max=20"`
	Lines           []placeOrderLineRequest `json:"detalles" validate:"required,min=1,dive"`
}

func (req placeOrderRequest) toInput(customer *orders.CustomerRef) orders.PlaceOrderInput {
	input := orders.PlaceOrderInput{
		Customer:        customer,
		BranchID:        req.BranchID,
		CustomerName:    validators.SanitizeString(req.CustomerName, 120),
		LastName:        req.LastName,
		Phone:           validators.SanitizeString(req.Phone, 20),
		Email:           req.Email,
		PaymentType:     enums.PaymentType(req.PaymentType),
		DeliveryType:    enums.DeliveryType(req.DeliveryType),
		DeliveryAddress: req.DeliveryAddress,
		References:      req.References,
		Coordinates:     req.Coordinates,
		Notes:           req.Notes,
		WantsInvoice:    req.WantsInvoice,
		BusinessName:    req.BusinessName,
		TaxID:           req.TaxID,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, orders.PlaceOrderLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return input
}

type orderLineResponse struct {
	ProductID   int64  `json:"producto_id"`
	ProductName string `json:"nombre_producto"`
	Quantity    int    `json:"cantidad"`
	UnitPrice   string `json:"precio"`
	Subtotal    string `json:"subtotal"`
}

type orderDetailResponse struct {
	ID              int64               `json:"id"`
	BranchID        int64               `json:"sucursal_id"`
	CustomerName    string              `json:"nombre"`
	LastName        *string             `json:"apellidos,omitempty"`
	Phone           string              `json:"telefono"`
	Email           *string             `json:"email,omitempty"`
	PaymentType     enums.PaymentType   `json:"tipo_pago"`
	DeliveryType    enums.DeliveryType  `json:"tipo_entrega"`
	DeliveryAddress *string             `json:"direccion,omitempty"`
	Notes           *string             `json:"notas,omitempty"`
	WantsInvoice    bool                `json:"requiere_factura"`
	BusinessName    *string             `json:"razon_social,omitempty"`
	TaxID           *string             `json:"nit,omitempty"`
	Status          enums.OrderStatus   `json:"estado"`
	SellerID        *int64              `json:"vendedor_id,omitempty"`
	Total           string              `json:"total"`
	PlacedAt        time.Time           `json:"fecha_pedido"`
	Lines           []orderLineResponse `json:"detalles"`
}

func toOrderDetail(order *models.Order) orderDetailResponse {
	resp := orderDetailResponse{
		ID:              order.ID,
		BranchID:        order.BranchID,
		CustomerName:    order.CustomerName,
		LastName:        order.LastName,
		Phone:           order.Phone,
		Email:           order.Email,
		PaymentType:     order.PaymentType,
		DeliveryType:    order.DeliveryType,
		DeliveryAddress: order.DeliveryAddress,
		Notes:           order.Notes,
		WantsInvoice:    order.WantsInvoice,
		BusinessName:    order.BusinessName,
		TaxID:           order.TaxID,
		Status:          order.Status,
		SellerID:        order.SellerID,
		Total:           order.Total.StringFixed(2),
		PlacedAt:        order.PlacedAt,
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Subtotal:    line.Subtotal.StringFixed(2),
		})
	}
	return resp
}

// PlaceOrder creates a pedido for the authenticated customer.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payload.toInput(&orders.CustomerRef{UserID: claims.UserID, Tier: claims.Tier()})
		if claims.Role == enums.RoleSeller {
			// Vendedores place pedidos on behalf of walk-in buyers: the buyer
			// is whoever the payload names, priced on the public tiers, and
			// the vendedor is recorded on the pedido.
			input.Customer = nil
			input.SellerID = &claims.UserID
		}
		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderDetail(order))
	}
}

// PlaceGuestOrder creates a pedido without credentials. Pricing falls back
// to the public tiers.
func PlaceGuestOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), payload.toInput(nil))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderDetail(order))
	}
}

// OrderDetail returns one pedido, scoped to its owner unless the caller is
// staff.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		id, err := validators.ParsePathID(chi.URLParam(r, "orderID"), "pedido_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := &orders.Actor{UserID: claims.UserID, Role: claims.Role}
		order, err := svc.GetOrder(r.Context(), id, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDetail(order))
	}
}

// OrderList returns the cursor-paginated pedidos the caller may see.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		actor := orders.Actor{UserID: claims.UserID, Role: claims.Role}
		list, err := svc.ListOrders(r.Context(), params, filters, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func parseOrderFilters(r *http.Request) (orders.OrderFilters, error) {
	var filters orders.OrderFilters

	if raw := r.URL.Query().Get("estado"); raw != "" {
		status := enums.OrderStatus(raw)
		if !status.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown estado filter").
				WithDetails(map[string]any{"estado": raw})
		}
		filters.Status = &status
	}

	branchID, err := validators.ParseQueryInt64(r, "sucursal_id")
	if err != nil {
		return filters, err
	}
	filters.BranchID = branchID

	customerID, err := validators.ParseQueryInt64(r, "cliente_id")
	if err != nil {
		return filters, err
	}
	filters.CustomerID = customerID

	dateFrom, err := validators.ParseQueryDate(r, "fecha_desde")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = dateFrom

	dateTo, err := validators.ParseQueryDate(r, "fecha_hasta")
	if err != nil {
		return filters, err
	}
	filters.DateTo = dateTo

	return filters, nil
}

type updateStatusRequest struct {
	Status   string `json:"estado" validate:"required"`
	Reason   string `json:"motivo,omitempty" validate:"omitempty,max=255"`
	SellerID *int64 `json:"vendedor_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateOrderStatus advances or cancels a pedido. Staff only; the route is
// guarded by RequireStaff and the service enforces the role again.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		id, err := validators.ParsePathID(chi.URLParam(r, "orderID"), "pedido_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID:  id,
			Status:   enums.OrderStatus(payload.Status),
			Reason:   validators.SanitizeString(payload.Reason, 255),
			SellerID: payload.SellerID,
			Actor:    orders.Actor{UserID: claims.UserID, Role: claims.Role},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDetail(order))
	}
}
