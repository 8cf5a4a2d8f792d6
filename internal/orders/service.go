package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/internal/catalog"
	"github.com/davidhuanca/mayorista-backend/internal/pricing"
	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
	"github.com/davidhuanca/mayorista-backend/pkg/metrics"
	"github.com/davidhuanca/mayorista-backend/pkg/outbox"
	"github.com/davidhuanca/mayorista-backend/pkg/outbox/payloads"
	"github.com/davidhuanca/mayorista-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// StockLedger moves product stock inside a transaction.
type StockLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID int64, qty int) error
	Release(ctx context.Context, tx *gorm.DB, productID int64, qty int) error
}

// Notifier runs after an order commits. Implementations must never feed
// failures back into the order path.
type Notifier interface {
	OrderCreated(ctx context.Context, order models.Order)
}

// Service defines the order operations exposed to controllers and workers.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id int64, actor *Actor) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters, actor Actor) (*OrderList, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Repository
	ledger   StockLedger
	tx       txRunner
	outbox   outboxEmitter
	notifier Notifier
	metrics  *metrics.OrderMetrics
	now      func() time.Time
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo     Repository
	Catalog  catalog.Repository
	Ledger   StockLedger
	Tx       txRunner
	Outbox   outboxEmitter
	Notifier Notifier
	Metrics  *metrics.OrderMetrics
	Now      func() time.Time
}

// NewService builds the order service with the required dependencies.
// Notifier and Metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		catalog:  params.Catalog,
		ledger:   params.Ledger,
		tx:       params.Tx,
		outbox:   params.Outbox,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

// PlaceOrder validates, prices, reserves stock and persists the pedido in one
// transaction. Side effects that talk to the outside world only fire after
// the commit succeeds.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if err := validatePlaceOrder(input); err != nil {
		s.rejected(errReason(err))
		return nil, err
	}

	start := s.now()
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		built, err := s.assemble(ctx, tx, input)
		if err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil {
		s.rejected(errReason(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncPlaced(input.Channel())
		s.metrics.ObservePlaceDuration(input.Channel(), s.now().Sub(start))
	}
	if s.notifier != nil {
		// Post-commit only, and off the request path. The detached context
		// lets the notification outlive the request; the notifier owns its
		// own timeout.
		go s.notifier.OrderCreated(context.WithoutCancel(ctx), *order)
	}
	return order, nil
}

func (s *service) assemble(ctx context.Context, tx *gorm.DB, input PlaceOrderInput) (*models.Order, error) {
	catalogRepo := s.catalog.WithTx(tx)

	if _, err := catalogRepo.FindBranch(ctx, input.BranchID); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.ProductID)
	}
	products, err := catalogRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	buyer := pricing.Buyer{Guest: true}
	if input.Customer != nil {
		buyer = pricing.Buyer{Tier: input.Customer.Tier}
	}

	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(input.Lines))
	eventLines := make([]payloads.OrderLineSummary, 0, len(input.Lines))

	for _, line := range input.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{
				"producto_id": line.ProductID,
			})
		}

		// Reserve before pricing so a failed line aborts the whole order
		// without further work.
		if err := s.ledger.Reserve(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}

		quote, err := pricing.Resolve(product, buyer, line.Quantity)
		if err != nil {
			return nil, err
		}
		subtotal := pricing.Subtotal(quote, line.Quantity)
		total = total.Add(subtotal)

		lines = append(lines, models.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   quote.UnitPrice,
			Subtotal:    subtotal,
		})
		eventLines = append(eventLines, payloads.OrderLineSummary{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   quote.UnitPrice.StringFixed(2),
			Subtotal:    subtotal.StringFixed(2),
		})
	}

	order := &models.Order{
		SellerID:        input.SellerID,
		BranchID:        input.BranchID,
		CustomerName:    input.CustomerName,
		LastName:        input.LastName,
		Phone:           input.Phone,
		Email:           input.Email,
		PaymentType:     input.PaymentType,
		DeliveryType:    input.DeliveryType,
		DeliveryAddress: input.DeliveryAddress,
		References:      input.References,
		Coordinates:     input.Coordinates,
		Notes:           input.Notes,
		WantsInvoice:    input.WantsInvoice,
		BusinessName:    input.BusinessName,
		TaxID:           input.TaxID,
		Status:          enums.OrderStatusPending,
		Total:           total.Round(2),
		PlacedAt:        s.now().UTC(),
		Lines:           lines,
	}
	if input.Customer != nil {
		order.CustomerID = &input.Customer.UserID
	}

	if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
		return nil, err
	}

	var actor *outbox.ActorRef
	if input.Customer != nil {
		actor = &outbox.ActorRef{UserID: input.Customer.UserID, Role: string(enums.RoleCustomer)}
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actor,
		Version:       1,
		Data: payloads.OrderCreatedEvent{
			OrderID:      order.ID,
			BranchID:     order.BranchID,
			CustomerName: order.CustomerName,
			Guest:        order.IsGuest(),
			PaymentType:  string(order.PaymentType),
			DeliveryType: string(order.DeliveryType),
			Total:        order.Total.StringFixed(2),
			Lines:        eventLines,
			PlacedAt:     order.PlacedAt,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id int64, actor *Actor) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.Role.IsStaff() {
		return order, nil
	}
	if order.CustomerID == nil || *order.CustomerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters, actor Actor) (*OrderList, error) {
	if !actor.Role.IsStaff() {
		// Customers only ever see their own orders.
		filters.CustomerID = &actor.UserID
	}
	return s.repo.List(ctx, params, filters)
}

// UpdateStatus moves an order through its lifecycle. Cancelling releases the
// reserved stock in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if !input.Actor.Role.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only staff can change order status")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").WithDetails(map[string]any{
			"estado": input.Status,
		})
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "state transition disallowed").WithDetails(map[string]any{
				"pedido_id": order.ID,
				"from":      order.Status,
				"to":        input.Status,
			})
		}

		ok, err := repo.UpdateStatus(ctx, order.ID, order.Status, input.Status, input.SellerID)
		if err != nil {
			return err
		}
		if !ok {
			// Someone else transitioned the order between the read and the
			// guarded update.
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently").WithDetails(map[string]any{
				"pedido_id": order.ID,
			})
		}

		if input.Status == enums.OrderStatusCancelled {
			for _, line := range order.Lines {
				if err := s.ledger.Release(ctx, tx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.Actor.UserID, Role: string(input.Actor.Role)},
			Version:       1,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:   order.ID,
				From:      string(order.Status),
				To:        string(input.Status),
				Reason:    input.Reason,
				ChangedAt: s.now().UTC(),
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		order.Status = input.Status
		if input.SellerID != nil {
			order.SellerID = input.SellerID
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil && input.Status == enums.OrderStatusCancelled {
		s.metrics.IncCancelled()
	}
	return updated, nil
}

func validatePlaceOrder(input PlaceOrderInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if input.BranchID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "branch is required")
	}
	if !input.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}
	if !input.DeliveryType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery type")
	}
	if input.DeliveryType == enums.DeliveryTypeDelivery {
		if input.DeliveryAddress == nil || strings.TrimSpace(*input.DeliveryAddress) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required for delivery orders")
		}
		if input.Coordinates == nil || strings.TrimSpace(*input.Coordinates) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "coordinates are required for delivery orders")
		}
	}
	if input.WantsInvoice {
		if input.BusinessName == nil || strings.TrimSpace(*input.BusinessName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "razon social is required for invoiced orders")
		}
		if input.TaxID == nil || strings.TrimSpace(*input.TaxID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "nit is required for invoiced orders")
		}
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}
	seen := make(map[int64]struct{}, len(input.Lines))
	for _, line := range input.Lines {
		if line.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").WithDetails(map[string]any{
				"producto_id": line.ProductID,
			})
		}
		if _, dup := seen[line.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product line").WithDetails(map[string]any{
				"producto_id": line.ProductID,
			})
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

func (s *service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncRejected(reason)
	}
}

func errReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeOutOfStock:
		return "out_of_stock"
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeNotFound:
		return "not_found"
	default:
		return strings.ToLower(string(typed.Code()))
	}
}
