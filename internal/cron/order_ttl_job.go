package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/internal/orders"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
	"github.com/davidhuanca/mayorista-backend/pkg/outbox"
	"github.com/davidhuanca/mayorista-backend/pkg/outbox/payloads"
)

const expiryReason = "ttl_expirado"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type stockReleaser interface {
	Release(ctx context.Context, tx *gorm.DB, productID int64, qty int) error
}

// OrderTTLJobParams configure the stale order expiry job.
type OrderTTLJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository orders.Repository
	Ledger     stockReleaser
	Outbox     outboxEmitter
	PendingTTL time.Duration
}

// NewOrderTTLJob builds the job that cancels pedidos left in pendiente past
// the configured TTL, returning their stock to inventory.
func NewOrderTTLJob(params OrderTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if params.PendingTTL <= 0 {
		return nil, fmt.Errorf("pending ttl must be positive")
	}
	return &orderTTLJob{
		logg:   params.Logger,
		db:     params.DB,
		repo:   params.Repository,
		ledger: params.Ledger,
		outbox: params.Outbox,
		ttl:    params.PendingTTL,
		now:    time.Now,
	}, nil
}

type orderTTLJob struct {
	logg   *logger.Logger
	db     txRunner
	repo   orders.Repository
	ledger stockReleaser
	outbox outboxEmitter
	ttl    time.Duration
	now    func() time.Time
}

func (j *orderTTLJob) Name() string { return "order-ttl" }

func (j *orderTTLJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.repo.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	expired := 0
	for _, order := range stale {
		if err := j.expireOrder(ctx, order.ID); err != nil {
			return fmt.Errorf("expire order %d: %w", order.ID, err)
		}
		expired++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff,
		"expired": expired,
	})
	j.logg.Info(logCtx, "pending order expiry complete")
	return nil
}

// expireOrder cancels one order inside its own transaction. The guarded
// update makes the job safe to race with a seller confirming the order.
func (j *orderTTLJob) expireOrder(ctx context.Context, orderID int64) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repo.WithTx(tx)
		moved, err := repo.UpdateStatus(ctx, orderID, enums.OrderStatusPending, enums.OrderStatusCancelled, nil)
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := j.ledger.Release(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		now := j.now().UTC()
		return j.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:   order.ID,
				From:      string(enums.OrderStatusPending),
				To:        string(enums.OrderStatusCancelled),
				Reason:    expiryReason,
				ChangedAt: now,
			},
		})
	})
}
