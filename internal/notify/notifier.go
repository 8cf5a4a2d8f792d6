package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
)

const eventNewOrder = "nuevo_pedido"

// Notifier delivers order side effects after the transaction commits.
// Failures are logged and swallowed: a lost email never unwinds a sale.
type Notifier struct {
	mailer  Mailer
	sellers SellerPublisher
	logg    *logger.Logger
	timeout time.Duration
}

func NewNotifier(mailer Mailer, sellers SellerPublisher, logg *logger.Logger) *Notifier {
	return &Notifier{
		mailer:  mailer,
		sellers: sellers,
		logg:    logg,
		timeout: 10 * time.Second,
	}
}

// OrderCreated sends the confirmation email and alerts sellers. Safe to call
// with a nil mailer or publisher; each channel is independent.
func (n *Notifier) OrderCreated(ctx context.Context, order models.Order) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	var errs error
	if n.mailer != nil && order.Email != nil && *order.Email != "" {
		subject := fmt.Sprintf("Pedido #%d recibido", order.ID)
		if err := n.mailer.Send(ctx, *order.Email, subject, confirmationBody(order)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("send confirmation email: %w", err))
		}
	}
	if n.sellers != nil {
		msg := SellerMessage{
			Event:        eventNewOrder,
			OrderID:      order.ID,
			CustomerName: order.CustomerName,
			Total:        order.Total.StringFixed(2),
			BranchID:     order.BranchID,
		}
		if err := n.sellers.PublishNewOrder(ctx, msg); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("publish seller alert: %w", err))
		}
	}

	if errs != nil && n.logg != nil {
		logCtx := n.logg.WithOrderID(ctx, order.ID)
		n.logg.Error(logCtx, "order notifications failed", errs)
	}
}

func confirmationBody(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", order.CustomerName)
	fmt.Fprintf(&b, "Recibimos tu pedido #%d el %s.\n\n", order.ID, order.PlacedAt.Format("02/01/2006 15:04"))
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "  %dx %s - %s\n", line.Quantity, line.ProductName, line.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", order.Total.StringFixed(2))
	b.WriteString("\nTe avisaremos cuando tu pedido sea confirmado.\n")
	return b.String()
}
