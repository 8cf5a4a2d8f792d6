package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
)

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeSellers struct {
	messages []SellerMessage
	err      error
}

func (f *fakeSellers) PublishNewOrder(_ context.Context, msg SellerMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func sampleOrder() models.Order {
	email := "cliente@example.com"
	return models.Order{
		ID:           31,
		BranchID:     2,
		CustomerName: "Rosa Quispe",
		Email:        &email,
		Total:        decimal.RequireFromString("45.50"),
		PlacedAt:     time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC),
		Lines: []models.OrderLine{
			{ProductName: "Harina 1kg", Quantity: 5, Subtotal: decimal.RequireFromString("22.75")},
			{ProductName: "Azucar 1kg", Quantity: 5, Subtotal: decimal.RequireFromString("22.75")},
		},
	}
}

func TestOrderCreatedSendsBothChannels(t *testing.T) {
	mailer := &fakeMailer{}
	sellers := &fakeSellers{}
	notifier := NewNotifier(mailer, sellers, nil)

	notifier.OrderCreated(context.Background(), sampleOrder())

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "cliente@example.com", mailer.sent[0].to)
	require.Equal(t, "Pedido #31 recibido", mailer.sent[0].subject)
	require.Contains(t, mailer.sent[0].body, "Harina 1kg")
	require.Contains(t, mailer.sent[0].body, "Total: 45.50")

	require.Len(t, sellers.messages, 1)
	msg := sellers.messages[0]
	require.Equal(t, eventNewOrder, msg.Event)
	require.Equal(t, int64(31), msg.OrderID)
	require.Equal(t, "45.50", msg.Total)
}

func TestOrderCreatedSkipsEmailWithoutAddress(t *testing.T) {
	mailer := &fakeMailer{}
	sellers := &fakeSellers{}
	notifier := NewNotifier(mailer, sellers, nil)

	order := sampleOrder()
	order.Email = nil
	notifier.OrderCreated(context.Background(), order)

	require.Empty(t, mailer.sent)
	require.Len(t, sellers.messages, 1)
}

func TestOrderCreatedMailFailureDoesNotBlockSellers(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("relay down")}
	sellers := &fakeSellers{}
	notifier := NewNotifier(mailer, sellers, nil)

	notifier.OrderCreated(context.Background(), sampleOrder())

	require.Len(t, sellers.messages, 1)
}

func TestOrderCreatedNeverPanicsWithNilDeps(t *testing.T) {
	notifier := NewNotifier(nil, nil, nil)
	require.NotPanics(t, func() {
		notifier.OrderCreated(context.Background(), sampleOrder())
	})
}
