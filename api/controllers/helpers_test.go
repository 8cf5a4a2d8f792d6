package controllers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidhuanca/mayorista-backend/internal/catalog"
	"github.com/davidhuanca/mayorista-backend/internal/inventory"
	"github.com/davidhuanca/mayorista-backend/internal/orders"
	"github.com/davidhuanca/mayorista-backend/pkg/db"
	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	"github.com/davidhuanca/mayorista-backend/pkg/outbox"
)

type testEnv struct {
	conn    *gorm.DB
	catalog catalog.Repository
	service orders.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:controllers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Branch{}, &models.Product{}, &models.Order{}, &models.OrderLine{}, &models.OutboxEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catalogRepo := catalog.NewRepository(conn)
	svc, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(conn),
		Catalog: catalogRepo,
		Ledger:  inventory.NewLedger(),
		Tx:      db.NewFromGorm(conn),
		Outbox:  outbox.NewService(outbox.NewRepository(conn), nil),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testEnv{conn: conn, catalog: catalogRepo, service: svc}
}

func (e *testEnv) seedBranch(t *testing.T) models.Branch {
	t.Helper()
	branch := models.Branch{Name: "Central"}
	if err := e.conn.Create(&branch).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	return branch
}

func (e *testEnv) seedProduct(t *testing.T, name string, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:         name,
		SKU:          "SKU-" + uuid.NewString(),
		PriceL1:      decimal.RequireFromString(price),
		PriceL2:      decimal.NewNullDecimal(decimal.RequireFromString("9.00")),
		Stock:        stock,
		WholesaleQty: 12,
		State:        enums.ProductStateActive,
	}
	if err := e.conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
