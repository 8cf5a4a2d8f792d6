package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
)

func sampleProduct() models.Product {
	return models.Product{
		ID:           1,
		Name:         "Aceite 900ml",
		PriceL1:      decimal.RequireFromString("12.50"),
		PriceL2:      decimal.NewNullDecimal(decimal.RequireFromString("11.00")),
		PriceL3:      decimal.NewNullDecimal(decimal.RequireFromString("10.25")),
		WholesaleQty: 12,
	}
}

func TestResolve_RegisteredTier(t *testing.T) {
	product := sampleProduct()

	quote, err := Resolve(product, Buyer{Tier: enums.PriceTierL3}, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if quote.Tier != enums.PriceTierL3 {
		t.Fatalf("expected L3, got %s", quote.Tier)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("10.25")) {
		t.Fatalf("unexpected price %s", quote.UnitPrice)
	}
}

func TestResolve_TierFallback(t *testing.T) {
	product := sampleProduct()
	// No L4 price configured: an L4 buyer falls to L3.
	quote, err := Resolve(product, Buyer{Tier: enums.PriceTierL4}, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if quote.Tier != enums.PriceTierL3 {
		t.Fatalf("expected fallback to L3, got %s", quote.Tier)
	}

	// Product with only a retail price: everyone pays L1.
	retailOnly := models.Product{ID: 2, PriceL1: decimal.RequireFromString("5.00")}
	quote, err = Resolve(retailOnly, Buyer{Tier: enums.PriceTierL4}, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if quote.Tier != enums.PriceTierL1 || !quote.UnitPrice.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("unexpected quote %+v", quote)
	}
}

func TestResolve_GuestThreshold(t *testing.T) {
	product := sampleProduct()

	quote, err := Resolve(product, Buyer{Guest: true}, 11)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if quote.Tier != enums.PriceTierL1 {
		t.Fatalf("below threshold should stay retail, got %s", quote.Tier)
	}

	quote, err = Resolve(product, Buyer{Guest: true}, 12)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if quote.Tier != enums.PriceTierL2 {
		t.Fatalf("at threshold expected L2, got %s", quote.Tier)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("11.00")) {
		t.Fatalf("unexpected price %s", quote.UnitPrice)
	}
}

func TestResolve_GuestThresholdWithoutL2Price(t *testing.T) {
	product := models.Product{ID: 3, PriceL1: decimal.RequireFromString("8.00"), WholesaleQty: 12}

	quote, err := Resolve(product, Buyer{Guest: true}, 50)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if quote.Tier != enums.PriceTierL1 {
		t.Fatalf("missing L2 price should stay retail, got %s", quote.Tier)
	}
}

func TestResolve_InvalidQuantity(t *testing.T) {
	_, err := Resolve(sampleProduct(), Buyer{Guest: true}, 0)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubtotalRounding(t *testing.T) {
	quote := Quote{UnitPrice: decimal.RequireFromString("3.333")}
	got := Subtotal(quote, 3)
	if !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("unexpected subtotal %s", got)
	}

	quote = Quote{UnitPrice: decimal.RequireFromString("10.00")}
	if got := Subtotal(quote, 2); !got.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("unexpected subtotal %s", got)
	}
}
