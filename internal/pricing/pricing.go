package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/davidhuanca/mayorista-backend/pkg/db/models"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
)

// Buyer captures the pricing-relevant identity of whoever places the order.
type Buyer struct {
	Guest bool
	Tier  enums.PriceTier
}

// Quote is the resolved price for one line before quantities are applied.
type Quote struct {
	UnitPrice decimal.Decimal
	Tier      enums.PriceTier
}

// Resolve picks the unit price for a product given the buyer and the
// requested quantity. Registered buyers get their account tier with fallback
// to the next lower tier when the product has no price configured for it.
// Guests get the retail price unless the quantity reaches the wholesale
// threshold, which grants the L2 price.
func Resolve(product models.Product, buyer Buyer, qty int) (Quote, error) {
	if qty <= 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if buyer.Guest {
		return resolveGuest(product, qty), nil
	}

	tier := buyer.Tier
	if !tier.IsValid() {
		tier = enums.PriceTierL1
	}
	return resolveTier(product, tier)
}

func resolveGuest(product models.Product, qty int) Quote {
	if product.WholesaleQty > 0 && qty >= product.WholesaleQty {
		if price, ok := product.TierPrice(enums.PriceTierL2); ok {
			return Quote{UnitPrice: price, Tier: enums.PriceTierL2}
		}
	}
	return Quote{UnitPrice: product.PriceL1, Tier: enums.PriceTierL1}
}

func resolveTier(product models.Product, tier enums.PriceTier) (Quote, error) {
	for _, candidate := range tier.FallbackChain() {
		if price, ok := product.TierPrice(candidate); ok {
			return Quote{UnitPrice: price, Tier: candidate}, nil
		}
	}
	// L1 is NOT NULL at the schema level, so this only fires on a zero-value
	// product struct.
	return Quote{}, pkgerrors.New(pkgerrors.CodeInternal, "product has no resolvable price").WithDetails(map[string]any{
		"producto_id": product.ID,
	})
}

// Subtotal multiplies a resolved unit price by the quantity, keeping two
// decimal places.
func Subtotal(quote Quote, qty int) decimal.Decimal {
	return quote.UnitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
