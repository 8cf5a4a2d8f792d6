package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/davidhuanca/mayorista-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Tokens are issued by the identity service; this package only has to agree
// on the claim shape so the API can verify and read them.
type AccessTokenPayload struct {
	UserID    int64
	Role      enums.UserRole
	PriceTier *enums.PriceTier
	BranchID  *int64
	JTI       string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID    int64            `json:"user_id"`
	Role      enums.UserRole   `json:"role"`
	PriceTier *enums.PriceTier `json:"nivel_precio,omitempty"`
	BranchID  *int64           `json:"sucursal_id,omitempty"`
	jwt.RegisteredClaims
}

// Tier resolves the buyer's price tier, defaulting to the retail tier when the
// token carries none.
func (c *AccessTokenClaims) Tier() enums.PriceTier {
	if c.PriceTier != nil && c.PriceTier.IsValid() {
		return *c.PriceTier
	}
	return enums.PriceTierL1
}
