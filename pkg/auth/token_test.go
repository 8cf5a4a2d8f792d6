package auth

import (
	"testing"
	"time"

	"github.com/davidhuanca/mayorista-backend/pkg/config"
	"github.com/davidhuanca/mayorista-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "mayorista-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	tier := enums.PriceTierL3
	branch := int64(2)

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:    42,
		Role:      enums.RoleCustomer,
		PriceTier: &tier,
		BranchID:  &branch,
	})
	if err != nil {
		t.Fatalf("MintAccessToken failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected user id %d", claims.UserID)
	}
	if claims.Role != enums.RoleCustomer {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if got := claims.Tier(); got != enums.PriceTierL3 {
		t.Fatalf("unexpected tier %q", got)
	}
	if claims.BranchID == nil || *claims.BranchID != 2 {
		t.Fatalf("unexpected branch id %v", claims.BranchID)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestTierDefaultsToRetail(t *testing.T) {
	claims := &AccessTokenClaims{UserID: 7, Role: enums.RoleCustomer}
	if got := claims.Tier(); got != enums.PriceTierL1 {
		t.Fatalf("expected default tier L1, got %q", got)
	}
}

func TestMintAccessToken_Validation(t *testing.T) {
	cfg := testJWTConfig()

	if _, err := MintAccessToken(config.JWTConfig{}, time.Now(), AccessTokenPayload{UserID: 1, Role: enums.RoleCustomer}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: "gerente"}); err == nil {
		t.Fatal("expected error for invalid role")
	}
	bad := enums.PriceTier("L9")
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: enums.RoleCustomer, PriceTier: &bad}); err == nil {
		t.Fatal("expected error for invalid price tier")
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: enums.RoleSeller})
	if err != nil {
		t.Fatalf("MintAccessToken failed: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}
