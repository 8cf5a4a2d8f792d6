package enums

// PriceTier is the customer pricing class. L1 is the default retail
// tier; higher tiers carry progressively better wholesale rates.
type PriceTier string

const (
	PriceTierL1 PriceTier = "L1"
	PriceTierL2 PriceTier = "L2"
	PriceTierL3 PriceTier = "L3"
	PriceTierL4 PriceTier = "L4"
)

func (t PriceTier) IsValid() bool {
	switch t {
	case PriceTierL1, PriceTierL2, PriceTierL3, PriceTierL4:
		return true
	}
	return false
}

// FallbackChain returns the tier followed by every lower tier down to L1.
// Products are only required to carry an L1 price; when a requested tier
// has no price the next lower one applies.
func (t PriceTier) FallbackChain() []PriceTier {
	switch t {
	case PriceTierL4:
		return []PriceTier{PriceTierL4, PriceTierL3, PriceTierL2, PriceTierL1}
	case PriceTierL3:
		return []PriceTier{PriceTierL3, PriceTierL2, PriceTierL1}
	case PriceTierL2:
		return []PriceTier{PriceTierL2, PriceTierL1}
	default:
		return []PriceTier{PriceTierL1}
	}
}
