package enums

// ProductState is the catalog lifecycle flag on productos.estado.
type ProductState string

const (
	ProductStateActive   ProductState = "activo"
	ProductStateInactive ProductState = "inactivo"
)

func (s ProductState) IsValid() bool {
	return s == ProductStateActive || s == ProductStateInactive
}

// IsActive reports whether the product is sellable.
func (s ProductState) IsActive() bool {
	return s == ProductStateActive
}
