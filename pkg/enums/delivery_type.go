package enums

// DeliveryType mirrors the tipo_entrega column.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "recojo"
)

func (d DeliveryType) IsValid() bool {
	return d == DeliveryTypeDelivery || d == DeliveryTypePickup
}
