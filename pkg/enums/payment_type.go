package enums

// PaymentType mirrors the tipo_pago column.
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "efectivo"
	PaymentTypeCard     PaymentType = "tarjeta"
	PaymentTypeTransfer PaymentType = "transferencia"
)

func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeCard, PaymentTypeTransfer:
		return true
	}
	return false
}
