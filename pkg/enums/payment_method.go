package enums

// PaymentMethod is the buyer's payment selection captured on the order draft.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodCardOnDelivery PaymentMethod = "card_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCashOnDelivery,
	PaymentMethodCardOnDelivery,
	PaymentMethodBankTransfer,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// Valid reports whether the payment method is supported.
func (m PaymentMethod) Valid() bool {
	for _, candidate := range validPaymentMethods {
		if m == candidate {
			return true
		}
	}
	return false
}
