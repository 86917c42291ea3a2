package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCash método de abono por defecto.
const PaymentMethodCash = "efectivo"

// Payment abono de un cliente. Amount es el monto efectivamente aplicado al saldo.
type Payment struct {
	ID        string
	ClientID  string
	Amount    decimal.Decimal
	Method    string
	Notes     string
	CreatedAt time.Time
}
