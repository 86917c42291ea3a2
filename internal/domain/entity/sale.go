package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	SaleCompleted = "Completada"
	SaleCancelled = "Cancelada"
	SaleDeleted   = "Eliminada"
)

// Métodos de pago de una venta.
const (
	PaymentCash   = "contado"
	PaymentCredit = "credito"
)

// Sale venta registrada. Items conserva el costo unitario vigente al venderse.
type Sale struct {
	ID            string
	ClientID      string
	WarehouseID   string
	OrderID       string // vacío en venta directa
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        string
	Seller        string
	Items         []SaleItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem renglón de venta. UnitCost es snapshot y no se recalcula.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// Subtotal devuelve cantidad por precio unitario.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsCredit indica si la venta fue a crédito.
func (s *Sale) IsCredit() bool {
	return s.PaymentMethod == PaymentCredit
}

// Cost suma el costo snapshot de los renglones.
func (s *Sale) Cost() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// CanTransitionTo aplica Completada -> Cancelada -> Eliminada.
func (s *Sale) CanTransitionTo(next string) bool {
	switch s.Status {
	case SaleCompleted:
		return next == SaleCancelled
	case SaleCancelled:
		return next == SaleDeleted
	default:
		return false
	}
}

// ValidPaymentMethod valida contado/credito.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCredit
}
