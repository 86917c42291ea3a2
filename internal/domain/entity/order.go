package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderPending   = "Pendiente"
	OrderDelivered = "Entregado"
	OrderCancelled = "Cancelado"
)

// Order pedido de un cliente a entregar desde un almacén. Al entregarse genera una venta a crédito.
type Order struct {
	ID          string
	Folio       string // ORD-NNNN, único
	ClientID    string
	WarehouseID string
	TotalAmount decimal.Decimal
	Status      string
	SaleID      string // se asigna al entregar
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem renglón del pedido con el precio vigente al crearlo.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal devuelve cantidad por precio unitario.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CanTransitionTo aplica la máquina de estados: Pendiente -> {Entregado, Cancelado}.
func (o *Order) CanTransitionTo(next string) bool {
	if o.Status != OrderPending {
		return false
	}
	return next == OrderDelivered || next == OrderCancelled
}
