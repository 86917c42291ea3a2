package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementRestock    = "resurtido"  // entrada (delta > 0)
	MovementAdjustment = "ajuste"     // merma o corrección (delta < 0)
	MovementSale       = "venta"      // consumo por venta o entrega
	MovementReturn     = "devolucion" // restitución por cancelación de venta
)

// StockMovement registro inmutable de un cambio de existencia. Quantity lleva signo.
type StockMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int
	Type        string
	Description string
	ReferenceID string // ID de la venta para venta/devolucion
	CreatedBy   string
	CreatedAt   time.Time
}
