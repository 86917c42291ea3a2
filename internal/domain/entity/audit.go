package entity

import "time"

// Tipos de evento de la bitácora.
const (
	EventNewSale          = "Nueva Venta"
	EventSaleCancelled    = "Cancelación de Venta"
	EventSaleDeleted      = "Eliminación de Venta"
	EventNewOrder         = "Nuevo Pedido"
	EventOrderCancelled   = "Cancelación de Pedido"
	EventOrderDelivered   = "Pedido Entregado"
	EventClientPayment    = "Abono de Cliente"
	EventClientCreated    = "Alta de Cliente"
	EventClientUpdated    = "Edición de Cliente"
	EventProductCreated   = "Alta Producto"
	EventProductUpdated   = "Edición Producto"
	EventProductDeleted   = "Eliminación Producto"
	EventRestock          = "Resurtido / Entrada"
	EventAdjustment       = "Ajuste / Merma"
	EventWarehouseCreated = "Alta Almacén"
)

// AuditEntry evento inmutable de la bitácora.
type AuditEntry struct {
	ID          string
	ActorRole   string
	ActorName   string
	EventType   string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// AuditDeletion registro no borrable de una entrada eliminada por un Master.
type AuditDeletion struct {
	ID            string
	AuditEntryID  string
	EventType     string
	Snapshot      AuditEntry
	DeletedByRole string
	DeletedByName string
	DeletedAt     time.Time
}
