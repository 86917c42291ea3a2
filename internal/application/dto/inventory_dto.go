package dto

import (
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// AdjustStockRequest entrada para resurtido (delta > 0) o ajuste/merma (delta < 0).
type AdjustStockRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Delta       int    `json:"delta"`
	Reason      string `json:"reason" validate:"max=300"`
}

// StockLevelResponse existencia por producto y almacén.
type StockLevelResponse struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Category      string    `json:"category"`
	Presentation  string    `json:"presentation"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	Quantity      int       `json:"quantity"`
	LowStock      bool      `json:"low_stock"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToStockLevelResponse convierte la vista de stock marcando stock bajo.
func ToStockLevelResponse(l *entity.StockLevel, threshold int) StockLevelResponse {
	return StockLevelResponse{
		ProductID:     l.ProductID,
		ProductName:   l.ProductName,
		Category:      l.Category,
		Presentation:  l.Presentation,
		WarehouseID:   l.WarehouseID,
		WarehouseName: l.WarehouseName,
		Quantity:      l.Quantity,
		LowStock:      l.IsLow(threshold),
		UpdatedAt:     l.UpdatedAt,
	}
}

// MovementResponse movimiento de inventario.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	Type        string    `json:"movement_type"`
	Description string    `json:"description"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToMovementResponse convierte la entidad.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		Type:        m.Type,
		Description: m.Description,
		ReferenceID: m.ReferenceID,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
