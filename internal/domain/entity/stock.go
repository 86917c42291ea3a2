package entity

import "time"

// Stock representa la existencia de un producto en un almacén. Quantity nunca es negativa.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    int
	UpdatedAt   time.Time
}

// IsLow indica si la existencia está en o por debajo del umbral de stock bajo.
func (s *Stock) IsLow(threshold int) bool {
	return s.Quantity <= threshold
}

// StockLevel es la vista de lectura de Stock con datos del producto y del almacén.
type StockLevel struct {
	Stock
	ProductName   string
	Category      string
	Presentation  string
	WarehouseName string
}
