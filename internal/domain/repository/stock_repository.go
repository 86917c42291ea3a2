package repository

import (
	"context"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// StockRepository puerto para consultar/actualizar stock por almacén+producto.
// Get y GetForUpdate devuelven nil, nil si no existe la fila.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	DeleteByProduct(ctx context.Context, productID string) error
	// ListLevels devuelve existencias con datos de producto; warehouseID vacío = todos.
	ListLevels(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error)
}
