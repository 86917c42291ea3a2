package repository

import (
	"context"
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	ReferenceID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository puerto append-only de movimientos de inventario.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
