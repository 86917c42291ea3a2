package repository

import (
	"context"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	Status   string
	ClientID string
	Limit    int
	Offset   int
}

// OrderRepository puerto de persistencia de pedidos (cabecera + renglones).
type OrderRepository interface {
	// Create inserta cabecera y renglones; folio duplicado = ErrConstraintViolation.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatus persiste Status, SaleID y UpdatedAt.
	UpdateStatus(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	// NextFolio reserva el siguiente folio ORD-NNNN.
	NextFolio(ctx context.Context) (string, error)
}
