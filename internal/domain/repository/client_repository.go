package repository

import (
	"context"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// ClientFilter filtros del listado de clientes.
type ClientFilter struct {
	Search       string // nombre, zona o contacto
	WithDebtOnly bool   // solo saldo > 0, ordenado por saldo descendente
	Limit        int
	Offset       int
}

// ClientRepository puerto de persistencia de clientes. GetByID devuelve nil, nil si no existe.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	// GetForUpdate bloquea la fila del cliente hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, error)
}
