package repository

import (
	"context"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// ProductRepository puerto de persistencia del catálogo.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate lee y bloquea el producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search, category string) ([]*entity.Product, error)
	// IsReferenced indica si el producto aparece en movimientos, pedidos o ventas.
	IsReferenced(ctx context.Context, id string) (bool, error)
}
