package repository

import (
	"context"
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas. Por defecto excluye las eliminadas.
type SaleFilter struct {
	ClientID       string
	Status         string
	PaymentMethod  string
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// SaleRepository puerto de persistencia de ventas (cabecera + renglones).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
