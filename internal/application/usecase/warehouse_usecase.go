package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

// WarehouseUseCase alta y consulta de almacenes.
type WarehouseUseCase struct {
	txRunner repository.TxRunner
	reads    repository.Repos
	log      *logger.Logger
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(txRunner repository.TxRunner, reads repository.Repos, log *logger.Logger) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner, reads: reads, log: log.Component("warehouses")}
}

// Create da de alta un almacén e inicializa en cero el stock de cada producto existente.
func (uc *WarehouseUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	warehouse := &entity.Warehouse{ID: uuid.New().String(), Name: name, CreatedAt: now}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Warehouses.Create(ctx, warehouse); err != nil {
			return err
		}
		products, err := r.Products.List(ctx, "", "")
		if err != nil {
			return err
		}
		for _, p := range products {
			if err := r.Stock.Upsert(ctx, &entity.Stock{ProductID: p.ID, WarehouseID: warehouse.ID, UpdatedAt: now}); err != nil {
				return err
			}
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventWarehouseCreated,
			"Alta de almacén "+warehouse.Name, audit.Metadata{
				"warehouse_id":   warehouse.ID,
				"warehouse":      warehouse.Name,
				"stock_rows_new": len(products),
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("warehouse", name).Msg("alta de almacén rechazada")
		return nil, err
	}
	uc.log.Info().Str("warehouse_id", warehouse.ID).Str("warehouse", name).Msg("almacén creado")
	return dto.ToWarehouseResponse(warehouse), nil
}

// GetByID obtiene un almacén.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.reads.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToWarehouseResponse(w), nil
}

// List lista los almacenes por nombre.
func (uc *WarehouseUseCase) List(ctx context.Context) ([]*dto.WarehouseResponse, error) {
	list, err := uc.reads.Warehouses.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, dto.ToWarehouseResponse(w))
	}
	return out, nil
}
