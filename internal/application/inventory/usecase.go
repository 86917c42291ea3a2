package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	domaininv "github.com/bmvdigital/pos-feria-2026/internal/domain/inventory"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

// DefaultLowStockThreshold existencia a partir de la cual se marca stock bajo.
const DefaultLowStockThreshold = 10

// InventoryUseCase ajustes de existencia (resurtido / merma) con bloqueo de fila
// (SELECT FOR UPDATE), movimiento y bitácora en la misma transacción.
type InventoryUseCase struct {
	txRunner          repository.TxRunner
	reads             repository.Repos
	lowStockThreshold int
	log               *logger.Logger
}

// NewInventoryUseCase construye el caso de uso. reads son repositorios fuera de transacción.
func NewInventoryUseCase(
	txRunner repository.TxRunner,
	reads repository.Repos,
	lowStockThreshold int,
	log *logger.Logger,
) *InventoryUseCase {
	if lowStockThreshold < 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &InventoryUseCase{txRunner: txRunner, reads: reads, lowStockThreshold: lowStockThreshold, log: log.Component("inventory")}
}

// AdjustStock aplica delta a la existencia del producto en el almacén.
// delta 0 = ErrInvalidAmount; un resultado negativo = ErrInsufficientStock sin cambios.
func (uc *InventoryUseCase) AdjustStock(ctx context.Context, actor entity.Actor, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Delta == 0 {
		return nil, domain.ErrInvalidAmount
	}

	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		wh, err := r.Warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if product == nil || wh == nil {
			return domain.ErrNotFound
		}

		stock, err := lockStock(ctx, r.Stock, in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		before := stock.Quantity
		if err := domaininv.ApplyDelta(stock, in.Delta); err != nil {
			return err
		}
		now := time.Now().UTC()
		stock.UpdatedAt = now
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}

		movType := domaininv.AdjustmentType(in.Delta)
		reason := in.Reason
		if reason == "" {
			reason = defaultReason(movType)
		}
		mov = &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Quantity:    in.Delta,
			Type:        movType,
			Description: reason,
			CreatedBy:   actor.Name,
			CreatedAt:   now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}

		event := entity.EventRestock
		desc := fmt.Sprintf("Entrada de %d unidades de %s en %s", in.Delta, product.Name, wh.Name)
		if in.Delta < 0 {
			event = entity.EventAdjustment
			desc = fmt.Sprintf("Salida de %d unidades de %s en %s: %s", -in.Delta, product.Name, wh.Name, reason)
		}
		_, err = audit.Record(ctx, r.Audit, actor, event, desc, audit.Metadata{
			"movement_id":  mov.ID,
			"product_id":   product.ID,
			"product":      product.Name,
			"warehouse_id": wh.ID,
			"warehouse":    wh.Name,
			"delta":        in.Delta,
			"previous":     before,
			"quantity":     stock.Quantity,
			"reason":       reason,
		})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Str("warehouse_id", in.WarehouseID).
			Int("delta", in.Delta).
			Msg("ajuste de inventario rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("type", mov.Type).
		Int("delta", mov.Quantity).
		Msg("ajuste de inventario registrado")
	out := dto.ToMovementResponse(mov)
	return &out, nil
}

// ListStock existencias con marca de stock bajo; warehouseID vacío = todos los almacenes.
func (uc *InventoryUseCase) ListStock(ctx context.Context, warehouseID string) ([]dto.StockLevelResponse, error) {
	levels, err := uc.reads.Stock.ListLevels(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.ToStockLevelResponse(l, uc.lowStockThreshold))
	}
	return out, nil
}

// ListMovements historial de movimientos, más reciente primero.
func (uc *InventoryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	movs, err := uc.reads.Movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

// lockStock bloquea la fila de stock; si no existe parte de cero.
func lockStock(ctx context.Context, repo repository.StockRepository, productID, warehouseID string) (*entity.Stock, error) {
	stock, err := repo.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		stock = &entity.Stock{ProductID: productID, WarehouseID: warehouseID}
	}
	return stock, nil
}

func defaultReason(movType string) string {
	if movType == entity.MovementRestock {
		return "Resurtido"
	}
	return "Ajuste / merma"
}
