package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	domaininv "github.com/bmvdigital/pos-feria-2026/internal/domain/inventory"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

// ConsumeForSale descuenta la existencia de cada renglón de la venta dentro de la
// transacción del llamador. Las filas se bloquean en orden de product_id.
// No registra bitácora: el comando de venta registra una sola entrada.
func ConsumeForSale(ctx context.Context, r repository.Repos, actor entity.Actor, sale *entity.Sale, now time.Time) error {
	qty := map[string]int{}
	for _, it := range sale.Items {
		qty[it.ProductID] += it.Quantity
	}
	for _, productID := range sortedKeys(qty) {
		if err := moveStock(ctx, r, actor, productID, sale.WarehouseID, -qty[productID],
			entity.MovementSale, fmt.Sprintf("Venta %s", sale.ID), sale.ID, now); err != nil {
			return err
		}
	}
	return nil
}

// RestoreForSale regresa al almacén lo que la venta consumió según sus movimientos.
// Devuelve false si la venta nunca descontó inventario.
func RestoreForSale(ctx context.Context, r repository.Repos, actor entity.Actor, sale *entity.Sale, now time.Time) (bool, error) {
	movs, err := r.Movements.List(ctx, repository.MovementFilter{ReferenceID: sale.ID})
	if err != nil {
		return false, err
	}
	pending := map[string]int{}
	for _, m := range movs {
		if m.Type == entity.MovementSale || m.Type == entity.MovementReturn {
			pending[m.ProductID] -= m.Quantity
		}
	}
	restored := false
	for _, productID := range sortedKeys(pending) {
		q := pending[productID]
		if q <= 0 {
			continue
		}
		if err := moveStock(ctx, r, actor, productID, sale.WarehouseID, q,
			entity.MovementReturn, fmt.Sprintf("Cancelación de venta %s", sale.ID), sale.ID, now); err != nil {
			return false, err
		}
		restored = true
	}
	return restored, nil
}

func moveStock(
	ctx context.Context,
	r repository.Repos,
	actor entity.Actor,
	productID, warehouseID string,
	delta int,
	movType, description, referenceID string,
	now time.Time,
) error {
	stock, err := lockStock(ctx, r.Stock, productID, warehouseID)
	if err != nil {
		return err
	}
	if err := domaininv.ApplyDelta(stock, delta); err != nil {
		return err
	}
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(ctx, stock); err != nil {
		return err
	}
	return r.Movements.Create(ctx, &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    delta,
		Type:        movType,
		Description: description,
		ReferenceID: referenceID,
		CreatedBy:   actor.Name,
		CreatedAt:   now,
	})
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
