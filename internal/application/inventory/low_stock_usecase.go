package inventory

import (
	"context"
	"sort"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
)

// ListLowStock devuelve solo las existencias en o por debajo del umbral,
// de menor a mayor cantidad, para priorizar el resurtido.
func (uc *InventoryUseCase) ListLowStock(ctx context.Context, warehouseID string) ([]dto.StockLevelResponse, error) {
	levels, err := uc.reads.Stock.ListLevels(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0)
	for _, l := range levels {
		if l.IsLow(uc.lowStockThreshold) {
			out = append(out, dto.ToStockLevelResponse(l, uc.lowStockThreshold))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out, nil
}
