package inventory

import (
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// ApplyDelta suma delta a la existencia (servicio de dominio).
// Un resultado negativo se rechaza y la existencia queda intacta.
func ApplyDelta(stock *entity.Stock, delta int) error {
	next := stock.Quantity + delta
	if next < 0 {
		return &domain.InsufficientStockError{
			ProductID:   stock.ProductID,
			WarehouseID: stock.WarehouseID,
			Available:   stock.Quantity,
			Requested:   -delta,
		}
	}
	stock.Quantity = next
	return nil
}

// AdjustmentType devuelve resurtido para entradas y ajuste para salidas.
func AdjustmentType(delta int) string {
	if delta > 0 {
		return entity.MovementRestock
	}
	return entity.MovementAdjustment
}
