// Package sales implementa el flujo pedido -> entrega -> venta y la venta directa,
// con sus efectos sobre saldo, créditos e inventario.
package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

// Config políticas del flujo de venta.
type Config struct {
	// DecrementStockOnSale descuenta inventario al vender o entregar (y lo regresa al cancelar).
	DecrementStockOnSale bool
}

// DefaultConfig descuenta inventario en cada venta.
func DefaultConfig() Config {
	return Config{DecrementStockOnSale: true}
}

// workflow dependencias comunes de pedidos y ventas.
type workflow struct {
	txRunner repository.TxRunner
	reads    repository.Repos
	policy   ledger.Policy
	cfg      Config
	log      *logger.Logger
}

// pricedLine renglón con el producto vigente.
type pricedLine struct {
	product  *entity.Product
	quantity int
}

// priceItems valida los renglones y toma precio y costo del catálogo vigente.
func priceItems(ctx context.Context, products repository.ProductRepository, items []dto.ItemRequest) ([]pricedLine, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, domain.ErrInvalidInput
	}
	lines := make([]pricedLine, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		if it.ProductID == "" {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		if it.Quantity <= 0 {
			return nil, decimal.Zero, domain.ErrInvalidAmount
		}
		p, err := products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p == nil {
			return nil, decimal.Zero, domain.ErrNotFound
		}
		lines = append(lines, pricedLine{product: p, quantity: it.Quantity})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return lines, total, nil
}

// requireClientAndWarehouse verifica que existan cliente y almacén.
func requireClientAndWarehouse(ctx context.Context, r repository.Repos, clientID, warehouseID string) (*entity.Client, *entity.Warehouse, error) {
	if clientID == "" || warehouseID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	client, err := r.Clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	wh, err := r.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	if client == nil || wh == nil {
		return nil, nil, domain.ErrNotFound
	}
	return client, wh, nil
}

func newID() string { return uuid.New().String() }
