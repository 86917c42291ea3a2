package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/application/inventory"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
	"github.com/bmvdigital/pos-feria-2026/pkg/money"
)

// SaleUseCase ventas directas: Completada -> Cancelada -> Eliminada.
type SaleUseCase struct {
	workflow
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner repository.TxRunner,
	reads repository.Repos,
	policy ledger.Policy,
	cfg Config,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{workflow{txRunner: txRunner, reads: reads, policy: policy.Normalize(), cfg: cfg, log: log.Component("sales")}}
}

// CreateDirectSale registra una venta Completada de contado o a crédito.
// A crédito exige crédito disponible y suma al saldo del cliente.
func (uc *SaleUseCase) CreateDirectSale(ctx context.Context, actor entity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		client, wh, err := requireClientAndWarehouse(ctx, r, in.ClientID, in.WarehouseID)
		if err != nil {
			return err
		}
		lines, total, err := priceItems(ctx, r.Products, in.Items)
		if err != nil {
			return err
		}
		if in.PaymentMethod == entity.PaymentCredit {
			if client, err = r.Clients.GetForUpdate(ctx, client.ID); err != nil {
				return err
			}
			if err := uc.policy.ApplyCreditSale(client, total); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		sale = &entity.Sale{
			ID:            newID(),
			ClientID:      client.ID,
			WarehouseID:   wh.ID,
			TotalAmount:   total,
			PaymentMethod: in.PaymentMethod,
			Status:        entity.SaleCompleted,
			Seller:        actor.Name,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, l := range lines {
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        newID(),
				SaleID:    sale.ID,
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.product.Price,
				UnitCost:  l.product.PurchasePrice,
			})
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if uc.cfg.DecrementStockOnSale {
			if err := inventory.ConsumeForSale(ctx, r, actor, sale, now); err != nil {
				return err
			}
		}
		if sale.IsCredit() {
			client.UpdatedAt = now
			if err := r.Clients.Update(ctx, client); err != nil {
				return err
			}
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventNewSale,
			fmt.Sprintf("Venta de %s a %s (%s)", money.Format(total), client.Name, sale.PaymentMethod),
			audit.Metadata{
				"sale_id":   sale.ID,
				"client_id": client.ID,
				"client":    client.Name,
				"warehouse": wh.Name,
				"amount":    total.StringFixed(2),
				"method":    sale.PaymentMethod,
				"items":     len(sale.Items),
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("client_id", in.ClientID).Str("method", in.PaymentMethod).Msg("venta rechazada")
		return nil, err
	}
	uc.log.Info().Str("sale_id", sale.ID).Str("method", sale.PaymentMethod).
		Str("amount", sale.TotalAmount.StringFixed(2)).Msg("venta registrada")
	return dto.ToSaleResponse(sale), nil
}

// CancelSale cancela una venta Completada. A crédito descuenta el total del saldo (piso en cero)
// y regresa al almacén lo que la venta haya descontado.
func (uc *SaleUseCase) CancelSale(ctx context.Context, actor entity.Actor, saleID string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.CanTransitionTo(entity.SaleCancelled) {
			return &domain.StateTransitionError{Entity: "venta", ID: sale.ID, From: sale.Status, To: entity.SaleCancelled}
		}
		client, err := r.Clients.GetForUpdate(ctx, sale.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}

		now := time.Now().UTC()
		md := audit.Metadata{
			"sale_id":   sale.ID,
			"client_id": client.ID,
			"client":    client.Name,
			"amount":    sale.TotalAmount.StringFixed(2),
			"method":    sale.PaymentMethod,
		}
		if sale.IsCredit() {
			rev := uc.policy.ReverseSale(client, sale.TotalAmount)
			client.UpdatedAt = now
			if err := r.Clients.Update(ctx, client); err != nil {
				return err
			}
			md["balance_reversed"] = rev.Reversed.StringFixed(2)
			md["new_balance"] = client.Balance.StringFixed(2)
			md["credit_restored"] = rev.CreditRestored
			if rev.Unrecovered.IsPositive() {
				md["unrecovered"] = rev.Unrecovered.StringFixed(2)
			}
		}
		restored, err := inventory.RestoreForSale(ctx, r, actor, sale, now)
		if err != nil {
			return err
		}
		md["stock_restored"] = restored

		sale.Status = entity.SaleCancelled
		sale.UpdatedAt = now
		if err := r.Sales.UpdateStatus(ctx, sale); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventSaleCancelled,
			fmt.Sprintf("Cancelación de venta de %s a %s", money.Format(sale.TotalAmount), client.Name), md)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("sale_id", saleID).Msg("cancelación de venta rechazada")
		return nil, err
	}
	uc.log.Info().Str("sale_id", sale.ID).Msg("venta cancelada")
	return dto.ToSaleResponse(sale), nil
}

// DeleteSale marca como Eliminada una venta Cancelada (solo Master).
// El registro se conserva pero sale de listados y reportes.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, actor entity.Actor, saleID string) error {
	if !actor.IsMaster() {
		return domain.ErrForbidden
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.CanTransitionTo(entity.SaleDeleted) {
			return &domain.StateTransitionError{Entity: "venta", ID: sale.ID, From: sale.Status, To: entity.SaleDeleted}
		}
		sale.Status = entity.SaleDeleted
		sale.UpdatedAt = time.Now().UTC()
		if err := r.Sales.UpdateStatus(ctx, sale); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventSaleDeleted,
			fmt.Sprintf("Eliminación de venta %s por %s", sale.ID, money.Format(sale.TotalAmount)),
			audit.Metadata{
				"sale_id":   sale.ID,
				"client_id": sale.ClientID,
				"amount":    sale.TotalAmount.StringFixed(2),
				"method":    sale.PaymentMethod,
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("sale_id", saleID).Msg("eliminación de venta rechazada")
		return err
	}
	uc.log.Info().Str("sale_id", saleID).Msg("venta eliminada")
	return nil
}

// GetSale obtiene una venta con sus renglones (incluye eliminadas).
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.reads.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToSaleResponse(s), nil
}

// ListSales lista ventas, más recientes primero. Las eliminadas solo con IncludeDeleted.
func (uc *SaleUseCase) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*dto.SaleResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.reads.Sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToSaleResponse(s))
	}
	return out, nil
}
