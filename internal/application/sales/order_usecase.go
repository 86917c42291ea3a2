package sales

import (
	"context"
	"fmt"
	"strings"
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

// OrderUseCase pedidos: Pendiente -> Entregado (genera venta a crédito) o Cancelado.
type OrderUseCase struct {
	workflow
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner repository.TxRunner,
	reads repository.Repos,
	policy ledger.Policy,
	cfg Config,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{workflow{txRunner: txRunner, reads: reads, policy: policy.Normalize(), cfg: cfg, log: log.Component("orders")}}
}

// CreateOrder registra un pedido Pendiente con precios vigentes. No toca stock ni saldo.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		client, wh, err := requireClientAndWarehouse(ctx, r, in.ClientID, in.WarehouseID)
		if err != nil {
			return err
		}
		lines, total, err := priceItems(ctx, r.Products, in.Items)
		if err != nil {
			return err
		}
		folio := strings.TrimSpace(in.Folio)
		if folio == "" {
			if folio, err = r.Orders.NextFolio(ctx); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		order = &entity.Order{
			ID:          newID(),
			Folio:       folio,
			ClientID:    client.ID,
			WarehouseID: wh.ID,
			TotalAmount: total,
			Status:      entity.OrderPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, l := range lines {
			order.Items = append(order.Items, entity.OrderItem{
				ID:        newID(),
				OrderID:   order.ID,
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.product.Price,
			})
		}
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventNewOrder,
			fmt.Sprintf("Pedido %s de %s por %s", order.Folio, client.Name, money.Format(total)),
			audit.Metadata{
				"order_id":  order.ID,
				"folio":     order.Folio,
				"client_id": client.ID,
				"client":    client.Name,
				"warehouse": wh.Name,
				"amount":    total.StringFixed(2),
				"items":     len(order.Items),
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("client_id", in.ClientID).Msg("pedido rechazado")
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("folio", order.Folio).Msg("pedido creado")
	return dto.ToOrderResponse(order), nil
}

// ConfirmDelivery entrega un pedido Pendiente: genera la venta a crédito con snapshot de costo,
// aplica el crédito al cliente y, según política, descuenta inventario. Todo o nada.
func (uc *OrderUseCase) ConfirmDelivery(ctx context.Context, actor entity.Actor, orderID string) (*dto.DeliveryResponse, error) {
	var order *entity.Order
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		order, err = r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransitionTo(entity.OrderDelivered) {
			return &domain.StateTransitionError{Entity: "pedido", ID: order.Folio, From: order.Status, To: entity.OrderDelivered}
		}
		client, err := r.Clients.GetForUpdate(ctx, order.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		if err := uc.policy.ApplyCreditSale(client, order.TotalAmount); err != nil {
			return err
		}

		now := time.Now().UTC()
		sale = &entity.Sale{
			ID:            newID(),
			ClientID:      order.ClientID,
			WarehouseID:   order.WarehouseID,
			OrderID:       order.ID,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: entity.PaymentCredit,
			Status:        entity.SaleCompleted,
			Seller:        actor.Name,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, it := range order.Items {
			p, err := r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        newID(),
				SaleID:    sale.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				UnitCost:  p.PurchasePrice,
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
		client.UpdatedAt = now
		if err := r.Clients.Update(ctx, client); err != nil {
			return err
		}
		order.Status = entity.OrderDelivered
		order.SaleID = sale.ID
		order.UpdatedAt = now
		if err := r.Orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventOrderDelivered,
			fmt.Sprintf("Entrega de pedido %s a %s por %s", order.Folio, client.Name, money.Format(order.TotalAmount)),
			audit.Metadata{
				"order_id":      order.ID,
				"folio":         order.Folio,
				"sale_id":       sale.ID,
				"client_id":     client.ID,
				"client":        client.Name,
				"amount":        order.TotalAmount.StringFixed(2),
				"method":        entity.PaymentCredit,
				"credits_count": client.CreditsCount,
				"new_balance":   client.Balance.StringFixed(2),
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("entrega rechazada")
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("sale_id", sale.ID).Msg("pedido entregado")
	return &dto.DeliveryResponse{Order: dto.ToOrderResponse(order), Sale: dto.ToSaleResponse(sale)}, nil
}

// CancelOrder cancela un pedido Pendiente. Sin efecto en saldo ni stock.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, actor entity.Actor, orderID string) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		order, err = r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransitionTo(entity.OrderCancelled) {
			return &domain.StateTransitionError{Entity: "pedido", ID: order.Folio, From: order.Status, To: entity.OrderCancelled}
		}
		order.Status = entity.OrderCancelled
		order.UpdatedAt = time.Now().UTC()
		if err := r.Orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		_, err = audit.Record(ctx, r.Audit, actor, entity.EventOrderCancelled,
			fmt.Sprintf("Cancelación de pedido %s", order.Folio),
			audit.Metadata{
				"order_id":  order.ID,
				"folio":     order.Folio,
				"client_id": order.ClientID,
				"amount":    order.TotalAmount.StringFixed(2),
			})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("cancelación de pedido rechazada")
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Msg("pedido cancelado")
	return dto.ToOrderResponse(order), nil
}

// GetOrder obtiene un pedido con sus renglones.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.reads.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToOrderResponse(o), nil
}

// ListOrders lista pedidos, más recientes primero.
func (uc *OrderUseCase) ListOrders(ctx context.Context, status, clientID string, page dto.PageRequest) ([]*dto.OrderResponse, error) {
	page.DefaultPage()
	list, err := uc.reads.Orders.List(ctx, repository.OrderFilter{Status: status, ClientID: clientID, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.ToOrderResponse(o))
	}
	return out, nil
}
