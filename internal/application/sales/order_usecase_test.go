package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/application/apptest"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

func (h *harness) order(t *testing.T, items ...dto.ItemRequest) *dto.OrderResponse {
	t.Helper()
	resp, err := h.orders.CreateOrder(context.Background(), apptest.Seller, dto.CreateOrderRequest{
		ClientID:    h.env.ClientID,
		WarehouseID: h.env.WarehouseID,
		Items:       items,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateOrder_FolioConsecutivoSinEfectos(t *testing.T) {
	h := defaultHarness(t)

	first := h.order(t, dto.ItemRequest{ProductID: h.env.BeerID, Quantity: 3})
	second := h.order(t, dto.ItemRequest{ProductID: h.env.WaterID, Quantity: 1})

	assert.Equal(t, "ORD-0001", first.Folio)
	assert.Equal(t, "ORD-0002", second.Folio)
	assert.Equal(t, entity.OrderPending, first.Status)
	assert.True(t, dec(150).Equal(first.TotalAmount))
	assert.Empty(t, first.SaleID)

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))
}

func TestCreateOrder_FolioDuplicado(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()
	req := dto.CreateOrderRequest{
		ClientID:    h.env.ClientID,
		WarehouseID: h.env.WarehouseID,
		Folio:       "FERIA-7",
		Items:       []dto.ItemRequest{{ProductID: h.env.BeerID, Quantity: 1}},
	}

	_, err := h.orders.CreateOrder(ctx, apptest.Seller, req)
	require.NoError(t, err)
	_, err = h.orders.CreateOrder(ctx, apptest.Seller, req)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	assert.Len(t, h.env.AuditEntries(t), 1)
}

func TestConfirmDelivery_GeneraVentaACredito(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	order := h.order(t, dto.ItemRequest{ProductID: h.env.BeerID, Quantity: 3})

	res, err := h.orders.ConfirmDelivery(ctx, apptest.Seller, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, res.Order.Status)
	assert.Equal(t, res.Sale.ID, res.Order.SaleID)
	assert.Equal(t, order.ID, res.Sale.OrderID)
	assert.Equal(t, entity.PaymentCredit, res.Sale.PaymentMethod)
	assert.Equal(t, entity.SaleCompleted, res.Sale.Status)
	assert.True(t, dec(150).Equal(res.Sale.TotalAmount))
	require.Len(t, res.Sale.Items, 1)
	assert.True(t, dec(30).Equal(res.Sale.Items[0].UnitCost))

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, dec(150).Equal(c.Balance))
	assert.Equal(t, 1, c.CreditsCount)
	assert.Equal(t, 97, h.env.Stock(t, h.env.BeerID))

	// El costo queda fijo aunque cambie el catálogo.
	err = h.env.Store.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, h.env.BeerID)
		if err != nil {
			return err
		}
		p.PurchasePrice = dec(45)
		return r.Products.Update(ctx, p)
	})
	require.NoError(t, err)
	got, err := h.sales.GetSale(ctx, res.Sale.ID)
	require.NoError(t, err)
	assert.True(t, dec(30).Equal(got.Items[0].UnitCost))

	stored, err := h.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, stored.Status)
}

func TestConfirmDelivery_TransicionesInvalidas(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	delivered := h.order(t, dto.ItemRequest{ProductID: h.env.WaterID, Quantity: 1})
	_, err := h.orders.ConfirmDelivery(ctx, apptest.Seller, delivered.ID)
	require.NoError(t, err)

	_, err = h.orders.ConfirmDelivery(ctx, apptest.Seller, delivered.ID)
	var stErr *domain.StateTransitionError
	require.True(t, errors.As(err, &stErr))
	assert.Equal(t, entity.OrderDelivered, stErr.From)

	_, err = h.orders.CancelOrder(ctx, apptest.Seller, delivered.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	cancelled := h.order(t, dto.ItemRequest{ProductID: h.env.WaterID, Quantity: 1})
	_, err = h.orders.CancelOrder(ctx, apptest.Seller, cancelled.ID)
	require.NoError(t, err)
	_, err = h.orders.ConfirmDelivery(ctx, apptest.Seller, cancelled.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = h.orders.ConfirmDelivery(ctx, apptest.Seller, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c := h.env.Client(t, h.env.ClientID)
	assert.Equal(t, 1, c.CreditsCount)
	assert.True(t, dec(20).Equal(c.Balance))
}

func TestConfirmDelivery_SinCreditoDejaPedidoPendiente(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	h.sale(t, entity.PaymentCredit, h.env.WaterID, 1)
	h.sale(t, entity.PaymentCredit, h.env.WaterID, 1)
	order := h.order(t, dto.ItemRequest{ProductID: h.env.BeerID, Quantity: 1})
	clientBefore := h.env.Client(t, h.env.ClientID)
	auditBefore := len(h.env.AuditEntries(t))

	_, err := h.orders.ConfirmDelivery(ctx, apptest.Seller, order.ID)
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)

	got, err := h.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, got.Status)
	assert.Equal(t, clientBefore, h.env.Client(t, h.env.ClientID))
	assert.Len(t, h.env.AuditEntries(t), auditBefore)
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))
}

func TestConfirmDelivery_StockInsuficienteRevierteTodo(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	order := h.order(t,
		dto.ItemRequest{ProductID: h.env.WaterID, Quantity: 10},
		dto.ItemRequest{ProductID: h.env.BeerID, Quantity: 150},
	)

	_, err := h.orders.ConfirmDelivery(ctx, apptest.Seller, order.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := h.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, got.Status)
	assert.Empty(t, got.SaleID)

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 0, c.CreditsCount)
	assert.Equal(t, 100, h.env.Stock(t, h.env.WaterID))
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))

	list, err := h.sales.ListSales(ctx, repository.SaleFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConfirmDelivery_FallaAlConfirmarNoDejaRastro(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()
	order := h.order(t, dto.ItemRequest{ProductID: h.env.BeerID, Quantity: 2})

	h.env.Store.InjectFault("commit", errors.New("conexión perdida"))
	_, err := h.orders.ConfirmDelivery(ctx, apptest.Seller, order.ID)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	h.env.Store.InjectFault("commit", nil)

	got, err := h.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, got.Status)
	assert.True(t, h.env.Client(t, h.env.ClientID).Balance.IsZero())
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))

	// Reintento exitoso.
	_, err = h.orders.ConfirmDelivery(ctx, apptest.Seller, order.ID)
	require.NoError(t, err)
}

func TestListOrders_FiltraPorEstado(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	a := h.order(t, dto.ItemRequest{ProductID: h.env.BeerID, Quantity: 1})
	h.order(t, dto.ItemRequest{ProductID: h.env.BeerID, Quantity: 1})
	_, err := h.orders.CancelOrder(ctx, apptest.Seller, a.ID)
	require.NoError(t, err)

	pending, err := h.orders.ListOrders(ctx, entity.OrderPending, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := h.orders.ListOrders(ctx, "", h.env.ClientID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ORD-0002", all[0].Folio)
}
