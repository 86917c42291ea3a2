package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/application/apptest"
	"github.com/bmvdigital/pos-feria-2026/internal/application/credit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/application/sales"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

type harness struct {
	env    *apptest.Env
	orders *sales.OrderUseCase
	sales  *sales.SaleUseCase
	credit *credit.CreditUseCase
}

func newHarness(t *testing.T, policy ledger.Policy, cfg sales.Config) *harness {
	t.Helper()
	env := apptest.NewEnv(t)
	reads := env.Store.Repos()
	log := logger.Nop()
	return &harness{
		env:    env,
		orders: sales.NewOrderUseCase(env.Store, reads, policy, cfg, log),
		sales:  sales.NewSaleUseCase(env.Store, reads, policy, cfg, log),
		credit: credit.NewCreditUseCase(env.Store, reads, policy, log),
	}
}

func defaultHarness(t *testing.T) *harness {
	return newHarness(t, ledger.DefaultPolicy(), sales.DefaultConfig())
}

func (h *harness) sale(t *testing.T, method string, productID string, qty int) *dto.SaleResponse {
	t.Helper()
	resp, err := h.sales.CreateDirectSale(context.Background(), apptest.Seller, dto.CreateSaleRequest{
		ClientID:      h.env.ClientID,
		WarehouseID:   h.env.WarehouseID,
		PaymentMethod: method,
		Items:         []dto.ItemRequest{{ProductID: productID, Quantity: qty}},
	})
	require.NoError(t, err)
	return resp
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCreateDirectSale_Contado(t *testing.T) {
	h := defaultHarness(t)

	resp := h.sale(t, entity.PaymentCash, h.env.BeerID, 2)

	assert.True(t, dec(100).Equal(resp.TotalAmount))
	assert.Equal(t, entity.SaleCompleted, resp.Status)
	assert.Equal(t, "Luis", resp.Seller)
	require.Len(t, resp.Items, 1)
	assert.True(t, dec(30).Equal(resp.Items[0].UnitCost))

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 0, c.CreditsCount)
	assert.Equal(t, 98, h.env.Stock(t, h.env.BeerID))

	entries := h.env.AuditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EventNewSale, entries[0].EventType)
	assert.Equal(t, entity.RoleSeller, entries[0].ActorRole)
}

func TestCreateDirectSale_LimiteDeCreditoYAbono(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	h.sale(t, entity.PaymentCredit, h.env.BeerID, 2)
	h.sale(t, entity.PaymentCredit, h.env.BeerID, 1)

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, dec(150).Equal(c.Balance))
	assert.Equal(t, 2, c.CreditsCount)

	before := h.env.Client(t, h.env.ClientID)
	auditBefore := len(h.env.AuditEntries(t))
	_, err := h.sales.CreateDirectSale(ctx, apptest.Seller, dto.CreateSaleRequest{
		ClientID:      h.env.ClientID,
		WarehouseID:   h.env.WarehouseID,
		PaymentMethod: entity.PaymentCredit,
		Items:         []dto.ItemRequest{{ProductID: h.env.WaterID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded))
	var limitErr *domain.CreditLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 2, limitErr.Limit)

	assert.Equal(t, before, h.env.Client(t, h.env.ClientID))
	assert.Len(t, h.env.AuditEntries(t), auditBefore)
	assert.Equal(t, 100, h.env.Stock(t, h.env.WaterID))

	pay, err := h.credit.RegisterPayment(ctx, apptest.Seller, h.env.ClientID, dto.RegisterPaymentRequest{Amount: dec(150)})
	require.NoError(t, err)
	assert.True(t, pay.NewBalance.IsZero())

	c = h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 2, c.CreditsCount)

	// Pagar no devuelve créditos.
	_, err = h.sales.CreateDirectSale(ctx, apptest.Seller, dto.CreateSaleRequest{
		ClientID:      h.env.ClientID,
		WarehouseID:   h.env.WarehouseID,
		PaymentMethod: entity.PaymentCredit,
		Items:         []dto.ItemRequest{{ProductID: h.env.WaterID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
}

func TestCreateDirectSale_Validaciones(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateSaleRequest
		want error
	}{
		{"método inválido", dto.CreateSaleRequest{ClientID: h.env.ClientID, WarehouseID: h.env.WarehouseID, PaymentMethod: "tarjeta",
			Items: []dto.ItemRequest{{ProductID: h.env.BeerID, Quantity: 1}}}, domain.ErrInvalidInput},
		{"sin renglones", dto.CreateSaleRequest{ClientID: h.env.ClientID, WarehouseID: h.env.WarehouseID, PaymentMethod: entity.PaymentCash},
			domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateSaleRequest{ClientID: h.env.ClientID, WarehouseID: h.env.WarehouseID, PaymentMethod: entity.PaymentCash,
			Items: []dto.ItemRequest{{ProductID: h.env.BeerID, Quantity: 0}}}, domain.ErrInvalidAmount},
		{"producto inexistente", dto.CreateSaleRequest{ClientID: h.env.ClientID, WarehouseID: h.env.WarehouseID, PaymentMethod: entity.PaymentCash,
			Items: []dto.ItemRequest{{ProductID: "no-existe", Quantity: 1}}}, domain.ErrNotFound},
		{"cliente inexistente", dto.CreateSaleRequest{ClientID: "no-existe", WarehouseID: h.env.WarehouseID, PaymentMethod: entity.PaymentCash,
			Items: []dto.ItemRequest{{ProductID: h.env.BeerID, Quantity: 1}}}, domain.ErrNotFound},
		{"stock insuficiente", dto.CreateSaleRequest{ClientID: h.env.ClientID, WarehouseID: h.env.WarehouseID, PaymentMethod: entity.PaymentCash,
			Items: []dto.ItemRequest{{ProductID: h.env.BeerID, Quantity: 101}}}, domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.sales.CreateDirectSale(ctx, apptest.Seller, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Empty(t, h.env.AuditEntries(t))
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))
	list, err := h.sales.ListSales(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateDirectSale_StockInsuficienteNoTocaSaldo(t *testing.T) {
	h := defaultHarness(t)

	_, err := h.sales.CreateDirectSale(context.Background(), apptest.Seller, dto.CreateSaleRequest{
		ClientID:      h.env.ClientID,
		WarehouseID:   h.env.WarehouseID,
		PaymentMethod: entity.PaymentCredit,
		Items: []dto.ItemRequest{
			{ProductID: h.env.WaterID, Quantity: 5},
			{ProductID: h.env.BeerID, Quantity: 500},
		},
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, h.env.BeerID, stockErr.ProductID)
	assert.Equal(t, 100, stockErr.Available)
	assert.Equal(t, 500, stockErr.Requested)

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 0, c.CreditsCount)
	assert.Equal(t, 100, h.env.Stock(t, h.env.WaterID))
}

func TestCreateDirectSale_FallaDeBitacoraAbortaComando(t *testing.T) {
	h := defaultHarness(t)
	h.env.Store.InjectFault("audit.create", errors.New("disco lleno"))

	_, err := h.sales.CreateDirectSale(context.Background(), apptest.Seller, dto.CreateSaleRequest{
		ClientID:      h.env.ClientID,
		WarehouseID:   h.env.WarehouseID,
		PaymentMethod: entity.PaymentCredit,
		Items:         []dto.ItemRequest{{ProductID: h.env.BeerID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	h.env.Store.InjectFault("audit.create", nil)
	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 0, c.CreditsCount)
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))
	list, err := h.sales.ListSales(context.Background(), repository.SaleFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateDirectSale_SinDescontarStock(t *testing.T) {
	h := newHarness(t, ledger.DefaultPolicy(), sales.Config{DecrementStockOnSale: false})

	resp := h.sale(t, entity.PaymentCredit, h.env.BeerID, 3)
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))

	cancelled, err := h.sales.CancelSale(context.Background(), apptest.Seller, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCancelled, cancelled.Status)
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))

	entries := h.env.AuditEntries(t)
	require.NotEmpty(t, entries)
	assert.Equal(t, entity.EventSaleCancelled, entries[0].EventType)
	assert.Equal(t, false, entries[0].Metadata["stock_restored"])
}

func TestCancelSale_RestauraSaldoYStock(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	resp := h.sale(t, entity.PaymentCredit, h.env.BeerID, 1)
	assert.Equal(t, 99, h.env.Stock(t, h.env.BeerID))

	cancelled, err := h.sales.CancelSale(ctx, apptest.Admin, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCancelled, cancelled.Status)

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 1, c.CreditsCount, "por omisión cancelar no devuelve el crédito")
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))

	movs, err := h.env.Store.Repos().Movements.List(ctx, repository.MovementFilter{ReferenceID: resp.ID})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	types := []string{movs[0].Type, movs[1].Type}
	assert.ElementsMatch(t, []string{entity.MovementSale, entity.MovementReturn}, types)

	_, err = h.sales.CancelSale(ctx, apptest.Admin, resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCancelSale_DevuelveCreditoConPolitica(t *testing.T) {
	policy := ledger.DefaultPolicy()
	policy.RestoreCreditOnCancel = true
	h := newHarness(t, policy, sales.DefaultConfig())

	first := h.sale(t, entity.PaymentCredit, h.env.BeerID, 1)
	h.sale(t, entity.PaymentCredit, h.env.WaterID, 1)

	_, err := h.sales.CancelSale(context.Background(), apptest.Admin, first.ID)
	require.NoError(t, err)

	c := h.env.Client(t, h.env.ClientID)
	assert.Equal(t, 1, c.CreditsCount)
	assert.True(t, dec(20).Equal(c.Balance))

	// El crédito liberado permite una nueva venta.
	h.sale(t, entity.PaymentCredit, h.env.WaterID, 1)
}

func TestCancelSale_SaldoConPisoEnCero(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	resp := h.sale(t, entity.PaymentCredit, h.env.BeerID, 2)
	_, err := h.credit.RegisterPayment(ctx, apptest.Seller, h.env.ClientID, dto.RegisterPaymentRequest{Amount: dec(80)})
	require.NoError(t, err)

	_, err = h.sales.CancelSale(ctx, apptest.Admin, resp.ID)
	require.NoError(t, err)

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())

	entries := h.env.AuditEntries(t)
	assert.Equal(t, "20.00", entries[0].Metadata["balance_reversed"])
	assert.Equal(t, "80.00", entries[0].Metadata["unrecovered"])
}

func TestCancelSale_Contado(t *testing.T) {
	h := defaultHarness(t)

	resp := h.sale(t, entity.PaymentCash, h.env.WaterID, 4)
	_, err := h.sales.CancelSale(context.Background(), apptest.Seller, resp.ID)
	require.NoError(t, err)

	c := h.env.Client(t, h.env.ClientID)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, 100, h.env.Stock(t, h.env.WaterID))
}

func TestDeleteSale_SoloMasterYSoloCancelada(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	resp := h.sale(t, entity.PaymentCash, h.env.BeerID, 1)

	assert.ErrorIs(t, h.sales.DeleteSale(ctx, apptest.Admin, resp.ID), domain.ErrForbidden)
	assert.ErrorIs(t, h.sales.DeleteSale(ctx, apptest.Master, resp.ID), domain.ErrInvalidStateTransition)
	assert.ErrorIs(t, h.sales.DeleteSale(ctx, apptest.Master, "no-existe"), domain.ErrNotFound)

	_, err := h.sales.CancelSale(ctx, apptest.Admin, resp.ID)
	require.NoError(t, err)
	require.NoError(t, h.sales.DeleteSale(ctx, apptest.Master, resp.ID))

	got, err := h.sales.GetSale(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleDeleted, got.Status)

	list, err := h.sales.ListSales(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = h.sales.ListSales(ctx, repository.SaleFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, h.sales.DeleteSale(ctx, apptest.Master, resp.ID), domain.ErrInvalidStateTransition)
	assert.Equal(t, 100, h.env.Stock(t, h.env.BeerID))
}

func TestCadaComandoRegistraUnaEntrada(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	want := []string{}
	check := func(event string) {
		t.Helper()
		want = append(want, event)
		entries := h.env.AuditEntries(t)
		require.Len(t, entries, len(want))
		assert.Equal(t, event, entries[0].EventType)
	}

	s := h.sale(t, entity.PaymentCredit, h.env.BeerID, 1)
	check(entity.EventNewSale)

	order, err := h.orders.CreateOrder(ctx, apptest.Seller, dto.CreateOrderRequest{
		ClientID: h.env.ClientID, WarehouseID: h.env.WarehouseID,
		Items: []dto.ItemRequest{{ProductID: h.env.WaterID, Quantity: 2}},
	})
	require.NoError(t, err)
	check(entity.EventNewOrder)

	_, err = h.orders.ConfirmDelivery(ctx, apptest.Seller, order.ID)
	require.NoError(t, err)
	check(entity.EventOrderDelivered)

	_, err = h.credit.RegisterPayment(ctx, apptest.Seller, h.env.ClientID, dto.RegisterPaymentRequest{Amount: dec(10)})
	require.NoError(t, err)
	check(entity.EventClientPayment)

	_, err = h.sales.CancelSale(ctx, apptest.Admin, s.ID)
	require.NoError(t, err)
	check(entity.EventSaleCancelled)

	require.NoError(t, h.sales.DeleteSale(ctx, apptest.Master, s.ID))
	check(entity.EventSaleDeleted)
}

// concurrently lanza n llamadas a fn en paralelo y devuelve los errores en orden de índice.
func concurrently(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func TestConcurrencia_CreditosPorClienteSerializados(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	errs := concurrently(20, func(int) error {
		_, err := h.sales.CreateDirectSale(ctx, apptest.Seller, dto.CreateSaleRequest{
			ClientID:      h.env.ClientID,
			WarehouseID:   h.env.WarehouseID,
			PaymentMethod: entity.PaymentCredit,
			Items:         []dto.ItemRequest{{ProductID: h.env.BeerID, Quantity: 1}},
		})
		return err
	})
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
	}
	assert.Equal(t, 2, ok)

	c := h.env.Client(t, h.env.ClientID)
	assert.Equal(t, 2, c.CreditsCount)
	assert.Equal(t, "100.00", c.Balance.StringFixed(2))
	assert.Equal(t, 98, h.env.Stock(t, h.env.BeerID))
	assert.Len(t, h.env.AuditEntries(t), 2)

	// Abonos simultáneos: el saldo nunca queda negativo.
	errs = concurrently(15, func(int) error {
		_, err := h.credit.RegisterPayment(ctx, apptest.Seller, h.env.ClientID, dto.RegisterPaymentRequest{Amount: dec(10)})
		return err
	})
	paid := 0
	for _, err := range errs {
		if err == nil {
			paid++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	assert.Equal(t, 10, paid)
	assert.True(t, h.env.Client(t, h.env.ClientID).Balance.IsZero())
}

func TestConcurrencia_StockNoSeSobrevende(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	errs := concurrently(30, func(int) error {
		_, err := h.sales.CreateDirectSale(ctx, apptest.Seller, dto.CreateSaleRequest{
			ClientID:      h.env.ClientID,
			WarehouseID:   h.env.WarehouseID,
			PaymentMethod: entity.PaymentCash,
			Items:         []dto.ItemRequest{{ProductID: h.env.WaterID, Quantity: 5}},
		})
		return err
	})
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 20, ok)
	assert.Equal(t, 0, h.env.Stock(t, h.env.WaterID))
}
