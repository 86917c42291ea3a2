package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmvdigital/pos-feria-2026/internal/application/analytics"
	"github.com/bmvdigital/pos-feria-2026/internal/application/apptest"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/application/sales"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/ledger"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
	"github.com/bmvdigital/pos-feria-2026/pkg/logger"
)

func TestGetDashboard_SinVentas(t *testing.T) {
	env := apptest.NewEnv(t)
	uc := analytics.NewDashboardUseCase(env.Store.Analytics())

	d, err := uc.GetDashboard(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, d.Summary.TotalSales.IsZero())
	assert.True(t, d.Summary.Utility.IsZero())
	assert.Equal(t, 0, d.Summary.SalesCount)
	assert.Equal(t, 0, d.Summary.PendingOrders)
	assert.NotNil(t, d.SalesByZone)
	assert.Empty(t, d.TopProducts)
}

func TestGetDashboard_TotalesYRankings(t *testing.T) {
	env := apptest.NewEnv(t)
	ctx := context.Background()
	reads := env.Store.Repos()
	saleUC := sales.NewSaleUseCase(env.Store, reads, ledger.DefaultPolicy(), sales.DefaultConfig(), logger.Nop())
	orderUC := sales.NewOrderUseCase(env.Store, reads, ledger.DefaultPolicy(), sales.DefaultConfig(), logger.Nop())
	noZone := env.AddClient(t, "Puesto sin zona", "")

	_, err := saleUC.CreateDirectSale(ctx, apptest.Seller, dto.CreateSaleRequest{
		ClientID: env.ClientID, WarehouseID: env.WarehouseID, PaymentMethod: entity.PaymentCredit,
		Items: []dto.ItemRequest{{ProductID: env.BeerID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = saleUC.CreateDirectSale(ctx, apptest.Seller, dto.CreateSaleRequest{
		ClientID: noZone, WarehouseID: env.WarehouseID, PaymentMethod: entity.PaymentCash,
		Items: []dto.ItemRequest{{ProductID: env.WaterID, Quantity: 3}},
	})
	require.NoError(t, err)
	cancelled, err := saleUC.CreateDirectSale(ctx, apptest.Seller, dto.CreateSaleRequest{
		ClientID: noZone, WarehouseID: env.WarehouseID, PaymentMethod: entity.PaymentCash,
		Items: []dto.ItemRequest{{ProductID: env.BeerID, Quantity: 10}},
	})
	require.NoError(t, err)
	_, err = saleUC.CancelSale(ctx, apptest.Admin, cancelled.ID)
	require.NoError(t, err)
	_, err = orderUC.CreateOrder(ctx, apptest.Seller, dto.CreateOrderRequest{
		ClientID: env.ClientID, WarehouseID: env.WarehouseID,
		Items: []dto.ItemRequest{{ProductID: env.WaterID, Quantity: 1}},
	})
	require.NoError(t, err)

	uc := analytics.NewDashboardUseCase(env.Store.Analytics())
	d, err := uc.GetDashboard(ctx, nil, nil)
	require.NoError(t, err)

	// 2x50 + 3x20; costo 2x30 + 3x8. La venta cancelada no cuenta.
	assert.True(t, decimal.NewFromInt(160).Equal(d.Summary.TotalSales))
	assert.True(t, decimal.NewFromInt(84).Equal(d.Summary.TotalCost))
	assert.True(t, decimal.NewFromInt(76).Equal(d.Summary.Utility))
	assert.Equal(t, 2, d.Summary.SalesCount)
	assert.True(t, decimal.NewFromInt(100).Equal(d.Summary.Receivables))
	assert.Equal(t, 1, d.Summary.DebtorCount)
	assert.Equal(t, 1, d.Summary.PendingOrders)

	zones := map[string]decimal.Decimal{}
	for _, z := range d.SalesByZone {
		zones[z.Zone] = z.Total
	}
	assert.True(t, decimal.NewFromInt(100).Equal(zones["Zona VIP"]))
	assert.True(t, decimal.NewFromInt(60).Equal(zones["Sin Zona"]))

	require.NotEmpty(t, d.TopClients)
	assert.Equal(t, env.ClientID, d.TopClients[0].ClientID)
	require.Len(t, d.TopProducts, 2)
	assert.Equal(t, env.WaterID, d.TopProducts[0].ProductID)
	assert.Equal(t, 3, d.TopProducts[0].Units)
	assert.True(t, decimal.NewFromInt(100).Equal(d.TopProducts[1].Total))
	require.Len(t, d.DailySales, 1)
	assert.Equal(t, 2, d.DailySales[0].Count)

	future := time.Now().Add(24 * time.Hour)
	s, err := uc.GetSummary(ctx, &future, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.SalesCount)
	assert.True(t, decimal.NewFromInt(100).Equal(s.Receivables))
}

type failingAnalytics struct {
	repository.AnalyticsRepository
}

func (failingAnalytics) GetSalesTotals(context.Context, *time.Time, *time.Time) (repository.SalesTotals, error) {
	return repository.SalesTotals{}, errors.New("consulta cancelada")
}

func (failingAnalytics) GetReceivables(context.Context) (repository.ReceivablesTotals, error) {
	return repository.ReceivablesTotals{}, nil
}

func (failingAnalytics) CountPendingOrders(context.Context) (int, error) { return 0, nil }

func TestGetSummary_PropagaError(t *testing.T) {
	uc := analytics.NewDashboardUseCase(failingAnalytics{})

	_, err := uc.GetSummary(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "totales de venta")
}
