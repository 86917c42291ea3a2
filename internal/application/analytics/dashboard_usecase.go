// Package analytics contiene los reportes de solo lectura del tablero.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

const dashboardTop = 5 // clientes y productos en los widgets del tablero

// DashboardUseCase agrega ventas, costo, utilidad, cuentas por cobrar y rankings.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Solo cuentan ventas Completadas.
// Con datos vacíos devuelve ceros y listas vacías.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary totales del período (nil = sin límite) más cuentas por cobrar y pedidos pendientes.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, from, to *time.Time) (*dto.SummaryDTO, error) {
	type totalsResult struct {
		totals repository.SalesTotals
		err    error
	}
	type receivablesResult struct {
		rec repository.ReceivablesTotals
		err error
	}
	type pendingResult struct {
		n   int
		err error
	}

	totalsCh := make(chan totalsResult, 1)
	recCh := make(chan receivablesResult, 1)
	pendingCh := make(chan pendingResult, 1)

	go func() {
		t, err := uc.analyticsRepo.GetSalesTotals(ctx, from, to)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		r, err := uc.analyticsRepo.GetReceivables(ctx)
		recCh <- receivablesResult{r, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountPendingOrders(ctx)
		pendingCh <- pendingResult{n, err}
	}()

	totals := <-totalsCh
	rec := <-recCh
	pending := <-pendingCh

	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales de venta: %w", totals.err)
	}
	if rec.err != nil {
		return nil, fmt.Errorf("dashboard: cuentas por cobrar: %w", rec.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos pendientes: %w", pending.err)
	}

	return &dto.SummaryDTO{
		TotalSales:    totals.totals.TotalSales.Round(2),
		TotalCost:     totals.totals.TotalCost.Round(2),
		Utility:       totals.totals.TotalSales.Sub(totals.totals.TotalCost).Round(2),
		SalesCount:    totals.totals.SalesCount,
		Receivables:   rec.rec.Total.Round(2),
		DebtorCount:   rec.rec.DebtorCount,
		PendingOrders: pending.n,
	}, nil
}

// GetDashboard resumen y rankings; las consultas corren en paralelo.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, from, to *time.Time) (*dto.DashboardDTO, error) {
	type summaryResult struct {
		s   *dto.SummaryDTO
		err error
	}
	type zonesResult struct {
		z   []repository.ZoneSales
		err error
	}
	type dailyResult struct {
		d   []repository.DailySales
		err error
	}
	type clientsResult struct {
		c   []repository.ClientRanking
		err error
	}
	type productsResult struct {
		p   []repository.ProductRanking
		err error
	}

	summaryCh := make(chan summaryResult, 1)
	zonesCh := make(chan zonesResult, 1)
	dailyCh := make(chan dailyResult, 1)
	clientsCh := make(chan clientsResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		s, err := uc.GetSummary(ctx, from, to)
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		z, err := uc.analyticsRepo.GetSalesByZone(ctx, from, to)
		zonesCh <- zonesResult{z, err}
	}()
	go func() {
		d, err := uc.analyticsRepo.GetDailySales(ctx, from, to)
		dailyCh <- dailyResult{d, err}
	}()
	go func() {
		c, err := uc.analyticsRepo.GetTopClients(ctx, from, to, dashboardTop)
		clientsCh <- clientsResult{c, err}
	}()
	go func() {
		p, err := uc.analyticsRepo.GetTopProducts(ctx, from, to, dashboardTop)
		productsCh <- productsResult{p, err}
	}()

	summary := <-summaryCh
	zones := <-zonesCh
	daily := <-dailyCh
	clients := <-clientsCh
	products := <-productsCh

	if summary.err != nil {
		return nil, summary.err
	}
	if zones.err != nil {
		return nil, fmt.Errorf("dashboard: ventas por zona: %w", zones.err)
	}
	if daily.err != nil {
		return nil, fmt.Errorf("dashboard: ventas diarias: %w", daily.err)
	}
	if clients.err != nil {
		return nil, fmt.Errorf("dashboard: top clientes: %w", clients.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", products.err)
	}

	out := &dto.DashboardDTO{
		Summary:     *summary.s,
		SalesByZone: make([]dto.ZoneSalesDTO, 0, len(zones.z)),
		DailySales:  make([]dto.DailySalesDTO, 0, len(daily.d)),
		TopClients:  make([]dto.TopClientDTO, 0, len(clients.c)),
		TopProducts: make([]dto.TopProductDTO, 0, len(products.p)),
	}
	for _, z := range zones.z {
		out.SalesByZone = append(out.SalesByZone, dto.ZoneSalesDTO{Zone: z.Zone, Total: z.Total.Round(2), Count: z.Count})
	}
	for _, d := range daily.d {
		out.DailySales = append(out.DailySales, dto.DailySalesDTO{Day: d.Day, Total: d.Total.Round(2), Count: d.Count})
	}
	for _, c := range clients.c {
		out.TopClients = append(out.TopClients, dto.TopClientDTO{ClientID: c.ClientID, Name: c.Name, Zone: c.Zone, Total: c.Total.Round(2)})
	}
	for _, p := range products.p {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{ProductID: p.ProductID, Name: p.Name, Units: p.Units, Total: p.Total.Round(2)})
	}
	return out, nil
}
