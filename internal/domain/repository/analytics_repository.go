package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals agregados de ventas Completadas en un período.
type SalesTotals struct {
	TotalSales decimal.Decimal
	TotalCost  decimal.Decimal // Σ cantidad × costo snapshot
	SalesCount int
}

// ReceivablesTotals agregados de cuentas por cobrar.
type ReceivablesTotals struct {
	Total       decimal.Decimal
	DebtorCount int
}

// ZoneSales ventas agrupadas por zona del cliente ("Sin Zona" si está vacía).
type ZoneSales struct {
	Zone  string
	Total decimal.Decimal
	Count int
}

// DailySales ventas agrupadas por día (YYYY-MM-DD).
type DailySales struct {
	Day   string
	Total decimal.Decimal
	Count int
}

// ClientRanking total comprado por cliente.
type ClientRanking struct {
	ClientID string
	Name     string
	Zone     string
	Total    decimal.Decimal
}

// ProductRanking unidades e importe vendidos por producto.
type ProductRanking struct {
	ProductID string
	Name      string
	Units     int
	Total     decimal.Decimal
}

// AnalyticsRepository consultas read-only de reportes. Solo cuentan ventas Completadas.
// Períodos nil = sin límite.
type AnalyticsRepository interface {
	GetSalesTotals(ctx context.Context, from, to *time.Time) (SalesTotals, error)
	GetReceivables(ctx context.Context) (ReceivablesTotals, error)
	CountPendingOrders(ctx context.Context) (int, error)
	GetSalesByZone(ctx context.Context, from, to *time.Time) ([]ZoneSales, error)
	GetDailySales(ctx context.Context, from, to *time.Time) ([]DailySales, error)
	GetTopClients(ctx context.Context, from, to *time.Time, limit int) ([]ClientRanking, error)
	GetTopProducts(ctx context.Context, from, to *time.Time, limit int) ([]ProductRanking, error)
}
