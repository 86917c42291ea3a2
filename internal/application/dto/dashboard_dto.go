package dto

import "github.com/shopspring/decimal"

// SummaryDTO indicadores principales del tablero.
type SummaryDTO struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Utility       decimal.Decimal `json:"utility"`
	SalesCount    int             `json:"sales_count"`
	Receivables   decimal.Decimal `json:"receivables"`
	DebtorCount   int             `json:"debtor_count"`
	PendingOrders int             `json:"pending_orders"`
}

// ZoneSalesDTO ventas por zona.
type ZoneSalesDTO struct {
	Zone  string          `json:"zone"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// DailySalesDTO ventas por día.
type DailySalesDTO struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// TopClientDTO cliente con mayor compra.
type TopClientDTO struct {
	ClientID string          `json:"client_id"`
	Name     string          `json:"name"`
	Zone     string          `json:"zone"`
	Total    decimal.Decimal `json:"total"`
}

// TopProductDTO producto más vendido.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Total     decimal.Decimal `json:"total"`
}

// DashboardDTO tablero completo.
type DashboardDTO struct {
	Summary     SummaryDTO      `json:"summary"`
	SalesByZone []ZoneSalesDTO  `json:"sales_by_zone"`
	DailySales  []DailySalesDTO `json:"daily_sales"`
	TopClients  []TopClientDTO  `json:"top_clients"`
	TopProducts []TopProductDTO `json:"top_products"`
}
