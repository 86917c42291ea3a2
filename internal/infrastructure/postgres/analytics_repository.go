package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero. Solo cuentan ventas Completadas;
// from/to nil = sin límite.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// periodFilter condición común de período para la tabla sales con alias s.
const periodFilter = `
	s.status = 'Completada'
	AND ($1::timestamptz IS NULL OR s.created_at >= $1)
	AND ($2::timestamptz IS NULL OR s.created_at <= $2)`

// GetSalesTotals ventas, costo snapshot (cantidad × costo unitario) y número de ventas.
func (r *AnalyticsRepo) GetSalesTotals(ctx context.Context, from, to *time.Time) (repository.SalesTotals, error) {
	query := `
	SELECT
	    COALESCE(SUM(s.total_amount), 0)                                         AS total_sales,
	    COALESCE(SUM((SELECT SUM(i.quantity * i.unit_cost)
	                   FROM sale_items i WHERE i.sale_id = s.id)), 0)            AS total_cost,
	    COUNT(*)                                                                 AS sales_count
	FROM sales s
	WHERE` + periodFilter

	out := repository.SalesTotals{}
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&out.TotalSales, &out.TotalCost, &out.SalesCount)
	if err != nil {
		return repository.SalesTotals{}, mapError("sales totals", err)
	}
	return out, nil
}

// GetReceivables suma de saldos pendientes y número de deudores.
func (r *AnalyticsRepo) GetReceivables(ctx context.Context) (repository.ReceivablesTotals, error) {
	out := repository.ReceivablesTotals{}
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance), 0), COUNT(*) FROM clients WHERE balance > 0`).
		Scan(&out.Total, &out.DebtorCount)
	if err != nil {
		return repository.ReceivablesTotals{}, mapError("receivables", err)
	}
	return out, nil
}

// CountPendingOrders pedidos en estado Pendiente.
func (r *AnalyticsRepo) CountPendingOrders(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = 'Pendiente'`).Scan(&n); err != nil {
		return 0, mapError("pending orders", err)
	}
	return n, nil
}

// GetSalesByZone ventas agrupadas por zona del cliente; sin zona = "Sin Zona".
func (r *AnalyticsRepo) GetSalesByZone(ctx context.Context, from, to *time.Time) ([]repository.ZoneSales, error) {
	query := `
	SELECT COALESCE(NULLIF(c.zone, ''), 'Sin Zona') AS zone,
	       SUM(s.total_amount)                       AS total,
	       COUNT(*)                                  AS sales_count
	FROM sales s
	JOIN clients c ON c.id = s.client_id
	WHERE` + periodFilter + `
	GROUP BY 1
	ORDER BY total DESC, zone`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, mapError("sales by zone", err)
	}
	defer rows.Close()
	out := make([]repository.ZoneSales, 0)
	for rows.Next() {
		var z repository.ZoneSales
		if err := rows.Scan(&z.Zone, &z.Total, &z.Count); err != nil {
			return nil, fmt.Errorf("scan zone sales: %w", err)
		}
		out = append(out, z)
	}
	return out, mapError("sales by zone", rows.Err())
}

// GetDailySales ventas por día (YYYY-MM-DD, UTC) en orden cronológico.
func (r *AnalyticsRepo) GetDailySales(ctx context.Context, from, to *time.Time) ([]repository.DailySales, error) {
	query := `
	SELECT to_char(s.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
	       SUM(s.total_amount)                                    AS total,
	       COUNT(*)                                               AS sales_count
	FROM sales s
	WHERE` + periodFilter + `
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, mapError("daily sales", err)
	}
	defer rows.Close()
	out := make([]repository.DailySales, 0)
	for rows.Next() {
		var d repository.DailySales
		if err := rows.Scan(&d.Day, &d.Total, &d.Count); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		out = append(out, d)
	}
	return out, mapError("daily sales", rows.Err())
}

// GetTopClients clientes con mayor venta en el período.
func (r *AnalyticsRepo) GetTopClients(ctx context.Context, from, to *time.Time, limit int) ([]repository.ClientRanking, error) {
	query := `
	SELECT c.id, c.name, c.zone, SUM(s.total_amount) AS total
	FROM sales s
	JOIN clients c ON c.id = s.client_id
	WHERE` + periodFilter + `
	GROUP BY c.id, c.name, c.zone
	ORDER BY total DESC, c.name
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, mapError("top clients", err)
	}
	defer rows.Close()
	out := make([]repository.ClientRanking, 0)
	for rows.Next() {
		var c repository.ClientRanking
		if err := rows.Scan(&c.ClientID, &c.Name, &c.Zone, &c.Total); err != nil {
			return nil, fmt.Errorf("scan top client: %w", err)
		}
		out = append(out, c)
	}
	return out, mapError("top clients", rows.Err())
}

// GetTopProducts productos más vendidos por unidades.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to *time.Time, limit int) ([]repository.ProductRanking, error) {
	query := `
	SELECT p.id, p.name, SUM(i.quantity) AS units, SUM(i.quantity * i.unit_price) AS total
	FROM sales s
	JOIN sale_items i ON i.sale_id = s.id
	JOIN products   p ON p.id      = i.product_id
	WHERE` + periodFilter + `
	GROUP BY p.id, p.name
	ORDER BY units DESC, p.name
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, mapError("top products", err)
	}
	defer rows.Close()
	out := make([]repository.ProductRanking, 0)
	for rows.Next() {
		var p repository.ProductRanking
		var units int64
		var total decimal.Decimal
		if err := rows.Scan(&p.ProductID, &p.Name, &units, &total); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		p.Units = int(units)
		p.Total = total
		out = append(out, p)
	}
	return out, mapError("top products", rows.Err())
}
