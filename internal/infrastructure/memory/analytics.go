package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// noZone etiqueta de clientes sin zona.
const noZone = "Sin Zona"

// AnalyticsRepo reportes calculados sobre el estado publicado.
type AnalyticsRepo struct {
	a access
	s *Store
}

// completedSales recorre las ventas Completadas del período.
func completedSales(st *state, from, to *time.Time, fn func(s entity.Sale)) {
	for _, s := range st.sales.rows {
		if s.Status != entity.SaleCompleted || !inRange(s.CreatedAt, from, to) {
			continue
		}
		fn(s)
	}
}

func (r *AnalyticsRepo) GetSalesTotals(_ context.Context, from, to *time.Time) (repository.SalesTotals, error) {
	out := repository.SalesTotals{TotalSales: decimal.Zero, TotalCost: decimal.Zero}
	err := r.a.view(func(st *state) error {
		completedSales(st, from, to, func(s entity.Sale) {
			out.TotalSales = out.TotalSales.Add(s.TotalAmount)
			out.TotalCost = out.TotalCost.Add(s.Cost())
			out.SalesCount++
		})
		return nil
	})
	return out, err
}

func (r *AnalyticsRepo) GetReceivables(_ context.Context) (repository.ReceivablesTotals, error) {
	out := repository.ReceivablesTotals{Total: decimal.Zero}
	err := r.a.view(func(st *state) error {
		for _, c := range st.clients.rows {
			if c.HasDebt() {
				out.Total = out.Total.Add(c.Balance)
				out.DebtorCount++
			}
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepo) CountPendingOrders(_ context.Context) (int, error) {
	n := 0
	err := r.a.view(func(st *state) error {
		for _, o := range st.orders.rows {
			if o.Status == entity.OrderPending {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AnalyticsRepo) GetSalesByZone(_ context.Context, from, to *time.Time) ([]repository.ZoneSales, error) {
	byZone := map[string]*repository.ZoneSales{}
	err := r.a.view(func(st *state) error {
		completedSales(st, from, to, func(s entity.Sale) {
			zone := noZone
			if c, ok := st.clients.get(s.ClientID); ok && c.Zone != "" {
				zone = c.Zone
			}
			z, ok := byZone[zone]
			if !ok {
				z = &repository.ZoneSales{Zone: zone, Total: decimal.Zero}
				byZone[zone] = z
			}
			z.Total = z.Total.Add(s.TotalAmount)
			z.Count++
		})
		return nil
	})
	out := make([]repository.ZoneSales, 0, len(byZone))
	for _, z := range byZone {
		out = append(out, *z)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Zone < out[j].Zone
	})
	return out, err
}

func (r *AnalyticsRepo) GetDailySales(_ context.Context, from, to *time.Time) ([]repository.DailySales, error) {
	byDay := map[string]*repository.DailySales{}
	err := r.a.view(func(st *state) error {
		completedSales(st, from, to, func(s entity.Sale) {
			day := s.CreatedAt.Format("2006-01-02")
			d, ok := byDay[day]
			if !ok {
				d = &repository.DailySales{Day: day, Total: decimal.Zero}
				byDay[day] = d
			}
			d.Total = d.Total.Add(s.TotalAmount)
			d.Count++
		})
		return nil
	})
	out := make([]repository.DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, err
}

func (r *AnalyticsRepo) GetTopClients(_ context.Context, from, to *time.Time, limit int) ([]repository.ClientRanking, error) {
	byClient := map[string]*repository.ClientRanking{}
	err := r.a.view(func(st *state) error {
		completedSales(st, from, to, func(s entity.Sale) {
			rk, ok := byClient[s.ClientID]
			if !ok {
				c, _ := st.clients.get(s.ClientID)
				rk = &repository.ClientRanking{ClientID: s.ClientID, Name: c.Name, Zone: c.Zone, Total: decimal.Zero}
				byClient[s.ClientID] = rk
			}
			rk.Total = rk.Total.Add(s.TotalAmount)
		})
		return nil
	})
	out := make([]repository.ClientRanking, 0, len(byClient))
	for _, rk := range byClient {
		out = append(out, *rk)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, 0), err
}

func (r *AnalyticsRepo) GetTopProducts(_ context.Context, from, to *time.Time, limit int) ([]repository.ProductRanking, error) {
	byProduct := map[string]*repository.ProductRanking{}
	err := r.a.view(func(st *state) error {
		completedSales(st, from, to, func(s entity.Sale) {
			for _, it := range s.Items {
				rk, ok := byProduct[it.ProductID]
				if !ok {
					p, _ := st.products.get(it.ProductID)
					rk = &repository.ProductRanking{ProductID: it.ProductID, Name: p.Name, Total: decimal.Zero}
					byProduct[it.ProductID] = rk
				}
				rk.Units += it.Quantity
				rk.Total = rk.Total.Add(it.Subtotal())
			}
		})
		return nil
	})
	out := make([]repository.ProductRanking, 0, len(byProduct))
	for _, rk := range byProduct {
		out = append(out, *rk)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, 0), err
}
