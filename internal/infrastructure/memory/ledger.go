package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.OrderRepository         = (*OrderRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.PaymentRepository       = (*PaymentRepo)(nil)
)

// MovementRepo movimientos de inventario en memoria (append-only).
type MovementRepo struct {
	a access
	s *Store
}

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if err := r.s.fault("movements.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if !st.movements.insert(m.ID, *m) {
			return constraint("movimiento %s duplicado", m.ID)
		}
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.view(func(st *state) error {
		for i := len(st.movements.rows) - 1; i >= 0; i-- {
			m := st.movements.rows[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
				continue
			}
			if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
				continue
			}
			if !inRange(m.CreatedAt, f.From, f.To) {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	return page(out, f.Limit, f.Offset), err
}

// OrderRepo pedidos en memoria. Folio único.
type OrderRepo struct {
	a access
	s *Store
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	if err := r.s.fault("orders.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		for _, existing := range st.orders.rows {
			if existing.Folio == o.Folio {
				return constraint("folio %s duplicado", o.Folio)
			}
		}
		if _, ok := st.clients.get(o.ClientID); !ok {
			return constraint("cliente %s inexistente", o.ClientID)
		}
		if !st.orders.insert(o.ID, cloneOrder(*o)) {
			return constraint("pedido %s duplicado", o.ID)
		}
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.a.view(func(st *state) error {
		if o, ok := st.orders.get(id); ok {
			o = cloneOrder(o)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	if err := r.s.fault("orders.lock"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(_ context.Context, o *entity.Order) error {
	if err := r.s.fault("orders.update"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		cur, ok := st.orders.get(o.ID)
		if !ok {
			return constraint("pedido %s inexistente", o.ID)
		}
		cur.Status = o.Status
		cur.SaleID = o.SaleID
		cur.UpdatedAt = o.UpdatedAt
		st.orders.put(o.ID, cur)
		return nil
	})
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.a.view(func(st *state) error {
		for i := len(st.orders.rows) - 1; i >= 0; i-- {
			o := st.orders.rows[i]
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.ClientID != "" && o.ClientID != f.ClientID {
				continue
			}
			o = cloneOrder(o)
			out = append(out, &o)
		}
		return nil
	})
	sortByCreatedDesc(out, func(o *entity.Order) time.Time { return o.CreatedAt })
	return page(out, f.Limit, f.Offset), err
}

func (r *OrderRepo) NextFolio(_ context.Context) (string, error) {
	var folio string
	err := r.a.update(func(st *state) error {
		st.folioSeq++
		folio = fmt.Sprintf("ORD-%04d", st.folioSeq)
		return nil
	})
	return folio, err
}

// SaleRepo ventas en memoria.
type SaleRepo struct {
	a access
	s *Store
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	if err := r.s.fault("sales.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if _, ok := st.clients.get(s.ClientID); !ok {
			return constraint("cliente %s inexistente", s.ClientID)
		}
		if !st.sales.insert(s.ID, cloneSale(*s)) {
			return constraint("venta %s duplicada", s.ID)
		}
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.view(func(st *state) error {
		if s, ok := st.sales.get(id); ok {
			s = cloneSale(s)
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	if err := r.s.fault("sales.lock"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) UpdateStatus(_ context.Context, s *entity.Sale) error {
	if err := r.s.fault("sales.update"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		cur, ok := st.sales.get(s.ID)
		if !ok {
			return constraint("venta %s inexistente", s.ID)
		}
		cur.Status = s.Status
		cur.UpdatedAt = s.UpdatedAt
		st.sales.put(s.ID, cur)
		return nil
	})
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.a.view(func(st *state) error {
		for i := len(st.sales.rows) - 1; i >= 0; i-- {
			s := st.sales.rows[i]
			if !f.IncludeDeleted && s.Status == entity.SaleDeleted {
				continue
			}
			if f.ClientID != "" && s.ClientID != f.ClientID {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
				continue
			}
			if !inRange(s.CreatedAt, f.From, f.To) {
				continue
			}
			s = cloneSale(s)
			out = append(out, &s)
		}
		return nil
	})
	sortByCreatedDesc(out, func(s *entity.Sale) time.Time { return s.CreatedAt })
	return page(out, f.Limit, f.Offset), err
}

// PaymentRepo abonos en memoria (append-only).
type PaymentRepo struct {
	a access
	s *Store
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	if err := r.s.fault("payments.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if _, ok := st.clients.get(p.ClientID); !ok {
			return constraint("cliente %s inexistente", p.ClientID)
		}
		if !st.payments.insert(p.ID, *p) {
			return constraint("abono %s duplicado", p.ID)
		}
		return nil
	})
}

func (r *PaymentRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.a.view(func(st *state) error {
		for i := len(st.payments.rows) - 1; i >= 0; i-- {
			p := st.payments.rows[i]
			if p.ClientID == clientID {
				out = append(out, &p)
			}
		}
		return nil
	})
	sortByCreatedDesc(out, func(p *entity.Payment) time.Time { return p.CreatedAt })
	return out, err
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// sortByCreatedDesc ordena por fecha descendente conservando el orden previo en empates.
func sortByCreatedDesc[T any](rows []T, at func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool { return at(rows[i]).After(at(rows[j])) })
}
