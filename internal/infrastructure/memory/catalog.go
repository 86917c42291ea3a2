package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.StockRepository     = (*StockRepo)(nil)
)

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	a access
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if err := r.s.fault("products.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if !st.products.insert(p.ID, *p) {
			return constraint("producto %s duplicado", p.ID)
		}
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.view(func(st *state) error {
		if p, ok := st.products.get(id); ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el lock de escritura del Store ya serializa la tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if err := r.s.fault("products.lock"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if err := r.s.fault("products.update"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if !st.products.put(p.ID, *p) {
			return constraint("producto %s inexistente", p.ID)
		}
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	if err := r.s.fault("products.delete"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		st.products.remove(id)
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, search, category string) ([]*entity.Product, error) {
	var out []*entity.Product
	search = strings.ToLower(strings.TrimSpace(search))
	err := r.a.view(func(st *state) error {
		for _, p := range st.products.rows {
			if category != "" && !strings.EqualFold(p.Category, category) {
				continue
			}
			if search != "" && !containsAny(search, p.Name, p.Description, p.Presentation) {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *ProductRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	found := false
	err := r.a.view(func(st *state) error {
		for _, m := range st.movements.rows {
			if m.ProductID == id {
				found = true
				return nil
			}
		}
		for _, o := range st.orders.rows {
			for _, it := range o.Items {
				if it.ProductID == id {
					found = true
					return nil
				}
			}
		}
		for _, s := range st.sales.rows {
			for _, it := range s.Items {
				if it.ProductID == id {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

// WarehouseRepo almacenes en memoria. El nombre es único.
type WarehouseRepo struct {
	a access
	s *Store
}

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	if err := r.s.fault("warehouses.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		for _, existing := range st.warehouses.rows {
			if strings.EqualFold(existing.Name, w.Name) {
				return constraint("almacén %q duplicado", w.Name)
			}
		}
		if !st.warehouses.insert(w.ID, *w) {
			return constraint("almacén %s duplicado", w.ID)
		}
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a.view(func(st *state) error {
		if w, ok := st.warehouses.get(id); ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.a.view(func(st *state) error {
		for _, w := range st.warehouses.rows {
			w := w
			out = append(out, &w)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// StockRepo existencias en memoria, llave producto|almacén.
type StockRepo struct {
	a access
	s *Store
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (r *StockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.a.view(func(st *state) error {
		if s, ok := st.stock.get(stockKey(productID, warehouseID)); ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	if err := r.s.fault("stock.lock"); err != nil {
		return nil, err
	}
	return r.Get(ctx, productID, warehouseID)
}

func (r *StockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	if err := r.s.fault("stock.upsert"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if _, ok := st.products.get(s.ProductID); !ok {
			return constraint("producto %s inexistente", s.ProductID)
		}
		if _, ok := st.warehouses.get(s.WarehouseID); !ok {
			return constraint("almacén %s inexistente", s.WarehouseID)
		}
		if s.Quantity < 0 {
			return constraint("existencia negativa")
		}
		k := stockKey(s.ProductID, s.WarehouseID)
		if !st.stock.put(k, *s) {
			st.stock.insert(k, *s)
		}
		return nil
	})
}

func (r *StockRepo) DeleteByProduct(_ context.Context, productID string) error {
	return r.a.update(func(st *state) error {
		var keys []string
		for _, s := range st.stock.rows {
			if s.ProductID == productID {
				keys = append(keys, stockKey(s.ProductID, s.WarehouseID))
			}
		}
		for _, k := range keys {
			st.stock.remove(k)
		}
		return nil
	})
}

func (r *StockRepo) ListLevels(_ context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	err := r.a.view(func(st *state) error {
		for _, s := range st.stock.rows {
			if warehouseID != "" && s.WarehouseID != warehouseID {
				continue
			}
			p, _ := st.products.get(s.ProductID)
			w, _ := st.warehouses.get(s.WarehouseID)
			out = append(out, &entity.StockLevel{
				Stock:         s,
				ProductName:   p.Name,
				Category:      p.Category,
				Presentation:  p.Presentation,
				WarehouseName: w.Name,
			})
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WarehouseName != out[j].WarehouseName {
			return out[i].WarehouseName < out[j].WarehouseName
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, err
}
