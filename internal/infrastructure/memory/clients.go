package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes en memoria.
type ClientRepo struct {
	a access
	s *Store
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	if err := r.s.fault("clients.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if !st.clients.insert(c.ID, *c) {
			return constraint("cliente %s duplicado", c.ID)
		}
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	if err := r.s.fault("clients.get"); err != nil {
		return nil, err
	}
	var out *entity.Client
	err := r.a.view(func(st *state) error {
		if c, ok := st.clients.get(id); ok {
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el lock de escritura del Store ya serializa la tx.
func (r *ClientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Client, error) {
	return r.GetByID(ctx, id)
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	if err := r.s.fault("clients.update"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if !st.clients.put(c.ID, *c) {
			return constraint("cliente %s inexistente", c.ID)
		}
		return nil
	})
}

func (r *ClientRepo) List(_ context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	var out []*entity.Client
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.a.view(func(st *state) error {
		for _, c := range st.clients.rows {
			if f.WithDebtOnly && !c.HasDebt() {
				continue
			}
			if search != "" && !containsAny(search, c.Name, c.Zone, c.ContactName) {
				continue
			}
			c := c
			out = append(out, &c)
		}
		return nil
	})
	if f.WithDebtOnly {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Balance.GreaterThan(out[j].Balance) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return page(out, f.Limit, f.Offset), err
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
