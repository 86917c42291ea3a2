package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var (
	_ repository.AuditRepository       = (*AuditRepo)(nil)
	_ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)
)

// AuditRepo bitácora en memoria.
type AuditRepo struct {
	a access
	s *Store
}

func (r *AuditRepo) Create(_ context.Context, e *entity.AuditEntry) error {
	if err := r.s.fault("audit.create"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if !st.audit.insert(e.ID, cloneAudit(*e)) {
			return constraint("entrada de bitácora %s duplicada", e.ID)
		}
		return nil
	})
}

func (r *AuditRepo) GetByID(_ context.Context, id string) (*entity.AuditEntry, error) {
	var out *entity.AuditEntry
	err := r.a.view(func(st *state) error {
		if e, ok := st.audit.get(id); ok {
			e = cloneAudit(e)
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *AuditRepo) Delete(_ context.Context, id string) error {
	if err := r.s.fault("audit.delete"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		st.audit.remove(id)
		return nil
	})
}

func matchAudit(e entity.AuditEntry, f repository.AuditFilter, search string) bool {
	if f.EventType != "" && e.EventType != f.EventType {
		return false
	}
	if search != "" && !containsAny(search, e.Description, e.ActorName) {
		return false
	}
	return inRange(e.CreatedAt, f.From, f.To)
}

func (r *AuditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	var out []*entity.AuditEntry
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.a.view(func(st *state) error {
		for i := len(st.audit.rows) - 1; i >= 0; i-- {
			e := st.audit.rows[i]
			if !matchAudit(e, f, search) {
				continue
			}
			e = cloneAudit(e)
			out = append(out, &e)
		}
		return nil
	})
	sortByCreatedDesc(out, func(e *entity.AuditEntry) time.Time { return e.CreatedAt })
	return page(out, f.Limit, f.Offset), err
}

func (r *AuditRepo) Count(_ context.Context, f repository.AuditFilter) (int, error) {
	n := 0
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.a.view(func(st *state) error {
		for _, e := range st.audit.rows {
			if matchAudit(e, f, search) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AuditRepo) EventTypes(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	err := r.a.view(func(st *state) error {
		for _, e := range st.audit.rows {
			if !seen[e.EventType] {
				seen[e.EventType] = true
				out = append(out, e.EventType)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *AuditRepo) CreateDeletion(_ context.Context, d *entity.AuditDeletion) error {
	if err := r.s.fault("audit.deletion"); err != nil {
		return err
	}
	return r.a.update(func(st *state) error {
		if !st.deletions.insert(d.ID, *d) {
			return constraint("eliminación %s duplicada", d.ID)
		}
		return nil
	})
}

func (r *AuditRepo) ListDeletions(_ context.Context) ([]*entity.AuditDeletion, error) {
	var out []*entity.AuditDeletion
	err := r.a.view(func(st *state) error {
		for i := len(st.deletions.rows) - 1; i >= 0; i-- {
			d := st.deletions.rows[i]
			out = append(out, &d)
		}
		return nil
	})
	return out, err
}

// IdempotencyRepo claves de idempotencia en memoria.
type IdempotencyRepo struct {
	a access
	s *Store
}

func (r *IdempotencyRepo) Get(_ context.Context, key string) (*entity.IdempotencyKey, error) {
	var out *entity.IdempotencyKey
	err := r.a.view(func(st *state) error {
		if k, ok := st.idem.get(key); ok {
			k = cloneIdem(k)
			out = &k
		}
		return nil
	})
	return out, err
}

func (r *IdempotencyRepo) CreatePending(_ context.Context, rec *entity.IdempotencyKey) error {
	return r.a.update(func(st *state) error {
		if !st.idem.insert(rec.Key, cloneIdem(*rec)) {
			return constraint("Idempotency-Key %s ya existe", rec.Key)
		}
		return nil
	})
}

func (r *IdempotencyRepo) Complete(_ context.Context, key string, status int, body []byte) error {
	return r.a.update(func(st *state) error {
		k, ok := st.idem.get(key)
		if !ok {
			return constraint("Idempotency-Key %s inexistente", key)
		}
		now := time.Now().UTC()
		k.ResponseStatus = status
		k.ResponseBody = append([]byte(nil), body...)
		k.CompletedAt = &now
		st.idem.put(key, k)
		return nil
	})
}

func (r *IdempotencyRepo) Release(_ context.Context, key string) error {
	return r.a.update(func(st *state) error {
		if k, ok := st.idem.get(key); ok && !k.Completed() {
			st.idem.remove(key)
		}
		return nil
	})
}
