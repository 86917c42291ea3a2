// Package memory implementa los puertos de repositorio en memoria, con transacciones
// por copia del estado (commit = reemplazo, rollback = descarte). Se usa en desarrollo y pruebas.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store estado en memoria. Run serializa a todos los escritores con mu.
type Store struct {
	mu   sync.RWMutex
	data *state

	faultMu sync.Mutex
	faults  map[string]error
}

// New crea un Store vacío.
func New() *Store {
	return &Store{data: newState(), faults: make(map[string]error)}
}

// InjectFault hace que la operación op (ej. "audit.create", "commit") falle con err.
// err nil elimina la falla.
func (s *Store) InjectFault(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err, ok := s.faults[op]; ok {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := s.fault("begin"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, s.reposFor(txAccess{st: work})); err != nil {
		return err
	}
	if err := s.fault("commit"); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma su propio lock).
// No usar dentro de Run.
func (s *Store) Repos() repository.Repos {
	return s.reposFor(rootAccess{s: s})
}

func (s *Store) reposFor(a access) repository.Repos {
	return repository.Repos{
		Clients:    &ClientRepo{a: a, s: s},
		Products:   &ProductRepo{a: a, s: s},
		Warehouses: &WarehouseRepo{a: a, s: s},
		Stock:      &StockRepo{a: a, s: s},
		Movements:  &MovementRepo{a: a, s: s},
		Orders:     &OrderRepo{a: a, s: s},
		Sales:      &SaleRepo{a: a, s: s},
		Payments:   &PaymentRepo{a: a, s: s},
		Audit:      &AuditRepo{a: a, s: s},
	}
}

// Analytics devuelve el repositorio de reportes.
func (s *Store) Analytics() *AnalyticsRepo {
	return &AnalyticsRepo{a: rootAccess{s: s}, s: s}
}

// Idempotency devuelve el repositorio de claves de idempotencia.
func (s *Store) Idempotency() *IdempotencyRepo {
	return &IdempotencyRepo{a: rootAccess{s: s}, s: s}
}

// access abstrae si el repositorio opera sobre la copia de una tx o sobre el estado publicado.
type access interface {
	view(fn func(st *state) error) error
	update(fn func(st *state) error) error
}

type txAccess struct{ st *state }

func (a txAccess) view(fn func(st *state) error) error   { return fn(a.st) }
func (a txAccess) update(fn func(st *state) error) error { return fn(a.st) }

type rootAccess struct{ s *Store }

func (a rootAccess) view(fn func(st *state) error) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return fn(a.s.data)
}

func (a rootAccess) update(fn func(st *state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.data)
}

// state tablas en memoria. Los renglones se guardan por valor; se copian al entrar y al salir.
type state struct {
	clients    table[entity.Client]
	products   table[entity.Product]
	warehouses table[entity.Warehouse]
	stock      table[entity.Stock]
	movements  table[entity.StockMovement]
	orders     table[entity.Order]
	sales      table[entity.Sale]
	payments   table[entity.Payment]
	audit      table[entity.AuditEntry]
	deletions  table[entity.AuditDeletion]
	idem       table[entity.IdempotencyKey]
	folioSeq   int
}

func newState() *state {
	return &state{
		clients:    newTable[entity.Client](),
		products:   newTable[entity.Product](),
		warehouses: newTable[entity.Warehouse](),
		stock:      newTable[entity.Stock](),
		movements:  newTable[entity.StockMovement](),
		orders:     newTable[entity.Order](),
		sales:      newTable[entity.Sale](),
		payments:   newTable[entity.Payment](),
		audit:      newTable[entity.AuditEntry](),
		deletions:  newTable[entity.AuditDeletion](),
		idem:       newTable[entity.IdempotencyKey](),
	}
}

func (st *state) clone() *state {
	return &state{
		clients:    st.clients.clone(nil),
		products:   st.products.clone(nil),
		warehouses: st.warehouses.clone(nil),
		stock:      st.stock.clone(nil),
		movements:  st.movements.clone(nil),
		orders:     st.orders.clone(cloneOrder),
		sales:      st.sales.clone(cloneSale),
		payments:   st.payments.clone(nil),
		audit:      st.audit.clone(cloneAudit),
		deletions:  st.deletions.clone(nil),
		idem:       st.idem.clone(cloneIdem),
		folioSeq:   st.folioSeq,
	}
}

// table conserva el orden de inserción y un índice por ID.
type table[T any] struct {
	rows []T
	ids  []string
	idx  map[string]int
}

func newTable[T any]() table[T] {
	return table[T]{idx: make(map[string]int)}
}

func (t *table[T]) get(id string) (T, bool) {
	i, ok := t.idx[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.rows[i], true
}

func (t *table[T]) insert(id string, v T) bool {
	if _, ok := t.idx[id]; ok {
		return false
	}
	t.idx[id] = len(t.rows)
	t.rows = append(t.rows, v)
	t.ids = append(t.ids, id)
	return true
}

func (t *table[T]) put(id string, v T) bool {
	i, ok := t.idx[id]
	if !ok {
		return false
	}
	t.rows[i] = v
	return true
}

func (t *table[T]) remove(id string) bool {
	i, ok := t.idx[id]
	if !ok {
		return false
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	t.ids = append(t.ids[:i], t.ids[i+1:]...)
	delete(t.idx, id)
	for j := i; j < len(t.ids); j++ {
		t.idx[t.ids[j]] = j
	}
	return true
}

func (t table[T]) clone(cp func(T) T) table[T] {
	out := table[T]{
		rows: make([]T, len(t.rows)),
		ids:  make([]string, len(t.ids)),
		idx:  make(map[string]int, len(t.idx)),
	}
	for i, r := range t.rows {
		if cp != nil {
			r = cp(r)
		}
		out.rows[i] = r
	}
	copy(out.ids, t.ids)
	for k, v := range t.idx {
		out.idx[k] = v
	}
	return out
}

func cloneOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return o
}

func cloneSale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return s
}

func cloneAudit(e entity.AuditEntry) entity.AuditEntry {
	if e.Metadata != nil {
		md := make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			md[k] = v
		}
		e.Metadata = md
	}
	return e
}

func cloneIdem(k entity.IdempotencyKey) entity.IdempotencyKey {
	k.ResponseBody = append([]byte(nil), k.ResponseBody...)
	return k
}

// page aplica limit/offset sobre un slice ya ordenado.
func page[T any](rows []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return rows[:0]
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func constraint(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrConstraintViolation, fmt.Sprintf(format, args...))
}
