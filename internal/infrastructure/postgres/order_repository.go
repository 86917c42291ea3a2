package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, folio, client_id, warehouse_id, total_amount, status, sale_id, created_at, updated_at`

// OrderRepo pedidos (cabecera + renglones) sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta cabecera y renglones. Folio duplicado = ErrConstraintViolation.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query,
		o.ID, o.Folio, o.ClientID, o.WarehouseID, o.TotalAmount, o.Status,
		nullable(o.SaleID), o.CreatedAt, o.UpdatedAt,
	); err != nil {
		return mapError("insert order", err)
	}
	for _, it := range o.Items {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, o.ID, it.ProductID, it.Quantity, it.UnitPrice,
		); err != nil {
			return mapError("insert order item", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus renglones.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido y bloquea la cabecera.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get order", err)
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, mapError("list order items", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, mapError("scan order item", err)
		}
		items = append(items, it)
	}
	return items, mapError("list order items", rows.Err())
}

// UpdateStatus persiste Status, SaleID y UpdatedAt.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, sale_id = $3, updated_at = $4 WHERE id = $1`,
		o.ID, o.Status, nullable(o.SaleID), o.UpdatedAt)
	if err != nil {
		return mapError("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: no existe", o.ID)
	}
	return nil
}

// List lista pedidos más recientes primero, con renglones.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var c conds
	if f.Status != "" {
		c.add("status = $%d", f.Status)
	}
	if f.ClientID != "" {
		c.add("client_id = $%d", f.ClientID)
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + c.sql() + ` ORDER BY created_at DESC`
	query += c.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, mapError("list orders", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, mapError("scan order", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError("list orders", err)
	}
	// Renglones después de cerrar rows: una tx no admite dos consultas abiertas.
	for _, o := range list {
		if o.Items, err = r.items(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// NextFolio reserva el siguiente folio ORD-NNNN desde la secuencia.
func (r *OrderRepo) NextFolio(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('order_folio_seq')`).Scan(&n); err != nil {
		return "", mapError("next folio", err)
	}
	return fmt.Sprintf("ORD-%04d", n), nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var saleID *string
	if err := row.Scan(&o.ID, &o.Folio, &o.ClientID, &o.WarehouseID, &o.TotalAmount,
		&o.Status, &saleID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.SaleID = deref(saleID)
	return &o, nil
}
