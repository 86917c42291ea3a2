package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, client_id, warehouse_id, order_id, total_amount, payment_method, status, seller, created_at, updated_at`

// SaleRepo ventas (cabecera + renglones con costo snapshot) sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y renglones.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.q.Exec(ctx, query,
		s.ID, s.ClientID, s.WarehouseID, nullable(s.OrderID), s.TotalAmount,
		s.PaymentMethod, s.Status, s.Seller, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return mapError("insert sale", err)
	}
	for _, it := range s.Items {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.UnitCost,
		); err != nil {
			return mapError("insert sale item", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con renglones, incluidas las eliminadas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta y bloquea la cabecera.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get sale", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, unit_cost
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, mapError("list sale items", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return nil, mapError("scan sale item", err)
		}
		items = append(items, it)
	}
	return items, mapError("list sale items", rows.Err())
}

// UpdateStatus persiste Status y UpdatedAt.
func (r *SaleRepo) UpdateStatus(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1`,
		s.ID, s.Status, s.UpdatedAt)
	if err != nil {
		return mapError("update sale", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale %s: no existe", s.ID)
	}
	return nil
}

// List ventas filtradas, más recientes primero. Excluye Eliminada salvo IncludeDeleted.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var c conds
	if !f.IncludeDeleted {
		c.add("status <> $%d", entity.SaleDeleted)
	}
	if f.ClientID != "" {
		c.add("client_id = $%d", f.ClientID)
	}
	if f.Status != "" {
		c.add("status = $%d", f.Status)
	}
	if f.PaymentMethod != "" {
		c.add("payment_method = $%d", f.PaymentMethod)
	}
	c.timeRange("created_at", f.From, f.To)
	query := `SELECT ` + saleColumns + ` FROM sales` + c.sql() + ` ORDER BY created_at DESC`
	query += c.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, mapError("list sales", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, mapError("scan sale", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError("list sales", err)
	}
	for _, s := range list {
		if s.Items, err = r.items(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var orderID *string
	if err := row.Scan(&s.ID, &s.ClientID, &s.WarehouseID, &orderID, &s.TotalAmount,
		&s.PaymentMethod, &s.Status, &s.Seller, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.OrderID = deref(orderID)
	return &s, nil
}
