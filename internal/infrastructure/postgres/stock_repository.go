package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en un almacén; nil si no hay fila.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	return r.get(ctx, query, productID, warehouseID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.get(ctx, query, productID, warehouseID)
}

func (r *StockRepo) get(ctx context.Context, query, productID, warehouseID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get stock", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y almacén).
// El CHECK quantity >= 0 de la tabla respalda la regla de no negativos.
func (r *StockRepo) Upsert(ctx context.Context, s *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, s.ProductID, s.WarehouseID, s.Quantity, s.UpdatedAt)
	return mapError("upsert stock", err)
}

// DeleteByProduct elimina las filas de stock del producto.
func (r *StockRepo) DeleteByProduct(ctx context.Context, productID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stock WHERE product_id = $1`, productID)
	return mapError("delete stock", err)
}

// ListLevels existencias con datos de producto y almacén; warehouseID vacío = todos.
func (r *StockRepo) ListLevels(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	var c conds
	if warehouseID != "" {
		c.add("s.warehouse_id = $%d", warehouseID)
	}
	query := `
		SELECT s.product_id, s.warehouse_id, s.quantity, s.updated_at,
			p.name, p.category, p.presentation, w.name
		FROM stock s
		JOIN products p ON p.id = s.product_id
		JOIN warehouses w ON w.id = s.warehouse_id` + c.sql() + `
		ORDER BY w.name, p.name`
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, mapError("list stock", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ProductID, &l.WarehouseID, &l.Quantity, &l.UpdatedAt,
			&l.ProductName, &l.Category, &l.Presentation, &l.WarehouseName); err != nil {
			return nil, mapError("scan stock", err)
		}
		list = append(list, &l)
	}
	return list, mapError("list stock", rows.Err())
}
