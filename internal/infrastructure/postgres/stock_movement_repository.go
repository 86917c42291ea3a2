package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, warehouse_id, quantity, movement_type, description, reference_id, created_by, created_at`

// StockMovementRepo movimientos de inventario (append-only, usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, m.Quantity, m.Type, m.Description,
		nullable(m.ReferenceID), m.CreatedBy, m.CreatedAt,
	)
	return mapError("insert stock movement", err)
}

// List historial filtrado, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var c conds
	if f.ProductID != "" {
		c.add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		c.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.ReferenceID != "" {
		c.add("reference_id = $%d", f.ReferenceID)
	}
	c.timeRange("created_at", f.From, f.To)
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + c.sql() + ` ORDER BY created_at DESC`
	query += c.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan stock movement", err)
		}
		list = append(list, m)
	}
	return list, mapError("list stock movements", rows.Err())
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var ref *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Quantity, &m.Type,
		&m.Description, &ref, &m.CreatedBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ReferenceID = deref(ref)
	return &m, nil
}
