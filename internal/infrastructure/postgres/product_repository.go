package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, category, presentation, description, price, purchase_price, color, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Presentation, &p.Description,
		&p.Price, &p.PurchasePrice, &p.Color, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Presentation, p.Description,
		p.Price, p.PurchasePrice, p.Color, p.CreatedAt, p.UpdatedAt,
	)
	return mapError("insert product", err)
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get product", err)
	}
	return p, nil
}

// GetForUpdate lee el producto con SELECT ... FOR UPDATE (dentro de una tx).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("lock product", err)
	}
	return p, nil
}

// Update actualiza datos y precios del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, presentation = $4, description = $5,
			price = $6, purchase_price = $7, color = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Presentation, p.Description,
		p.Price, p.PurchasePrice, p.Color, p.UpdatedAt,
	)
	return mapError("update product", err)
}

// Delete elimina el producto. Las referencias en pedidos o ventas lo impiden por FK.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return mapError("delete product", err)
}

// List lista productos por nombre, con búsqueda y categoría opcionales.
func (r *ProductRepo) List(ctx context.Context, search, category string) ([]*entity.Product, error) {
	var c conds
	if search != "" {
		c.add("name ILIKE '%%' || $%d || '%%'", search)
	}
	if category != "" {
		c.add("lower(category) = lower($%d)", category)
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+c.sql()+` ORDER BY name`, c.args...)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan product", err)
		}
		list = append(list, p)
	}
	return list, mapError("list products", rows.Err())
}

// IsReferenced indica si el producto aparece en movimientos, pedidos o ventas.
func (r *ProductRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM stock_movements WHERE product_id = $1)
			OR EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)
			OR EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1)`
	var referenced bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&referenced); err != nil {
		return false, mapError("product references", err)
	}
	return referenced, nil
}
