package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, zone, business_type, contact_name, phone, balance, credits_count, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Name, &c.Zone, &c.BusinessType, &c.ContactName, &c.Phone,
		&c.Balance, &c.CreditsCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Zone, c.BusinessType, c.ContactName, c.Phone,
		c.Balance, c.CreditsCount, c.CreatedAt, c.UpdatedAt,
	)
	return mapError("insert client", err)
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.get(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetForUpdate obtiene el cliente y bloquea la fila hasta el fin de la transacción.
func (r *ClientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Client, error) {
	return r.get(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1 FOR UPDATE`, id)
}

func (r *ClientRepo) get(ctx context.Context, query, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get client", err)
	}
	return c, nil
}

// Update persiste datos de contacto, saldo y créditos.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, zone = $3, business_type = $4, contact_name = $5, phone = $6,
			balance = $7, credits_count = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Zone, c.BusinessType, c.ContactName, c.Phone,
		c.Balance, c.CreditsCount, c.UpdatedAt,
	)
	if err != nil {
		return mapError("update client", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update client %s: no existe", c.ID)
	}
	return nil
}

// List lista clientes por nombre; con WithDebtOnly solo deudores por saldo descendente.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	var c conds
	if f.Search != "" {
		c.add("(name ILIKE '%%' || $%[1]d || '%%' OR zone ILIKE '%%' || $%[1]d || '%%' OR contact_name ILIKE '%%' || $%[1]d || '%%')", f.Search)
	}
	order := " ORDER BY name"
	if f.WithDebtOnly {
		c.raw("balance > 0")
		order = " ORDER BY balance DESC, name"
	}
	query := `SELECT ` + clientColumns + ` FROM clients` + c.sql() + order
	query += c.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, mapError("list clients", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		cl, err := scanClient(rows)
		if err != nil {
			return nil, mapError("scan client", err)
		}
		list = append(list, cl)
	}
	return list, mapError("list clients", rows.Err())
}
