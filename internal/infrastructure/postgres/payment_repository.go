package postgres

import (
	"context"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo abonos de clientes (append-only).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, client_id, amount, method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ClientID, p.Amount, p.Method, p.Notes, p.CreatedAt)
	return mapError("insert payment", err)
}

func (r *PaymentRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, client_id, amount, method, notes, created_at
		FROM payments WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, mapError("list payments", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Amount, &p.Method, &p.Notes, &p.CreatedAt); err != nil {
			return nil, mapError("scan payment", err)
		}
		list = append(list, &p)
	}
	return list, mapError("list payments", rows.Err())
}
