package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo respuestas guardadas por Idempotency-Key.
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el adaptador.
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	var k entity.IdempotencyKey
	err := r.q.QueryRow(ctx, `
		SELECT key, request_hash, method, path, response_status, response_body, created_at, completed_at
		FROM idempotency_keys WHERE key = $1`, key).
		Scan(&k.Key, &k.RequestHash, &k.Method, &k.Path, &k.ResponseStatus, &k.ResponseBody, &k.CreatedAt, &k.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get idempotency key", err)
	}
	return &k, nil
}

// CreatePending reserva la clave; si ya existe devuelve ErrConstraintViolation (unique).
func (r *IdempotencyRepo) CreatePending(ctx context.Context, k *entity.IdempotencyKey) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO idempotency_keys (key, request_hash, method, path, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		k.Key, k.RequestHash, k.Method, k.Path, k.CreatedAt)
	return mapError("insert idempotency key", err)
}

func (r *IdempotencyRepo) Complete(ctx context.Context, key string, status int, body []byte) error {
	_, err := r.q.Exec(ctx, `
		UPDATE idempotency_keys SET response_status = $2, response_body = $3, completed_at = now()
		WHERE key = $1`, key, status, body)
	return mapError("complete idempotency key", err)
}

func (r *IdempotencyRepo) Release(ctx context.Context, key string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = $1 AND response_status = 0`, key)
	return mapError("release idempotency key", err)
}
