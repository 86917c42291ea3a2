package repository

import (
	"context"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// IdempotencyRepository almacena respuestas por Idempotency-Key.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*entity.IdempotencyKey, error)
	// CreatePending devuelve ErrConstraintViolation si la clave ya existe.
	CreatePending(ctx context.Context, rec *entity.IdempotencyKey) error
	Complete(ctx context.Context, key string, status int, body []byte) error
	// Release libera una clave pendiente para que el llamador pueda reintentar.
	Release(ctx context.Context, key string) error
}
