package repository

import (
	"context"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// PaymentRepository puerto append-only de abonos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByClient(ctx context.Context, clientID string) ([]*entity.Payment, error)
}
