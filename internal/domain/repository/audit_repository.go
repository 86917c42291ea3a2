package repository

import (
	"context"
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// AuditFilter filtros de la bitácora.
type AuditFilter struct {
	EventType string
	Search    string // texto en descripción o nombre del actor
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// AuditRepository puerto de la bitácora. Las entradas solo se borran vía Delete (Master)
// y cada borrado queda en el canal de eliminaciones, que no tiene operación de borrado.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	GetByID(ctx context.Context, id string) (*entity.AuditEntry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AuditFilter) ([]*entity.AuditEntry, error)
	// Count cuenta las entradas que cumplen el filtro, sin paginar.
	Count(ctx context.Context, filter AuditFilter) (int, error)
	EventTypes(ctx context.Context) ([]string, error)
	CreateDeletion(ctx context.Context, deletion *entity.AuditDeletion) error
	ListDeletions(ctx context.Context) ([]*entity.AuditDeletion, error)
}
