// Package audit registra y consulta la bitácora de operaciones.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

// Metadata datos estructurados del evento (ej. sale_id, client, amount, method).
type Metadata map[string]any

// Record agrega una entrada a la bitácora usando el repositorio de la transacción en curso.
// Cualquier falla se reporta como ErrStorageUnavailable para abortar el comando completo.
func Record(
	ctx context.Context,
	repo repository.AuditRepository,
	actor entity.Actor,
	eventType, description string,
	md Metadata,
) (*entity.AuditEntry, error) {
	if md == nil {
		md = Metadata{}
	}
	entry := &entity.AuditEntry{
		ID:          uuid.New().String(),
		ActorRole:   actor.Role,
		ActorName:   actor.Name,
		EventType:   eventType,
		Description: description,
		Metadata:    md,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("registrar bitácora %q: %w: %w", eventType, domain.ErrStorageUnavailable, err)
	}
	return entry, nil
}
