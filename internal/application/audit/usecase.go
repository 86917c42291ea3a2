package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

// AuditUseCase consulta y depuración de la bitácora.
type AuditUseCase struct {
	txRunner repository.TxRunner
	repo     repository.AuditRepository
}

// NewAuditUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewAuditUseCase(txRunner repository.TxRunner, repo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{txRunner: txRunner, repo: repo}
}

// List devuelve entradas filtradas, más recientes primero. Solo Master y Administrador.
func (uc *AuditUseCase) List(ctx context.Context, actor entity.Actor, filter repository.AuditFilter) (*dto.AuditListResponse, error) {
	if !actor.CanViewAudit() {
		return nil, domain.ErrForbidden
	}
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	entries, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditListResponse{
		Entries: make([]dto.AuditEntryResponse, 0, len(entries)),
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.ToAuditEntryResponse(e))
	}
	return out, nil
}

// EventTypes lista los tipos de evento presentes en la bitácora.
func (uc *AuditUseCase) EventTypes(ctx context.Context, actor entity.Actor) ([]string, error) {
	if !actor.CanViewAudit() {
		return nil, domain.ErrForbidden
	}
	types, err := uc.repo.EventTypes(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []string{}
	}
	return types, nil
}

// Delete elimina una entrada (solo Master). El borrado queda registrado en el canal
// de eliminaciones dentro de la misma transacción.
func (uc *AuditUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsMaster() {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		entry, err := r.Audit.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		deletion := &entity.AuditDeletion{
			ID:            uuid.New().String(),
			AuditEntryID:  entry.ID,
			EventType:     entry.EventType,
			Snapshot:      *entry,
			DeletedByRole: actor.Role,
			DeletedByName: actor.Name,
			DeletedAt:     time.Now().UTC(),
		}
		if err := r.Audit.CreateDeletion(ctx, deletion); err != nil {
			return err
		}
		return r.Audit.Delete(ctx, entry.ID)
	})
}
