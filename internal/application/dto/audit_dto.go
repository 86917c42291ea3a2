package dto

import (
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// AuditEntryResponse entrada de bitácora.
type AuditEntryResponse struct {
	ID          string         `json:"id"`
	ActorRole   string         `json:"actor_role"`
	ActorName   string         `json:"actor_name"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToAuditEntryResponse convierte la entidad.
func ToAuditEntryResponse(e *entity.AuditEntry) AuditEntryResponse {
	md := e.Metadata
	if md == nil {
		md = map[string]any{}
	}
	return AuditEntryResponse{
		ID:          e.ID,
		ActorRole:   e.ActorRole,
		ActorName:   e.ActorName,
		EventType:   e.EventType,
		Description: e.Description,
		Metadata:    md,
		CreatedAt:   e.CreatedAt,
	}
}

// AuditListResponse página de bitácora.
type AuditListResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Page    PageResponse         `json:"page"`
}
