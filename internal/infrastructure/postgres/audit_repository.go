package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

const auditColumns = `id, actor_role, actor_name, event_type, description, metadata, created_at`

// AuditRepo bitácora y canal de eliminaciones. metadata y snapshot se guardan como JSONB.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	md := e.Metadata
	if md == nil {
		md = map[string]any{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_entries (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ActorRole, e.ActorName, e.EventType, e.Description, md, e.CreatedAt)
	return mapError("insert audit entry", err)
}

func (r *AuditRepo) GetByID(ctx context.Context, id string) (*entity.AuditEntry, error) {
	e, err := scanAudit(r.q.QueryRow(ctx, `SELECT `+auditColumns+` FROM audit_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get audit entry", err)
	}
	return e, nil
}

func (r *AuditRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM audit_entries WHERE id = $1`, id)
	return mapError("delete audit entry", err)
}

// List entradas filtradas, más recientes primero. Search busca en descripción y actor.
func auditConds(f repository.AuditFilter) *conds {
	c := &conds{}
	if f.EventType != "" {
		c.add("event_type = $%d", f.EventType)
	}
	if f.Search != "" {
		c.add("(description ILIKE '%%' || $%[1]d || '%%' OR actor_name ILIKE '%%' || $%[1]d || '%%')", f.Search)
	}
	c.timeRange("created_at", f.From, f.To)
	return c
}

func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	c := auditConds(f)
	query := `SELECT ` + auditColumns + ` FROM audit_entries` + c.sql() + ` ORDER BY created_at DESC`
	query += c.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, mapError("list audit entries", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, mapError("scan audit entry", err)
		}
		list = append(list, e)
	}
	return list, mapError("list audit entries", rows.Err())
}

func (r *AuditRepo) Count(ctx context.Context, f repository.AuditFilter) (int, error) {
	c := auditConds(f)
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_entries`+c.sql(), c.args...).Scan(&n)
	return n, mapError("count audit entries", err)
}

func (r *AuditRepo) EventTypes(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT event_type FROM audit_entries ORDER BY event_type`)
	if err != nil {
		return nil, mapError("list event types", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, mapError("scan event type", err)
		}
		out = append(out, t)
	}
	return out, mapError("list event types", rows.Err())
}

func (r *AuditRepo) CreateDeletion(ctx context.Context, d *entity.AuditDeletion) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_deletions (id, audit_entry_id, event_type, snapshot, deleted_by_role, deleted_by_name, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.AuditEntryID, d.EventType, d.Snapshot, d.DeletedByRole, d.DeletedByName, d.DeletedAt)
	return mapError("insert audit deletion", err)
}

func (r *AuditRepo) ListDeletions(ctx context.Context) ([]*entity.AuditDeletion, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, audit_entry_id, event_type, snapshot, deleted_by_role, deleted_by_name, deleted_at
		FROM audit_deletions ORDER BY deleted_at DESC`)
	if err != nil {
		return nil, mapError("list audit deletions", err)
	}
	defer rows.Close()
	var list []*entity.AuditDeletion
	for rows.Next() {
		var d entity.AuditDeletion
		if err := rows.Scan(&d.ID, &d.AuditEntryID, &d.EventType, &d.Snapshot,
			&d.DeletedByRole, &d.DeletedByName, &d.DeletedAt); err != nil {
			return nil, mapError("scan audit deletion", err)
		}
		list = append(list, &d)
	}
	return list, mapError("list audit deletions", rows.Err())
}

func scanAudit(row pgx.Row) (*entity.AuditEntry, error) {
	var e entity.AuditEntry
	if err := row.Scan(&e.ID, &e.ActorRole, &e.ActorName, &e.EventType, &e.Description, &e.Metadata, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
