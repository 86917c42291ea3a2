package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bmvdigital/pos-feria-2026/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return strings.Contains(err.Error(), pgerrcode.UniqueViolation)
}

// mapError traduce errores de PostgreSQL a errores de dominio, conservando el original en la cadena.
// Integridad (unique, FK, check) = ErrConstraintViolation; texto mal formado (ej. UUID) = ErrInvalidInput;
// el resto = ErrStorageUnavailable.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrConstraintViolation, pgErr.Message)
		case pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// conds arma cláusulas WHERE con parámetros posicionales.
type conds struct {
	where []string
	args  []any
}

// add agrega expr; %d se reemplaza por la posición del argumento.
func (c *conds) add(expr string, arg any) {
	c.args = append(c.args, arg)
	c.where = append(c.where, fmt.Sprintf(expr, len(c.args)))
}

func (c *conds) raw(expr string) {
	c.where = append(c.where, expr)
}

func (c *conds) timeRange(column string, from, to *time.Time) {
	if from != nil {
		c.add(column+" >= $%d", *from)
	}
	if to != nil {
		c.add(column+" <= $%d", *to)
	}
}

func (c *conds) sql() string {
	if len(c.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.where, " AND ")
}

// page agrega LIMIT/OFFSET; limit <= 0 no limita.
func (c *conds) page(limit, offset int) string {
	out := ""
	if limit > 0 {
		c.args = append(c.args, limit)
		out += fmt.Sprintf(" LIMIT $%d", len(c.args))
	}
	if offset > 0 {
		c.args = append(c.args, offset)
		out += fmt.Sprintf(" OFFSET $%d", len(c.args))
	}
	return out
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
