package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bmvdigital/pos-feria-2026/internal/application/audit"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

// AuditHandler consulta y depura la bitácora. Solo Master y Administrador consultan; solo Master borra.
type AuditHandler struct {
	uc *audit.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Consultar bitácora
// @Description  Entradas de la más reciente a la más antigua.
// @Tags         audit
// @Produce      json
// @Param        X-Actor-Role  header  string  true   "Master o Administrador"
// @Param        event_type    query   string  false  "Tipo de evento"
// @Param        search        query   string  false  "Texto en descripción o actor"
// @Param        from          query   string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to            query   string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit         query   int     false  "Máximo de renglones (default 50)"
// @Param        offset        query   int     false  "Desplazamiento"
// @Success      200  {object}  dto.AuditListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	from, to, err := timeRangeFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Context(), GetActor(c), repository.AuditFilter{
		EventType: c.Query("event_type"),
		Search:    c.Query("search"),
		From:      from,
		To:        to,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// EventTypes godoc
// @Summary      Tipos de evento registrados
// @Tags         audit
// @Produce      json
// @Success      200  {array}   string
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit/event-types [get]
func (h *AuditHandler) EventTypes(c *fiber.Ctx) error {
	types, err := h.uc.EventTypes(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(types)
}

// Delete godoc
// @Summary      Eliminar entrada de bitácora
// @Description  Solo Master. El borrado queda registrado en el canal de eliminaciones.
// @Tags         audit
// @Param        id   path  string  true  "ID de la entrada"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audit/{id} [delete]
func (h *AuditHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), idParam(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
