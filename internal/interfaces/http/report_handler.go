package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/bmvdigital/pos-feria-2026/internal/application/analytics"
)

// ReportHandler maneja el dashboard y el resumen financiero.
type ReportHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.DashboardUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen financiero
// @Description  Ventas, costo, utilidad, cuentas por cobrar y pedidos pendientes. Excluye ventas canceladas y eliminadas.
// @Tags         reports
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Success      200  {object}  dto.SummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	from, to, err := timeRangeFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSummary(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Resumen, ventas por zona y por día, top clientes y top productos.
// @Tags         reports
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Success      200  {object}  dto.DashboardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	from, to, err := timeRangeFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetDashboard(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
