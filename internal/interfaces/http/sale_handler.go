package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/application/sales"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

// SaleHandler maneja ventas directas, cancelación y eliminación.
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Venta directa
// @Description  contado no toca saldo; credito incrementa saldo y créditos del cliente.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para reintentos"
// @Param        body  body  dto.CreateSaleRequest  true  "client_id, warehouse_id, payment_method, items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateDirectSale(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Revierte el saldo (con piso en 0) y regresa el stock.
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.CancelSale(c.Context(), GetActor(c), idParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Solo Master y solo ventas Cancelada.
// @Tags         sales
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSale(c.Context(), GetActor(c), idParam(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.Context(), idParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        client_id        query  string  false  "Cliente"
// @Param        status           query  string  false  "Completada, Cancelada o Eliminada"
// @Param        payment_method   query  string  false  "contado o credito"
// @Param        include_deleted  query  bool    false  "Incluir eliminadas"
// @Param        from             query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to               query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit            query  int     false  "Máximo de renglones (default 50)"
// @Param        offset           query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	from, to, err := timeRangeFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListSales(c.Context(), repository.SaleFilter{
		ClientID:       c.Query("client_id"),
		Status:         c.Query("status"),
		PaymentMethod:  c.Query("payment_method"),
		From:           from,
		To:             to,
		IncludeDeleted: c.QueryBool("include_deleted", false),
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
