package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/internal/application/inventory"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/repository"
)

// InventoryHandler maneja ajustes, existencias y movimientos.
type InventoryHandler struct {
	uc *inventory.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// AdjustStock godoc
// @Summary      Ajuste manual de inventario
// @Description  delta > 0 es resurtido, delta < 0 es merma. Nunca deja existencia negativa.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor-Role     header  string  false  "Rol del actor"
// @Param        X-Actor-Name     header  string  false  "Nombre del actor"
// @Param        Idempotency-Key  header  string  false  "Clave para reintentos"
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, delta, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AdjustStock(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStock godoc
// @Summary      Existencias por almacén
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por almacén. Vacío = todos."
// @Param        low           query  bool    false  "Solo productos con stock bajo"
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	var (
		list []dto.StockLevelResponse
		err  error
	)
	if c.QueryBool("low", false) {
		list, err = h.uc.ListLowStock(c.Context(), warehouseID)
	} else {
		list, err = h.uc.ListStock(c.Context(), warehouseID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ListLowStock godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por almacén"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	list, err := h.uc.ListLowStock(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos de inventario
// @Tags         inventory
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Almacén"
// @Param        reference_id  query  string  false  "Venta o pedido de origen"
// @Param        from          query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit         query  int     false  "Máximo de renglones (default 50)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	from, to, err := timeRangeFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListMovements(c.Context(), repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		ReferenceID: c.Query("reference_id"),
		From:        from,
		To:          to,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
