package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bmvdigital/pos-feria-2026/internal/application/credit"
	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
)

// ClientHandler maneja clientes, abonos y estados de cuenta.
type ClientHandler struct {
	uc *credit.CreditUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *credit.CreditUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cliente
// @Description  El cliente inicia con saldo 0 y sin créditos.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterClient(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetClient(c.Context(), idParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Produce      json
// @Param        search  query  string  false  "Texto en nombre, zona o contacto"
// @Param        limit   query  int     false  "Máximo de renglones (default 50)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.ClientResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListClients(c.Context(), c.Query("search"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Update godoc
// @Summary      Actualizar datos del cliente
// @Description  No modifica saldo ni créditos.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateClient(c.Context(), GetActor(c), idParam(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar abono
// @Description  Reduce el saldo del cliente. El sobrepago se rechaza o se ajusta según OVERPAYMENT_POLICY.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para reintentos"
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.RegisterPaymentRequest  true  "amount, method, notes"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/payments [post]
func (h *ClientHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterPayment(c.Context(), GetActor(c), idParam(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Statement godoc
// @Summary      Estado de cuenta
// @Description  Cargos (ventas a crédito) y abonos del cliente en orden cronológico.
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientStatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/statement [get]
func (h *ClientHandler) Statement(c *fiber.Ctx) error {
	out, err := h.uc.Statement(c.Context(), idParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CanCredit godoc
// @Summary      ¿Puede comprar a crédito?
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/can-credit [get]
func (h *ClientHandler) CanCredit(c *fiber.Ctx) error {
	ok, err := h.uc.CanExtendCredit(c.Context(), idParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"client_id": idParam(c), "can_buy_on_credit": ok})
}

// Receivables godoc
// @Summary      Cuentas por cobrar
// @Description  Clientes con saldo pendiente, de mayor a menor, y el total.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.ReceivablesResponse
// @Router       /api/reports/receivables [get]
func (h *ClientHandler) Receivables(c *fiber.Ctx) error {
	out, err := h.uc.Receivables(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
