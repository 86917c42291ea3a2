package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// CreateClientRequest entrada para alta de cliente (stand).
type CreateClientRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Zone         string `json:"zone" validate:"max=120"`
	BusinessType string `json:"business_type" validate:"max=120"`
	ContactName  string `json:"contact_name" validate:"max=200"`
	Phone        string `json:"phone" validate:"max=40"`
}

// UpdateClientRequest edición de datos de contacto. Saldo y créditos no se editan.
type UpdateClientRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Zone         *string `json:"zone" validate:"omitempty,max=120"`
	BusinessType *string `json:"business_type" validate:"omitempty,max=120"`
	ContactName  *string `json:"contact_name" validate:"omitempty,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,max=40"`
}

// ClientResponse salida de cliente.
type ClientResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Zone         string          `json:"zone"`
	BusinessType string          `json:"business_type"`
	ContactName  string          `json:"contact_name"`
	Phone        string          `json:"phone"`
	Balance      decimal.Decimal `json:"balance"`
	CreditsCount int             `json:"credits_count"`
	CanBuyCredit bool            `json:"can_buy_on_credit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToClientResponse convierte la entidad; canCredit lo calcula la política de crédito.
func ToClientResponse(c *entity.Client, canCredit bool) *ClientResponse {
	return &ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Zone:         c.Zone,
		BusinessType: c.BusinessType,
		ContactName:  c.ContactName,
		Phone:        c.Phone,
		Balance:      c.Balance,
		CreditsCount: c.CreditsCount,
		CanBuyCredit: canCredit,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// RegisterPaymentRequest entrada de abono.
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"max=40"`
	Notes  string          `json:"notes" validate:"max=300"`
}

// PaymentResponse abono registrado con el saldo resultante.
type PaymentResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Notes      string          `json:"notes"`
	NewBalance decimal.Decimal `json:"new_balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Tipos de renglón del estado de cuenta.
const (
	StatementCharge  = "CARGO"
	StatementPayment = "ABONO"
)

// StatementLine renglón del estado de cuenta: venta a crédito (CARGO) o abono (ABONO).
type StatementLine struct {
	Type        string          `json:"type"`
	ReferenceID string          `json:"reference_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Date        time.Time       `json:"date"`
}

// ClientStatementResponse historial de cargos y abonos, más reciente primero.
type ClientStatementResponse struct {
	Client  *ClientResponse `json:"client"`
	Charges decimal.Decimal `json:"total_charges"`
	Paid    decimal.Decimal `json:"total_payments"`
	Lines   []StatementLine `json:"lines"`
}

// DebtorResponse cliente con saldo pendiente.
type DebtorResponse struct {
	ClientID string          `json:"client_id"`
	Name     string          `json:"name"`
	Zone     string          `json:"zone"`
	Balance  decimal.Decimal `json:"balance"`
}

// ReceivablesResponse cuentas por cobrar ordenadas por saldo descendente.
type ReceivablesResponse struct {
	Total   decimal.Decimal  `json:"total"`
	Debtors []DebtorResponse `json:"debtors"`
}
