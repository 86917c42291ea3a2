// Package ledger contiene las reglas puras de crédito y saldo de clientes.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/domain"
	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// DefaultCreditLimit ventas a crédito permitidas por cliente.
const DefaultCreditLimit = 2

// Políticas de sobrepago.
const (
	OverpaymentReject = "reject"
	OverpaymentClamp  = "clamp"
)

// Policy parámetros de la cuenta de crédito.
type Policy struct {
	CreditLimit           int
	RestoreCreditOnCancel bool   // devolver el crédito al cancelar una venta a crédito
	Overpayment           string // reject | clamp
}

// DefaultPolicy política por defecto: 2 créditos, sin devolución de crédito, sobrepago rechazado.
func DefaultPolicy() Policy {
	return Policy{CreditLimit: DefaultCreditLimit, Overpayment: OverpaymentReject}
}

// Normalize corrige valores vacíos o inválidos.
func (p Policy) Normalize() Policy {
	if p.CreditLimit <= 0 {
		p.CreditLimit = DefaultCreditLimit
	}
	p.Overpayment = strings.ToLower(strings.TrimSpace(p.Overpayment))
	if p.Overpayment != OverpaymentClamp {
		p.Overpayment = OverpaymentReject
	}
	return p
}

// CanExtendCredit indica si el cliente puede recibir otra venta a crédito.
func (p Policy) CanExtendCredit(c *entity.Client) bool {
	return c.CreditsCount < p.CreditLimit
}

// ApplyCreditSale incrementa créditos y saldo. Falla con CreditLimitError si no hay crédito disponible.
func (p Policy) ApplyCreditSale(c *entity.Client, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if !p.CanExtendCredit(c) {
		return &domain.CreditLimitError{ClientID: c.ID, CreditsCount: c.CreditsCount, Limit: p.CreditLimit}
	}
	c.CreditsCount++
	c.Balance = c.Balance.Add(amount)
	return nil
}

// ApplyPayment descuenta un abono del saldo y devuelve el monto aplicado.
// Con política clamp el exceso se descarta; con reject se devuelve OverpaymentError.
func (p Policy) ApplyPayment(c *entity.Client, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	applied := amount
	if amount.GreaterThan(c.Balance) {
		if p.Overpayment != OverpaymentClamp {
			return decimal.Zero, &domain.OverpaymentError{ClientID: c.ID, Balance: c.Balance, Requested: amount}
		}
		applied = c.Balance
		if !applied.IsPositive() {
			return decimal.Zero, domain.ErrInvalidAmount
		}
	}
	c.Balance = c.Balance.Sub(applied)
	return applied, nil
}

// Reversal resultado de revertir una venta a crédito.
type Reversal struct {
	Reversed       decimal.Decimal // monto descontado del saldo
	Unrecovered    decimal.Decimal // parte no descontada por el piso en cero
	CreditRestored bool
}

// ReverseSale descuenta del saldo el total de una venta a crédito cancelada, con piso en cero.
func (p Policy) ReverseSale(c *entity.Client, amount decimal.Decimal) Reversal {
	r := Reversal{Reversed: amount, Unrecovered: decimal.Zero}
	if amount.GreaterThan(c.Balance) {
		r.Reversed = c.Balance
		r.Unrecovered = amount.Sub(c.Balance)
	}
	c.Balance = c.Balance.Sub(r.Reversed)
	if p.RestoreCreditOnCancel && c.CreditsCount > 0 {
		c.CreditsCount--
		r.CreditRestored = true
	}
	return r
}
