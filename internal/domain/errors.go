package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los llamadores comparan con errors.Is.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConstraintViolation    = errors.New("violación de restricción de integridad")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrCreditLimitExceeded    = errors.New("límite de créditos alcanzado")
	ErrInvalidAmount          = errors.New("monto inválido")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrStorageUnavailable     = errors.New("almacenamiento no disponible")
)

// InsufficientStockError detalla el faltante de un producto en una bodega.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en bodega %s (disponible %d, solicitado %d)",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// CreditLimitError indica que el cliente ya agotó sus créditos.
type CreditLimitError struct {
	ClientID     string
	CreditsCount int
	Limit        int
}

func (e *CreditLimitError) Error() string {
	return fmt.Sprintf("límite de créditos alcanzado: cliente %s tiene %d de %d",
		e.ClientID, e.CreditsCount, e.Limit)
}

func (e *CreditLimitError) Unwrap() error { return ErrCreditLimitExceeded }

// OverpaymentError indica un abono mayor al saldo pendiente.
type OverpaymentError struct {
	ClientID  string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("el abono %s excede el saldo %s del cliente %s",
		e.Requested.StringFixed(2), e.Balance.StringFixed(2), e.ClientID)
}

func (e *OverpaymentError) Unwrap() error { return ErrInvalidAmount }

// StateTransitionError describe una transición no permitida en pedidos o ventas.
type StateTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s %s: no se puede pasar de %q a %q", e.Entity, e.ID, e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error { return ErrInvalidStateTransition }
