package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client representa un punto de venta (stand) con cuenta de crédito.
// Balance y CreditsCount solo se modifican vía ventas, abonos y cancelaciones.
type Client struct {
	ID           string
	Name         string
	Zone         string // ej. "Zona VIP", "Explanada"
	BusinessType string
	ContactName  string
	Phone        string
	Balance      decimal.Decimal // saldo pendiente, nunca negativo
	CreditsCount int             // créditos otorgados; limita nuevas ventas a crédito
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasDebt indica si el cliente tiene saldo pendiente.
func (c *Client) HasDebt() bool {
	return c.Balance.GreaterThan(decimal.Zero)
}
