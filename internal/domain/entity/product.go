package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo. El stock vive por bodega en Stock.
type Product struct {
	ID            string
	Name          string
	Category      string // Cerveza, Refresco, Agua, Tequila...
	Presentation  string // ej. "Caja 24 pzas"
	Description   string
	Price         decimal.Decimal // precio de venta vigente
	PurchasePrice decimal.Decimal // costo de compra; se copia a la venta como snapshot
	Color         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
