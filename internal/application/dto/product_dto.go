package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// CreateProductRequest entrada para crear producto.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Category      string          `json:"category" validate:"max=80"`
	Presentation  string          `json:"presentation" validate:"max=120"`
	Description   string          `json:"description" validate:"max=500"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Color         string          `json:"color" validate:"max=20"`
}

// UpdateProductRequest edición parcial; campos nil no cambian.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	Category      *string          `json:"category" validate:"omitempty,max=80"`
	Presentation  *string          `json:"presentation" validate:"omitempty,max=120"`
	Description   *string          `json:"description" validate:"omitempty,max=500"`
	Price         *decimal.Decimal `json:"price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Color         *string          `json:"color" validate:"omitempty,max=20"`
}

// ProductResponse salida de producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Presentation  string          `json:"presentation"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Color         string          `json:"color"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse convierte la entidad.
func ToProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Presentation:  p.Presentation,
		Description:   p.Description,
		Price:         p.Price,
		PurchasePrice: p.PurchasePrice,
		Color:         p.Color,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
