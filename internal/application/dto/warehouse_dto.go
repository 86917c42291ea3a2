package dto

import (
	"time"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// CreateWarehouseRequest entrada para dar de alta un almacén.
type CreateWarehouseRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// WarehouseResponse salida de almacén.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToWarehouseResponse convierte la entidad.
func ToWarehouseResponse(w *entity.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{ID: w.ID, Name: w.Name, CreatedAt: w.CreatedAt}
}
