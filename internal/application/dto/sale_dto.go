package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// ItemRequest renglón solicitado; el precio se toma del catálogo vigente.
type ItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest entrada para crear pedido. Folio vacío = consecutivo ORD-NNNN.
type CreateOrderRequest struct {
	ClientID    string        `json:"client_id" validate:"required"`
	WarehouseID string        `json:"warehouse_id" validate:"required"`
	Folio       string        `json:"folio" validate:"max=40"`
	Items       []ItemRequest `json:"items" validate:"dive"`
}

// CreateSaleRequest entrada para venta directa.
type CreateSaleRequest struct {
	ClientID      string        `json:"client_id" validate:"required"`
	WarehouseID   string        `json:"warehouse_id" validate:"required"`
	PaymentMethod string        `json:"payment_method" validate:"required,oneof=contado credito"`
	Items         []ItemRequest `json:"items" validate:"dive"`
}

// OrderItemResponse renglón de pedido.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de pedido.
type OrderResponse struct {
	ID          string              `json:"id"`
	Folio       string              `json:"folio"`
	ClientID    string              `json:"client_id"`
	WarehouseID string              `json:"warehouse_id"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      string              `json:"status"`
	SaleID      string              `json:"sale_id,omitempty"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToOrderResponse convierte la entidad.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return &OrderResponse{
		ID:          o.ID,
		Folio:       o.Folio,
		ClientID:    o.ClientID,
		WarehouseID: o.WarehouseID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		SaleID:      o.SaleID,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// SaleItemResponse renglón de venta con costo snapshot.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	ClientID      string             `json:"client_id"`
	WarehouseID   string             `json:"warehouse_id"`
	OrderID       string             `json:"order_id,omitempty"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Seller        string             `json:"seller"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToSaleResponse convierte la entidad.
func ToSaleResponse(s *entity.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal(),
		})
	}
	return &SaleResponse{
		ID:            s.ID,
		ClientID:      s.ClientID,
		WarehouseID:   s.WarehouseID,
		OrderID:       s.OrderID,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		Seller:        s.Seller,
		Items:         items,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// DeliveryResponse resultado de confirmar entrega: pedido actualizado y venta generada.
type DeliveryResponse struct {
	Order *OrderResponse `json:"order"`
	Sale  *SaleResponse  `json:"sale"`
}
