package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden.
type OrderItemRequest struct {
	ProductID       string          `json:"product"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// CreateOrderRequest body para POST /api/orders. Status vacío = pending.
type CreateOrderRequest struct {
	OrderType string             `json:"order_type"`
	Status    string             `json:"status"`
	Items     []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest body para PUT /api/orders/:id. Los ítems se emparejan por producto.
type UpdateOrderRequest struct {
	Status *string            `json:"status"`
	Items  []OrderItemRequest `json:"items"`
}

// OrderItemResponse salida de una línea.
type OrderItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// OrderResponse salida de una orden con sus ítems.
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderType   string              `json:"order_type"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	UserID      string              `json:"user"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
