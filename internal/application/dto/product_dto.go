package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Threshold nil = 10.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    *string         `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Threshold     *int            `json:"threshold"`
}

// UpdateProductRequest entrada para actualizar un producto; campos nil no se modifican.
// Un cambio de StockQuantity queda registrado en el historial como add/remove.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	CategoryID    *string          `json:"category"`
	ClearCategory bool             `json:"clear_category"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	Threshold     *int             `json:"threshold"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	CategoryID       *string         `json:"category"`
	Price            decimal.Decimal `json:"price"`
	StockQuantity    int             `json:"stock_quantity"`
	Threshold        int             `json:"threshold"`
	IsBelowThreshold bool            `json:"is_below_threshold"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
