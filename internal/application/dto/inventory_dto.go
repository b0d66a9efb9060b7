package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments. Quantity con signo.
type AdjustStockRequest struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// HistoryResponse un registro del historial de inventario.
type HistoryResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product"`
	UserID          *string   `json:"user"`
	Action          string    `json:"action"`
	QuantityChanged int       `json:"quantity_changed"`
	Timestamp       time.Time `json:"timestamp"`
}

// ReportRequest query params del reporte (YYYY-MM-DD, ambos opcionales).
type ReportRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// PeriodDTO rango efectivo del reporte; vacío = sin límite.
type PeriodDTO struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// InventoryReportResponse reporte de inventario.
type InventoryReportResponse struct {
	GeneratedAt         time.Time         `json:"generated_at"`
	Period              PeriodDTO         `json:"period"`
	TotalInventoryValue decimal.Decimal   `json:"total_inventory_value"`
	TotalStock          int64             `json:"total_stock"`
	ProductCount        int               `json:"product_count"`
	LowStockCount       int               `json:"low_stock_count"`
	History             []HistoryResponse `json:"history"`
}

// LowStockResponse productos bajo su umbral.
type LowStockResponse struct {
	Total    int               `json:"total"`
	Notified bool              `json:"notified"`
	Products []ProductResponse `json:"products"`
}
