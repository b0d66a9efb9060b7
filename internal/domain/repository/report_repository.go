package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// InventoryTotals agregados puntuales sobre todo el catálogo.
type InventoryTotals struct {
	TotalValue    decimal.Decimal // Σ price × stock_quantity
	TotalStock    int64           // Σ stock_quantity
	ProductCount  int
	LowStockCount int
}

// ReportRepository consultas de solo lectura para reportes.
type ReportRepository interface {
	// InventoryTotals devuelve ceros si no hay productos.
	InventoryTotals(ctx context.Context) (InventoryTotals, error)
}
