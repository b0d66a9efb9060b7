package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados calculados sobre el catálogo en memoria.
type ReportRepo struct{ s view }

func (r *ReportRepo) InventoryTotals(_ context.Context) (repository.InventoryTotals, error) {
	totals := repository.InventoryTotals{TotalValue: decimal.Zero}
	r.s.read(func(d *state) {
		for _, p := range d.products {
			totals.TotalValue = totals.TotalValue.Add(p.StockValue())
			totals.TotalStock += int64(p.StockQuantity)
			totals.ProductCount++
			if p.IsBelowThreshold() {
				totals.LowStockCount++
			}
		}
	})
	return totals, nil
}
