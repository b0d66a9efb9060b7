package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// InventoryTotals usa COALESCE para devolver cero cuando no hay productos.
func (r *ReportRepo) InventoryTotals(ctx context.Context) (repository.InventoryTotals, error) {
	var t repository.InventoryTotals
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(price * stock_quantity), 0),
			COALESCE(SUM(stock_quantity), 0)::bigint,
			COUNT(*)::int,
			COUNT(*) FILTER (WHERE stock_quantity < threshold)::int
		FROM products`).Scan(&t.TotalValue, &t.TotalStock, &t.ProductCount, &t.LowStockCount)
	if err != nil {
		return repository.InventoryTotals{}, fmt.Errorf("inventory totals: %w", err)
	}
	return t, nil
}
