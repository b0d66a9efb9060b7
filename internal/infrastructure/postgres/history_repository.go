package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.InventoryHistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial de inventario sobre PostgreSQL (solo INSERT y SELECT).
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

func (r *HistoryRepo) Create(ctx context.Context, h *entity.InventoryHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_history (id, product_id, user_id, action, quantity_changed, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.ProductID, h.UserID, string(h.Action), h.QuantityChanged, h.Timestamp,
	)
	if err != nil {
		return mapWriteError("insert inventory history", err)
	}
	return nil
}

func (r *HistoryRepo) List(ctx context.Context, f repository.HistoryFilter) ([]*entity.InventoryHistory, error) {
	query, args := buildHistoryQuery(f)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory history: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryHistory
	for rows.Next() {
		var (
			h      entity.InventoryHistory
			action string
		)
		if err := rows.Scan(&h.ID, &h.ProductID, &h.UserID, &action, &h.QuantityChanged, &h.Timestamp); err != nil {
			return nil, fmt.Errorf("scan inventory history: %w", err)
		}
		h.Action = entity.HistoryAction(action)
		list = append(list, &h)
	}
	return list, rows.Err()
}

// buildHistoryQuery arma el SELECT con los filtros presentes; ambos extremos del rango son inclusivos.
func buildHistoryQuery(f repository.HistoryFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("timestamp <= $%d", len(args)))
	}
	var sb strings.Builder
	sb.WriteString("SELECT id, product_id, user_id, action, quantity_changed, timestamp FROM inventory_history")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY timestamp DESC, seq DESC")
	return sb.String(), args
}
