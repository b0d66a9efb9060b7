package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.InventoryHistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial de inventario en memoria (solo inserción).
type HistoryRepo struct{ s view }

func (r *HistoryRepo) Create(_ context.Context, h *entity.InventoryHistory) error {
	return r.s.write(func(d *state) error {
		d.history = append(d.history, cloneHistory(h))
		return nil
	})
}

// List devuelve del más reciente al más antiguo; a igual timestamp, el último insertado primero.
func (r *HistoryRepo) List(_ context.Context, f repository.HistoryFilter) ([]*entity.InventoryHistory, error) {
	var out []*entity.InventoryHistory
	r.s.read(func(d *state) {
		for i := len(d.history) - 1; i >= 0; i-- {
			h := d.history[i]
			if f.ProductID != "" && h.ProductID != f.ProductID {
				continue
			}
			if f.From != nil && h.Timestamp.Before(*f.From) {
				continue
			}
			if f.To != nil && h.Timestamp.After(*f.To) {
				continue
			}
			out = append(out, cloneHistory(h))
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
