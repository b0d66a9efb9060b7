package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// HistoryFilter filtro del historial. From/To nil = sin límite en ese extremo (ambos inclusivos).
type HistoryFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
}

// InventoryHistoryRepository puerto del historial de inventario (solo inserción y lectura).
type InventoryHistoryRepository interface {
	Create(ctx context.Context, entry *entity.InventoryHistory) error
	// List devuelve los registros del filtro ordenados del más reciente al más antiguo.
	List(ctx context.Context, filter HistoryFilter) ([]*entity.InventoryHistory, error)
}
