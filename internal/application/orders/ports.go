package orders

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// OrderTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y órdenes.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.InventoryHistoryRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// StockLedger integra órdenes con el libro de stock.
// DeductInTx usa los repositorios del caller (misma transacción); si retorna error
// (ej: ErrInsufficientStock) el caller debe hacer rollback.
type StockLedger interface {
	DeductInTx(
		ctx context.Context,
		productRepo repository.ProductRepository,
		historyRepo repository.InventoryHistoryRepository,
		productID string,
		quantity int,
		userID string,
		now time.Time,
	) (*entity.Product, error)
}
