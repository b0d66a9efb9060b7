package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que producto e historial se persisten juntos o no se persisten.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.InventoryHistoryRepository,
	) error) error
}

// ProductHook se invoca explícitamente después de confirmar una mutación de productos.
type ProductHook interface {
	AfterProductChange(ctx context.Context, products ...*entity.Product)
}
