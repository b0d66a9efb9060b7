package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// LedgerUseCase mantiene stock_quantity consistente y agrega un registro de historial por cada cambio.
type LedgerUseCase struct {
	txRunner    TxRunner
	historyRepo repository.InventoryHistoryRepository
	hook        ProductHook
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. hook puede ser nil.
func NewLedgerUseCase(txRunner TxRunner, historyRepo repository.InventoryHistoryRepository, hook ProductHook) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		historyRepo: historyRepo,
		hook:        hook,
		now:         time.Now,
	}
}

// ApplyDelta aplica delta al producto en su propia transacción: bloquea la fila, actualiza el stock
// y guarda el historial. Después del Commit invoca el hook con el producto modificado.
func (uc *LedgerUseCase) ApplyDelta(ctx context.Context, productID string, delta int, userID string) (*entity.Product, *entity.InventoryHistory, error) {
	if productID == "" {
		return nil, nil, domain.NewValidationError("product", "es requerido")
	}
	var (
		product *entity.Product
		entry   *entity.InventoryHistory
	)
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.InventoryHistoryRepository) error {
		p, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		h, err := uc.ApplyInTx(ctx, productRepo, historyRepo, p, delta, userID, now)
		if err != nil {
			return err
		}
		product, entry = p, h
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if uc.hook != nil {
		uc.hook.AfterProductChange(ctx, product)
	}
	return product, entry, nil
}

// AdjustStockFromRequest adapta el request HTTP a ApplyDelta.
func (uc *LedgerUseCase) AdjustStockFromRequest(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.HistoryResponse, error) {
	_, entry, err := uc.ApplyDelta(ctx, in.ProductID, in.Quantity, userID)
	if err != nil {
		return nil, err
	}
	out := ToHistoryResponse(entry)
	return &out, nil
}

// ApplyInTx aplica delta sobre product (ya bloqueado por el caller) usando los repositorios de la
// transacción del caller. Si retorna error, el caller debe hacer rollback.
func (uc *LedgerUseCase) ApplyInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	historyRepo repository.InventoryHistoryRepository,
	product *entity.Product,
	delta int,
	userID string,
	now time.Time,
) (*entity.InventoryHistory, error) {
	entry, err := domaininv.ApplyDelta(product, delta, userID, now)
	if err != nil {
		return nil, err
	}
	if err := productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	if err := historyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeductInTx descuenta quantity del producto para un ítem de orden dentro de la transacción del caller.
// Falla con ErrInsufficientStock si quantity supera el stock actual; en ese caso nada se escribe.
func (uc *LedgerUseCase) DeductInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	historyRepo repository.InventoryHistoryRepository,
	productID string,
	quantity int,
	userID string,
	now time.Time,
) (*entity.Product, error) {
	product, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	entry, err := domaininv.Deduct(product, quantity, userID, now)
	if err != nil {
		return nil, err
	}
	if err := productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	if err := historyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return product, nil
}

// ProductHistory devuelve el historial de un producto, del más reciente al más antiguo.
func (uc *LedgerUseCase) ProductHistory(ctx context.Context, productID string) ([]dto.HistoryResponse, error) {
	list, err := uc.historyRepo.List(ctx, repository.HistoryFilter{ProductID: productID})
	if err != nil {
		return nil, err
	}
	return ToHistoryResponses(list), nil
}

// ToHistoryResponse convierte un registro de historial a DTO.
func ToHistoryResponse(h *entity.InventoryHistory) dto.HistoryResponse {
	return dto.HistoryResponse{
		ID:              h.ID,
		ProductID:       h.ProductID,
		UserID:          h.UserID,
		Action:          string(h.Action),
		QuantityChanged: h.QuantityChanged,
		Timestamp:       h.Timestamp,
	}
}

// ToHistoryResponses convierte una lista de registros a DTOs (nunca nil).
func ToHistoryResponses(list []*entity.InventoryHistory) []dto.HistoryResponse {
	out := make([]dto.HistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, ToHistoryResponse(h))
	}
	return out
}
