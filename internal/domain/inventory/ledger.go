package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ApplyDelta aplica delta al stock del producto y devuelve el registro de historial correspondiente
// (servicio de dominio, sin persistencia). La acción se deriva solo del signo del delta.
// Si el stock resultante fuera negativo retorna ErrInsufficientStock y no modifica el producto.
func ApplyDelta(p *entity.Product, delta int, userID string, now time.Time) (*entity.InventoryHistory, error) {
	next := p.StockQuantity + delta
	if next < 0 {
		return nil, domain.ErrInsufficientStock
	}
	p.StockQuantity = next
	p.UpdatedAt = now
	return NewHistory(p.ID, delta, userID, now), nil
}

// Deduct descuenta quantity del stock (salida por ítem de orden).
// Falla con ErrInsufficientStock si quantity supera el stock actual.
func Deduct(p *entity.Product, quantity int, userID string, now time.Time) (*entity.InventoryHistory, error) {
	if quantity < 1 {
		return nil, domain.NewValidationError("quantity", "debe ser al menos 1")
	}
	if quantity > p.StockQuantity {
		return nil, domain.ErrInsufficientStock
	}
	return ApplyDelta(p, -quantity, userID, now)
}

// NewHistory construye un registro de historial. userID vacío = acción del sistema.
func NewHistory(productID string, delta int, userID string, now time.Time) *entity.InventoryHistory {
	h := &entity.InventoryHistory{
		ID:              uuid.New().String(),
		ProductID:       productID,
		Action:          entity.ClassifyDelta(delta),
		QuantityChanged: delta,
		Timestamp:       now,
	}
	if userID != "" {
		uid := userID
		h.UserID = &uid
	}
	return h
}
