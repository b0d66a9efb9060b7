package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia para Order y sus OrderItem.
type OrderRepository interface {
	// Create persiste solo la cabecera; los ítems se agregan con AddItem.
	Create(ctx context.Context, order *entity.Order) error
	AddItem(ctx context.Context, item *entity.OrderItem) error
	UpdateItem(ctx context.Context, item *entity.OrderItem) error
	// Update persiste estado y updated_at. total_amount no se modifica.
	Update(ctx context.Context, order *entity.Order) error
	// GetByID devuelve la orden con sus ítems, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// List lista órdenes con ítems; userID vacío = todas.
	List(ctx context.Context, userID string) ([]*entity.Order, error)
	// Delete elimina la orden y sus ítems.
	Delete(ctx context.Context, id string) error
}
