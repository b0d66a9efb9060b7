package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Actor usuario que ejecuta la operación (identidad opaca para auditoría y autorización).
type Actor struct {
	UserID string
	Role   entity.Role
}

func (a Actor) isAdmin() bool { return a.Role == entity.RoleAdmin }

// OrderUseCase crea y actualiza órdenes con ítems y totales consistentes.
type OrderUseCase struct {
	txRunner  OrderTxRunner
	ledger    StockLedger
	orderRepo repository.OrderRepository
	hook      inventory.ProductHook
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. hook puede ser nil.
func NewOrderUseCase(
	txRunner OrderTxRunner,
	ledger StockLedger,
	orderRepo repository.OrderRepository,
	hook inventory.ProductHook,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		orderRepo: orderRepo,
		hook:      hook,
		now:       time.Now,
	}
}

// CreateOrder crea la orden, descuenta stock por cada ítem y calcula total_amount, todo en una transacción.
// Si algún ítem excede el stock disponible retorna ErrInsufficientStock y no queda nada aplicado.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actor Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	orderType := entity.OrderType(in.OrderType)
	if !orderType.Valid() {
		return nil, domain.NewValidationError("order_type", "debe ser purchase o sale")
	}
	status := entity.OrderStatusPending
	if in.Status != "" {
		status = entity.OrderStatus(in.Status)
		if !status.Valid() {
			return nil, domain.NewValidationError("status", "debe ser pending o completed")
		}
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la orden requiere al menos un ítem")
	}
	for _, it := range in.Items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		OrderType: orderType,
		Status:    status,
		UserID:    actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, &entity.OrderItem{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}
	// Total calculado una sola vez, al crear.
	order.TotalAmount = order.ComputeTotal()
	if err := order.ValidateTotal(); err != nil {
		return nil, err
	}

	var touched []*entity.Product
	err := uc.txRunner.RunOrder(ctx, func(
		productRepo repository.ProductRepository,
		historyRepo repository.InventoryHistoryRepository,
		orderRepo repository.OrderRepository,
	) error {
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			product, err := uc.ledger.DeductInTx(ctx, productRepo, historyRepo, item.ProductID, item.Quantity, actor.UserID, now)
			if err != nil {
				return err
			}
			if err := orderRepo.AddItem(ctx, item); err != nil {
				return err
			}
			touched = append(touched, product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.hook != nil {
		uc.hook.AfterProductChange(ctx, latestByID(touched)...)
	}
	return ToOrderResponse(order), nil
}

// UpdateOrder cambia el estado y/o agrega o modifica ítems (emparejados por producto).
// No toca el stock ni recalcula total_amount. Solo el dueño o un admin pueden actualizar (ErrForbidden).
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, actor Actor, orderID string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	var status *entity.OrderStatus
	if in.Status != nil {
		s := entity.OrderStatus(*in.Status)
		if !s.Valid() {
			return nil, domain.NewValidationError("status", "debe ser pending o completed")
		}
		status = &s
	}
	for _, it := range in.Items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
	}

	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.InventoryHistoryRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := authorize(actor, order); err != nil {
			return err
		}

		for _, it := range in.Items {
			p, err := productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			if existing := order.ItemByProduct(it.ProductID); existing != nil {
				existing.Quantity = it.Quantity
				existing.PriceAtPurchase = it.PriceAtPurchase
				if err := orderRepo.UpdateItem(ctx, existing); err != nil {
					return err
				}
				continue
			}
			item := &entity.OrderItem{
				ID:              uuid.New().String(),
				OrderID:         order.ID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				PriceAtPurchase: it.PriceAtPurchase,
			}
			if err := orderRepo.AddItem(ctx, item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		if status != nil {
			order.Status = *status
		}
		order.UpdatedAt = uc.now()
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(updated), nil
}

// GetOrder devuelve una orden visible para el actor.
func (uc *OrderUseCase) GetOrder(ctx context.Context, actor Actor, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(actor, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListOrders lista todas las órdenes para admin y solo las propias para staff.
func (uc *OrderUseCase) ListOrders(ctx context.Context, actor Actor) ([]dto.OrderResponse, error) {
	owner := actor.UserID
	if actor.isAdmin() {
		owner = ""
	}
	list, err := uc.orderRepo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out, nil
}

// DeleteOrder elimina la orden y sus ítems. No devuelve stock.
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, actor Actor, orderID string) error {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if err := authorize(actor, order); err != nil {
		return err
	}
	return uc.orderRepo.Delete(ctx, orderID)
}

func authorize(actor Actor, order *entity.Order) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	if order.UserID != actor.UserID && !actor.isAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func validateItem(it dto.OrderItemRequest) error {
	if it.ProductID == "" {
		return domain.NewValidationError("product", "es requerido")
	}
	if it.Quantity < 1 {
		return domain.NewValidationError("quantity", "debe ser al menos 1")
	}
	return entity.ValidatePrice("price_at_purchase", it.PriceAtPurchase)
}

// latestByID conserva el último estado de cada producto (una orden puede repetir producto).
func latestByID(products []*entity.Product) []*entity.Product {
	idx := make(map[string]int, len(products))
	var out []*entity.Product
	for _, p := range products {
		if i, ok := idx[p.ID]; ok {
			out[i] = p
			continue
		}
		idx[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

// ToOrderResponse convierte una orden a DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		OrderType:   string(o.OrderType),
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		UserID:      o.UserID,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
