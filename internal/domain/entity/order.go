package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// OrderType tipo de orden.
type OrderType string

const (
	OrderTypePurchase OrderType = "purchase"
	OrderTypeSale     OrderType = "sale"
)

// Valid indica si t es un tipo de orden conocido.
func (t OrderType) Valid() bool {
	return t == OrderTypePurchase || t == OrderTypeSale
}

// OrderStatus estado de una orden.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// Valid indica si s es un estado conocido.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusCompleted
}

// Order cabecera de una orden de compra o venta. Es dueña exclusiva de sus Items.
type Order struct {
	ID          string
	OrderType   OrderType
	Status      OrderStatus
	TotalAmount decimal.Decimal // se calcula solo al crear
	UserID      string
	Items       []*OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem línea de una orden.
type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// Subtotal devuelve quantity × price_at_purchase.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal suma los subtotales de los ítems actuales.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ValidateTotal verifica que total_amount entre en su columna (menor que MaxOrderTotal).
func (o *Order) ValidateTotal() error {
	if o.TotalAmount.GreaterThanOrEqual(MaxOrderTotal) {
		return domain.NewValidationError("items", "el total de la orden excede el máximo permitido")
	}
	return nil
}

// ItemByProduct devuelve el ítem de la orden para productID, o nil.
func (o *Order) ItemByProduct(productID string) *OrderItem {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return it
		}
	}
	return nil
}
